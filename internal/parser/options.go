package parser

import "strings"

// ExtractOptions customize how text is pulled out of command lists.
type ExtractOptions struct {
	// TrimWhitespace trims extracted text before storing it.
	TrimWhitespace bool
	// MergeDialogueLines merges consecutive body commands into one unit.
	MergeDialogueLines bool
	// LineSeparator joins merged lines. Injection always splits on "\n",
	// so anything other than "\n" is lossy and meant for export pipelines.
	LineSeparator string
	// ExtractComments enables comment-body (408) extraction.
	ExtractComments bool
	// SkipCommentPrefixes drops comments that are engine directives.
	SkipCommentPrefixes []string
	// IncludeEmpty keeps units whose text is blank.
	IncludeEmpty bool
	// MaxPrecedingLines bounds the preceding-line context window.
	MaxPrecedingLines int
	// ExtractPlugins enables plugin-command (357) extraction.
	ExtractPlugins bool
	// ExtractScriptText enables prefixed 657 script text extraction.
	ExtractScriptText bool
	// ScriptTextPrefix is the assignment prefix marking translatable 657 text.
	ScriptTextPrefix string
	// StrictCodes makes unclassified codes an error instead of passthrough.
	StrictCodes bool
}

// DefaultExtractOptions returns the standard interactive-tool settings.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		MergeDialogueLines:  true,
		LineSeparator:       "\n",
		ExtractComments:     true,
		SkipCommentPrefixes: []string{";"},
		MaxPrecedingLines:   5,
		ExtractPlugins:      true,
		ExtractScriptText:   true,
		ScriptTextPrefix:    "テキスト = ",
	}
}

// ShouldSkipComment reports whether a comment line is an engine directive.
func (o ExtractOptions) ShouldSkipComment(text string) bool {
	for _, prefix := range o.SkipCommentPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// InjectOptions customize how translations are written back.
type InjectOptions struct {
	// MaxLineLength re-wraps translated dialogue; 0 keeps lines as-is.
	MaxLineLength int
	// WordAwareSplit wraps at word boundaries where the text has them.
	WordAwareSplit bool
	// PreserveLineBreaks keeps the translator's own line breaks when wrapping.
	PreserveLineBreaks bool
	// ValidateControlCodes warns when a translation dropped a control sequence.
	ValidateControlCodes bool
}

// DefaultInjectOptions returns the standard settings.
func DefaultInjectOptions() InjectOptions {
	return InjectOptions{
		WordAwareSplit:       true,
		PreserveLineBreaks:   true,
		ValidateControlCodes: true,
	}
}

// SplitText turns a translated string into dialogue lines, wrapping to
// MaxLineLength when configured.
func (o InjectOptions) SplitText(text string) []string {
	if o.MaxLineLength <= 0 {
		return strings.Split(text, "\n")
	}

	if !o.PreserveLineBreaks {
		return o.splitLine(strings.ReplaceAll(text, "\n", " "))
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, o.splitLine(line)...)
	}
	return out
}

func (o InjectOptions) splitLine(line string) []string {
	if displayWidth(line) <= o.MaxLineLength {
		return []string{line}
	}
	if o.WordAwareSplit {
		return o.splitAtWords(line)
	}
	return o.splitAtChars(line)
}

func (o InjectOptions) splitAtWords(text string) []string {
	var result []string
	var current string

	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			if displayWidth(word) > o.MaxLineLength {
				result = append(result, o.splitAtChars(word)...)
			} else {
				current = word
			}
		case displayWidth(current)+1+displayWidth(word) <= o.MaxLineLength:
			current += " " + word
		default:
			result = append(result, current)
			if displayWidth(word) > o.MaxLineLength {
				result = append(result, o.splitAtChars(word)...)
				current = ""
			} else {
				current = word
			}
		}
	}

	if current != "" {
		result = append(result, current)
	}
	return result
}

func (o InjectOptions) splitAtChars(text string) []string {
	var result []string
	var current strings.Builder
	width := 0

	for _, r := range text {
		w := runeWidth(r)
		if width+w > o.MaxLineLength && current.Len() > 0 {
			result = append(result, current.String())
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += w
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// CJK characters occupy two cells in the message window.
func runeWidth(r rune) int {
	if r < 128 {
		return 1
	}
	return 2
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}
