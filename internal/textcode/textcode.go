package textcode

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores an original control sequence and its safe placeholder.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type codeMatch struct {
	start, end int
	value      string
}

// patterns to detect RPG Maker message control sequences in game strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\\[CcIiNnPpVv]\[\d+\]`), // \C[2], \I[87], \N[1], \P[1], \V[12]
	regexp.MustCompile(`\\[Gg{}$.|!><^]`),       // \G, \{, \}, \$, \., \|, \!, \>, \<, \^
	regexp.MustCompile(`\\\\`),                  // escaped backslash literal
}

// Find returns every control sequence in the text, left to right.
func Find(text string) []string {
	matches := allMatches(text)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

// Missing returns the control sequences present in the original that a
// translated string no longer carries, used to warn before injection.
func Missing(original, translated string) []string {
	remaining := translated
	var missing []string
	for _, code := range Find(original) {
		if idx := strings.Index(remaining, code); idx >= 0 {
			remaining = remaining[:idx] + remaining[idx+len(code):]
			continue
		}
		missing = append(missing, code)
	}
	return missing
}

// Protect replaces control sequences with {{code_N}} placeholders so an
// external translation collaborator cannot mangle them. Returns the safe
// string and the mapping needed to restore the originals.
func Protect(text string) (string, []Mapping) {
	matches := allMatches(text)
	if len(matches) == 0 {
		return text, nil
	}

	var mappings []Mapping
	result := text
	// Replace back to front so earlier offsets stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		placeholder := fmt.Sprintf("{{code_%d}}", i+1)
		mappings = append([]Mapping{{
			Original:    m.value,
			Placeholder: placeholder,
			Index:       i + 1,
		}}, mappings...)
		result = result[:m.start] + placeholder + result[m.end:]
	}

	return result, mappings
}

// Restore replaces {{code_N}} placeholders with the original sequences.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}

func allMatches(text string) []codeMatch {
	var all []codeMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, codeMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	// Drop overlaps, keeping the earliest/longest match.
	var filtered []codeMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.end
		}
	}
	return filtered
}
