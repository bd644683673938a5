package parser

import (
	"fmt"
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/textcode"
	"rpgtrans/internal/transpath"
)

// ShowTextHandler handles the ShowText (101) header that opens a message
// window. It emits no units; it only updates the current speaker for the body
// commands that follow.
type ShowTextHandler struct{}

func (ShowTextHandler) Codes() []command.Code {
	return []command.Code{command.CodeShowText}
}

func (ShowTextHandler) Extract(cs []command.Command, index int, _ transpath.Path, _ *ExtractionContext, _ ExtractOptions) ExtractResult {
	speaker, _ := cs[index].SpeakerName()
	return ExtractResult{Consumed: 1, Speaker: speaker, SpeakerSet: true}
}

func (ShowTextHandler) Inject(cs []command.Command, index int, _ map[string]string, _ transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	_ = index
	return cs, InjectResult{Produced: 1}
}

// DialogueHandler handles text-body commands (401, and 405 for scrolling
// text). Consecutive body commands at the same indent merge into one unit
// whose id is derived from the first body command's path; injection splits
// the translation on line breaks and splices one body command per line, so
// the output run may be longer or shorter than the original.
type DialogueHandler struct{}

func (DialogueHandler) Codes() []command.Code {
	return []command.Code{command.CodeTextBody, command.CodeScrollingTextBody}
}

func (DialogueHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	code := cs[index].Code
	indent := cs[index].Indent

	var lines []string
	consumed := 0
	allEmpty := true

	for index+consumed < len(cs) {
		cur := cs[index+consumed]
		if cur.Code != code || cur.Indent != indent {
			break
		}
		text, ok := cur.DialogueText()
		if !ok {
			break
		}
		if opts.TrimWhitespace {
			text = strings.TrimSpace(text)
		}
		if strings.TrimSpace(text) != "" {
			allEmpty = false
		}
		lines = append(lines, text)
		consumed++
	}

	if consumed == 0 {
		// Malformed body command (non-string parameter). Treat as unknown.
		return ExtractResult{
			Consumed: 1,
			Warnings: []string{fmt.Sprintf("%s: body command without text parameter", prefix.AppendIndex(index))},
		}
	}

	if allEmpty && !opts.IncludeEmpty {
		return SkipResult(consumed)
	}

	merged := strings.Join(lines, opts.LineSeparator)

	unit := Unit{
		ID:       unitID(prefix, index, "dialogue"),
		Path:     prefix.AppendIndex(index),
		Code:     code,
		Original: merged,
		Speaker:  ctx.Speaker,
		Context:  ctx.TranslationContext(),
		Status:   StatusPending,
	}

	result := SingleResult(unit, consumed)
	result.Preceding = merged
	return result
}

func (DialogueHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, opts InjectOptions) ([]command.Command, InjectResult) {
	code := cs[index].Code
	indent := cs[index].Indent

	oldCount := 0
	allEmpty := true
	var originals []string
	for index+oldCount < len(cs) {
		cur := cs[index+oldCount]
		if cur.Code != code || cur.Indent != indent {
			break
		}
		text, ok := cur.DialogueText()
		if !ok {
			break
		}
		if strings.TrimSpace(text) != "" {
			allEmpty = false
		}
		originals = append(originals, text)
		oldCount++
	}

	if oldCount == 0 {
		return cs, InjectResult{Produced: 1}
	}
	if allEmpty {
		// Extraction produced no unit for an all-blank run; leave it alone.
		return cs, InjectResult{Produced: oldCount}
	}

	id := unitID(prefix, index, "dialogue")
	translated, ok := translations[id]
	if !ok {
		return cs, InjectResult{NotFound: 1, Produced: oldCount}
	}

	result := InjectResult{Applied: 1, CommandsModified: oldCount}

	if opts.ValidateControlCodes {
		if missing := textcode.Missing(strings.Join(originals, "\n"), translated); len(missing) > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: translation dropped control codes %v", prefix.AppendIndex(index), missing))
		}
	}

	newLines := opts.SplitText(translated)
	replacement := make([]command.Command, len(newLines))
	for i, line := range newLines {
		replacement[i] = command.New(code, indent, []any{line})
	}

	out := make([]command.Command, 0, len(cs)-oldCount+len(replacement))
	out = append(out, cs[:index]...)
	out = append(out, replacement...)
	out = append(out, cs[index+oldCount:]...)

	result.Produced = len(replacement)
	return out, result
}

// NameFieldHandler handles the miscellaneous single-field text codes:
// ChangeNickname (324) and ChangeProfile (325), both [actor_id, text].
type NameFieldHandler struct{}

func (NameFieldHandler) Codes() []command.Code {
	return []command.Code{command.CodeChangeNickname, command.CodeChangeProfile}
}

func nameFieldSuffix(code command.Code) string {
	if code == command.CodeChangeNickname {
		return "nickname"
	}
	return "profile"
}

func (NameFieldHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	cmd := cs[index]
	text, ok := cmd.StringParam(1)
	if !ok {
		return SkipResult(1)
	}
	if opts.TrimWhitespace {
		text = strings.TrimSpace(text)
	}
	if strings.TrimSpace(text) == "" && !opts.IncludeEmpty {
		return SkipResult(1)
	}

	unit := Unit{
		ID:       unitID(prefix, index, nameFieldSuffix(cmd.Code)),
		Path:     prefix.AppendIndex(index).AppendParameter(1),
		Code:     cmd.Code,
		Original: text,
		Context:  ctx.TranslationContext(),
		Status:   StatusPending,
	}
	return SingleResult(unit, 1)
}

func (NameFieldHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	cmd := cs[index]
	text, ok := cmd.StringParam(1)
	if !ok || strings.TrimSpace(text) == "" {
		return cs, InjectResult{Produced: 1}
	}

	id := unitID(prefix, index, nameFieldSuffix(cmd.Code))
	translated, ok := translations[id]
	if !ok {
		return cs, InjectResult{NotFound: 1, Produced: 1}
	}

	cs[index].Parameters[1] = translated
	return cs, InjectResult{Applied: 1, CommandsModified: 1, Produced: 1}
}
