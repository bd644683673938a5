package parser

import (
	"fmt"
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/transpath"
)

// ChoicesHandler handles ShowChoices (102) headers. Each choice label becomes
// its own unit so translations can land back at the exact array slot; the
// branch bodies that follow are handled separately via 402.
type ChoicesHandler struct{}

func (ChoicesHandler) Codes() []command.Code {
	return []command.Code{command.CodeShowChoices}
}

func (ChoicesHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	labels, ok := cs[index].Choices()
	if !ok {
		return ExtractResult{
			Consumed: 1,
			Warnings: []string{fmt.Sprintf("%s: choices command without label array", prefix.AppendIndex(index))},
		}
	}

	base := prefix.AppendIndex(index)
	baseID := base.UnitID("")

	var units []Unit
	for i, label := range labels {
		text := label
		if opts.TrimWhitespace {
			text = strings.TrimSpace(text)
		}
		if strings.TrimSpace(text) == "" && !opts.IncludeEmpty {
			continue
		}
		units = append(units, Unit{
			ID:       fmt.Sprintf("%s_choice_%d", baseID, i),
			Path:     base.AppendParameter(0).AppendIndex(i),
			Code:     command.CodeShowChoices,
			Original: text,
			Speaker:  ctx.Speaker,
			Context:  ctx.TranslationContext(),
			Status:   StatusPending,
		})
	}

	return ExtractResult{Units: units, Consumed: 1}
}

func (ChoicesHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	labels, ok := cs[index].Choices()
	if !ok {
		return cs, InjectResult{Produced: 1}
	}

	baseID := prefix.AppendIndex(index).UnitID("")
	result := InjectResult{Produced: 1}
	modified := false

	out := make([]any, len(labels))
	for i, label := range labels {
		out[i] = label
		if strings.TrimSpace(label) == "" {
			continue
		}
		translated, hit := translations[fmt.Sprintf("%s_choice_%d", baseID, i)]
		if !hit {
			result.NotFound++
			continue
		}
		out[i] = translated
		result.Applied++
		modified = true
	}

	if modified {
		cs[index].Parameters[0] = out
		result.CommandsModified = 1
	}
	return cs, result
}

// ChoiceBranchHandler handles When (402) branch markers, whose second
// parameter repeats the selected label text and must track the 102 header.
type ChoiceBranchHandler struct{}

func (ChoiceBranchHandler) Codes() []command.Code {
	return []command.Code{command.CodeChoiceBranch}
}

func (ChoiceBranchHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	text, ok := cs[index].ChoiceText()
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
		ID:       unitID(prefix, index, "choice_branch"),
		Path:     prefix.AppendIndex(index).AppendParameter(1),
		Code:     command.CodeChoiceBranch,
		Original: text,
		Speaker:  ctx.Speaker,
		Context:  ctx.TranslationContext(),
		Status:   StatusPending,
	}
	return SingleResult(unit, 1)
}

func (ChoiceBranchHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	text, ok := cs[index].ChoiceText()
	if !ok || strings.TrimSpace(text) == "" {
		return cs, InjectResult{Produced: 1}
	}

	translated, hit := translations[unitID(prefix, index, "choice_branch")]
	if !hit {
		return cs, InjectResult{NotFound: 1, Produced: 1}
	}

	cs[index].Parameters[1] = translated
	return cs, InjectResult{Applied: 1, CommandsModified: 1, Produced: 1}
}
