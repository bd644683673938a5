package parser

import (
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/transpath"
)

// ScriptTextHandler handles 657 continuation lines that carry plugin text
// assignments. Only lines matching the configured assignment prefix are
// translatable; everything else in a script block is code and passes through.
type ScriptTextHandler struct{}

func (ScriptTextHandler) Codes() []command.Code {
	return []command.Code{command.CodeScriptBodyAlt}
}

func (ScriptTextHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	if !opts.ExtractScriptText || opts.ScriptTextPrefix == "" {
		return SkipResult(1)
	}

	text, ok := cs[index].ScriptSpecialText(opts.ScriptTextPrefix)
	if !ok {
		return SkipResult(1)
	}
	if opts.TrimWhitespace {
		text = strings.TrimSpace(text)
	}
	if strings.TrimSpace(text) == "" && !opts.IncludeEmpty {
		return SkipResult(1)
	}

	tctx := ctx.TranslationContext()
	tctx.Tags = append(tctx.Tags, "script")

	unit := Unit{
		ID:       unitID(prefix, index, "script_text"),
		Path:     prefix.AppendIndex(index).AppendParameter(0),
		Code:     command.CodeScriptBodyAlt,
		Original: text,
		Context:  tctx,
		Status:   StatusPending,
	}
	return SingleResult(unit, 1)
}

func (ScriptTextHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	line, ok := cs[index].StringParam(0)
	if !ok {
		return cs, InjectResult{Produced: 1}
	}

	// The inject walk does not carry extraction options, so the canonical
	// assignment prefix is assumed. A unit exists only if extraction saw it.
	prefixText := DefaultExtractOptions().ScriptTextPrefix
	if !strings.HasPrefix(line, prefixText) || strings.TrimSpace(strings.TrimPrefix(line, prefixText)) == "" {
		return cs, InjectResult{Produced: 1}
	}

	translated, hit := translations[unitID(prefix, index, "script_text")]
	if !hit {
		return cs, InjectResult{NotFound: 1, Produced: 1}
	}

	cs[index].Parameters[0] = prefixText + translated
	return cs, InjectResult{Applied: 1, CommandsModified: 1, Produced: 1}
}
