package parser

import (
	"fmt"
	"strconv"
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/pluginconf"
	"rpgtrans/internal/transpath"
)

// PluginHandler handles PluginCommand (357) invocations. It extracts nothing
// unless the named plugin has a config in the store; configured plugins get
// their argument structure walked and every string leaf matching a
// translatable field pattern becomes a unit.
type PluginHandler struct {
	Store *pluginconf.Store
}

func (PluginHandler) Codes() []command.Code {
	return []command.Code{command.CodePluginCommand}
}

// matchingFields returns the string leaves of the argument structure whose
// concrete path matches a translatable pattern of the config.
func matchingFields(cfg pluginconf.PluginConfig, args any) []pluginconf.StringField {
	var matched []pluginconf.StringField
	for _, field := range pluginconf.StringFields(args) {
		for _, fc := range cfg.Fields {
			if !fc.Translatable {
				continue
			}
			fp, err := transpath.CompilePattern(fc.Pattern)
			if err != nil {
				continue
			}
			if fp.Matches(field.Path) {
				matched = append(matched, field)
				break
			}
		}
	}
	return matched
}

// pluginUnitID derives the id for one plugin field. Dots collapse to
// underscores so the id stays a flat token alongside the path-based ids of
// the other handlers.
func pluginUnitID(base transpath.Path, pluginName, fieldPath string) string {
	flat := func(s string) string { return strings.ReplaceAll(s, ".", "_") }
	return fmt.Sprintf("%s_plugin_%s_%s", base.UnitID(""), flat(pluginName), flat(fieldPath))
}

// relFieldPath converts a dotted argument-structure path into segments.
// Numeric segments are array indexes; there is no parameter folding inside
// plugin arguments.
func relFieldPath(fieldPath string) transpath.Path {
	var p transpath.Path
	for _, part := range strings.Split(fieldPath, ".") {
		if n, err := strconv.Atoi(part); err == nil && n >= 0 {
			p = p.AppendIndex(n)
			continue
		}
		p = p.AppendKey(part)
	}
	return p
}

func (h PluginHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	if !opts.ExtractPlugins || h.Store == nil {
		return SkipResult(1)
	}

	data, ok := cs[index].PluginData()
	if !ok {
		return SkipResult(1)
	}

	cfg, ok := h.Store.Lookup(data.PluginName)
	if !ok || !cfg.Enabled {
		return SkipResult(1)
	}

	base := prefix.AppendIndex(index)

	var units []Unit
	for _, field := range matchingFields(cfg, data.Arguments) {
		text := field.Value
		if opts.TrimWhitespace {
			text = strings.TrimSpace(text)
		}
		if strings.TrimSpace(text) == "" && !opts.IncludeEmpty {
			continue
		}

		tctx := ctx.TranslationContext()
		tctx.Tags = append(tctx.Tags,
			"plugin:"+data.PluginName,
			"field:"+field.Path,
		)

		units = append(units, Unit{
			ID:       pluginUnitID(base, data.PluginName, field.Path),
			Path:     append(base.AppendParameter(3), relFieldPath(field.Path)...),
			Code:     command.CodePluginCommand,
			Original: text,
			Context:  tctx,
			Status:   StatusPending,
		})
	}

	return ExtractResult{Units: units, Consumed: 1}
}

func (h PluginHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, _ InjectOptions) ([]command.Command, InjectResult) {
	result := InjectResult{Produced: 1}
	if h.Store == nil {
		return cs, result
	}

	data, ok := cs[index].PluginData()
	if !ok {
		return cs, result
	}

	cfg, ok := h.Store.Lookup(data.PluginName)
	if !ok || !cfg.Enabled {
		return cs, result
	}

	base := prefix.AppendIndex(index)

	for _, field := range matchingFields(cfg, data.Arguments) {
		if strings.TrimSpace(field.Value) == "" {
			continue
		}
		translated, hit := translations[pluginUnitID(base, data.PluginName, field.Path)]
		if !hit {
			result.NotFound++
			continue
		}

		if err := relFieldPath(field.Path).Set(data.Arguments, translated); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: set plugin field %q: %v", base, field.Path, err))
			result.NotFound++
			continue
		}
		result.Applied++
	}

	if result.Applied > 0 {
		result.CommandsModified = 1
	}
	return cs, result
}
