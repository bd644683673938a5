package parser

import (
	"fmt"
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/transpath"
)

// Walker drives handler dispatch over command lists. Extraction and injection
// share the same traversal so ids computed on the way out match ids computed
// on the way back in.
type Walker struct {
	Registry *Registry
}

// NewWalker wraps a registry.
func NewWalker(registry *Registry) *Walker {
	return &Walker{Registry: registry}
}

// ExtractList walks one command list. prefix addresses the list itself
// (e.g. "events.1.pages.0.list"); each handler sees the index of the command
// it was dispatched on and derives unit ids from prefix plus that index.
// Commands without a handler pass through untouched, unless StrictCodes is
// set and the code is entirely unknown.
func (w *Walker) ExtractList(cs []command.Command, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ([]Unit, []string, error) {
	var units []Unit
	var warnings []string

	for i := 0; i < len(cs); {
		handler, ok := w.Registry.Lookup(cs[i].Code)
		if !ok {
			if opts.StrictCodes && !cs[i].Code.Known() {
				return units, warnings, fmt.Errorf("%w: %d at %s", ErrUnsupportedCode, int(cs[i].Code), prefix.AppendIndex(i))
			}
			i++
			continue
		}

		res := handler.Extract(cs, i, prefix, ctx, opts)
		units = append(units, res.Units...)
		warnings = append(warnings, res.Warnings...)

		if res.SpeakerSet {
			ctx.Speaker = res.Speaker
		}
		if res.Preceding != "" {
			for _, line := range strings.Split(res.Preceding, opts.LineSeparator) {
				ctx.AddPrecedingLine(line)
			}
		}

		// A handler must make progress.
		consumed := res.Consumed
		if consumed < 1 {
			consumed = 1
		}
		i += consumed
	}

	return units, warnings, nil
}

// InjectList walks one command list substituting translations. It mirrors
// ExtractList's dispatch, but advances by the number of commands a handler
// produced, since dialogue splicing can change the run length under the
// walker's feet.
func (w *Walker) InjectList(cs []command.Command, translations map[string]string, prefix transpath.Path, opts InjectOptions) ([]command.Command, InjectResult) {
	var total InjectResult

	for i := 0; i < len(cs); {
		handler, ok := w.Registry.Lookup(cs[i].Code)
		if !ok {
			i++
			continue
		}

		var res InjectResult
		cs, res = handler.Inject(cs, i, translations, prefix, opts)
		total.Merge(res)

		produced := res.Produced
		if produced < 1 {
			produced = 1
		}
		i += produced
	}

	return cs, total
}

// extractPageList parses one page's raw "list" value and walks it.
func (w *Walker) extractPageList(list any, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ([]Unit, []string, error) {
	cs := command.ParseList(list)
	if cs == nil {
		return nil, nil, nil
	}
	return w.ExtractList(cs, prefix, ctx, opts)
}

// injectPageList parses, walks and re-serializes one page's raw "list" value.
// The re-serialized list is returned only when something was modified, so
// untouched pages keep their original records.
func (w *Walker) injectPageList(list any, translations map[string]string, prefix transpath.Path, opts InjectOptions) (any, InjectResult) {
	cs := command.ParseList(list)
	if cs == nil {
		return list, InjectResult{}
	}

	cs, res := w.InjectList(cs, translations, prefix, opts)
	if res.CommandsModified == 0 {
		return list, res
	}
	return command.ToList(cs), res
}
