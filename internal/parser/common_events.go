package parser

import (
	"fmt"

	"rpgtrans/internal/transpath"
)

// CommonEventsParser handles CommonEvents.json: a root array whose slot 0 is
// null and whose remaining slots are event objects with a "list" of commands.
// Unit paths are rooted at the event's array index, so ids look like
// "3.list.5_dialogue".
type CommonEventsParser struct {
	walker *Walker
}

// NewCommonEventsParser builds a parser over a handler registry.
func NewCommonEventsParser(registry *Registry) *CommonEventsParser {
	return &CommonEventsParser{walker: NewWalker(registry)}
}

func (p *CommonEventsParser) Extract(doc any, fileName string, opts ExtractOptions) (*ExtractOutput, error) {
	events, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: CommonEvents root is not an array", ErrInvalidStructure)
	}

	out := &ExtractOutput{SourceFile: fileName}
	root := NewExtractionContext(fileName, opts.MaxPrecedingLines)

	for i, raw := range events {
		event, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		ctx := root.ForPage(0)
		if name, ok := event["name"].(string); ok {
			ctx.EventName = name
		}
		ctx.EventID = i

		prefix := transpath.Path{}.AppendIndex(i).AppendKey("list")
		units, warnings, err := p.walker.extractPageList(event["list"], prefix, ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("common event %d: %w", i, err)
		}
		out.Units = append(out.Units, units...)
		out.Warnings = append(out.Warnings, warnings...)
	}

	out.Speakers = collectSpeakers(out.Units)
	return out, nil
}

func (p *CommonEventsParser) Inject(doc any, translations map[string]string, opts InjectOptions) (*InjectOutput, error) {
	events, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: CommonEvents root is not an array", ErrInvalidStructure)
	}

	out := &InjectOutput{}

	for i, raw := range events {
		event, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		prefix := transpath.Path{}.AppendIndex(i).AppendKey("list")
		newList, res := p.walker.injectPageList(event["list"], translations, prefix, opts)

		out.Applied += res.Applied
		out.NotFound += res.NotFound
		out.CommandsModified += res.CommandsModified
		out.Warnings = append(out.Warnings, res.Warnings...)

		if res.CommandsModified > 0 {
			event["list"] = newList
			out.Modified = true
		}
	}

	return out, nil
}
