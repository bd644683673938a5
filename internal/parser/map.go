package parser

import (
	"fmt"
	"strings"

	"rpgtrans/internal/transpath"
)

// MapParser handles MapNNN.json: an object with a displayName and an "events"
// array (slot 0 null) of event objects, each holding "pages" whose entries
// carry a command "list". Unit paths are rooted at
// "events.<i>.pages.<p>.list".
type MapParser struct {
	walker *Walker
}

// NewMapParser builds a parser over a handler registry.
func NewMapParser(registry *Registry) *MapParser {
	return &MapParser{walker: NewWalker(registry)}
}

var displayNamePath = transpath.Path{}.AppendKey("displayName")

func (p *MapParser) Extract(doc any, fileName string, opts ExtractOptions) (*ExtractOutput, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: map root is not an object", ErrInvalidStructure)
	}
	events, ok := root["events"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: map has no events array", ErrInvalidStructure)
	}

	out := &ExtractOutput{SourceFile: fileName}
	fileCtx := NewExtractionContext(fileName, opts.MaxPrecedingLines)

	displayName, _ := root["displayName"].(string)
	fileCtx.MapName = displayName

	if strings.TrimSpace(displayName) != "" {
		out.Units = append(out.Units, Unit{
			ID:       displayNamePath.UnitID(""),
			Path:     displayNamePath,
			Original: displayName,
			Context:  Context{FileName: fileName, MapName: displayName, Tags: []string{"display_name"}},
			Status:   StatusPending,
		})
	}

	for i, raw := range events {
		event, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		eventCtx := *fileCtx
		if name, ok := event["name"].(string); ok {
			eventCtx.EventName = name
		}
		eventCtx.EventID = i

		pages, ok := event["pages"].([]any)
		if !ok {
			continue
		}

		for pi, rawPage := range pages {
			page, ok := rawPage.(map[string]any)
			if !ok {
				continue
			}

			ctx := eventCtx.ForPage(pi)
			prefix := transpath.Path{}.
				AppendKey("events").AppendIndex(i).
				AppendKey("pages").AppendIndex(pi).
				AppendKey("list")

			units, warnings, err := p.walker.extractPageList(page["list"], prefix, ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("event %d page %d: %w", i, pi, err)
			}
			out.Units = append(out.Units, units...)
			out.Warnings = append(out.Warnings, warnings...)
		}
	}

	out.Speakers = collectSpeakers(out.Units)
	return out, nil
}

func (p *MapParser) Inject(doc any, translations map[string]string, opts InjectOptions) (*InjectOutput, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: map root is not an object", ErrInvalidStructure)
	}
	events, ok := root["events"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: map has no events array", ErrInvalidStructure)
	}

	out := &InjectOutput{}

	if displayName, ok := root["displayName"].(string); ok && strings.TrimSpace(displayName) != "" {
		if translated, hit := translations[displayNamePath.UnitID("")]; hit {
			root["displayName"] = translated
			out.Applied++
			out.Modified = true
		} else {
			out.NotFound++
		}
	}

	for i, raw := range events {
		event, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		pages, ok := event["pages"].([]any)
		if !ok {
			continue
		}

		for pi, rawPage := range pages {
			page, ok := rawPage.(map[string]any)
			if !ok {
				continue
			}

			prefix := transpath.Path{}.
				AppendKey("events").AppendIndex(i).
				AppendKey("pages").AppendIndex(pi).
				AppendKey("list")

			newList, res := p.walker.injectPageList(page["list"], translations, prefix, opts)

			out.Applied += res.Applied
			out.NotFound += res.NotFound
			out.CommandsModified += res.CommandsModified
			out.Warnings = append(out.Warnings, res.Warnings...)

			if res.CommandsModified > 0 {
				page["list"] = newList
				out.Modified = true
			}
		}
	}

	return out, nil
}
