package parser

import (
	"path/filepath"
	"regexp"
)

// ExtractOutput is the result of extracting one document.
type ExtractOutput struct {
	SourceFile string
	Units      []Unit
	Speakers   []string
	Warnings   []string
}

// collectSpeakers lists the distinct speakers in unit order.
func collectSpeakers(units []Unit) []string {
	seen := make(map[string]struct{})
	var speakers []string
	for _, u := range units {
		if u.Speaker == "" {
			continue
		}
		if _, ok := seen[u.Speaker]; ok {
			continue
		}
		seen[u.Speaker] = struct{}{}
		speakers = append(speakers, u.Speaker)
	}
	return speakers
}

// InjectOutput is the result of injecting translations into one document.
type InjectOutput struct {
	Applied          int
	NotFound         int
	CommandsModified int
	Warnings         []string
	// Modified reports whether the document tree was changed at all; callers
	// skip rewriting files whose trees came through untouched.
	Modified bool
}

// DocumentParser extracts from and injects into one engine JSON document
// shape. The doc argument is the decoded JSON tree; Inject mutates it in
// place where possible and reports whether anything changed.
type DocumentParser interface {
	Extract(doc any, fileName string, opts ExtractOptions) (*ExtractOutput, error)
	Inject(doc any, translations map[string]string, opts InjectOptions) (*InjectOutput, error)
}

var mapFileRE = regexp.MustCompile(`^Map\d+\.json$`)

// ParserFor picks the document parser for a data file by name.
// CommonEvents.json and MapNNN.json are supported; MapInfos.json and
// everything else is not translatable event data.
func ParserFor(fileName string, registry *Registry) (DocumentParser, bool) {
	base := filepath.Base(fileName)
	switch {
	case base == "CommonEvents.json":
		return &CommonEventsParser{walker: NewWalker(registry)}, true
	case mapFileRE.MatchString(base):
		return &MapParser{walker: NewWalker(registry)}, true
	}
	return nil, false
}
