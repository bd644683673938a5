package parser

import "strings"

// ExtractionContext is the mutable state carried across one page's walk: the
// current speaker and a bounded window of preceding plain-text lines. It
// never outlives the page it was created for.
type ExtractionContext struct {
	FileName  string
	MapName   string
	EventName string
	EventID   int
	PageIndex int
	Speaker   string

	precedingLines []string
	maxPreceding   int
}

// NewExtractionContext creates a context for one source file walk.
func NewExtractionContext(fileName string, maxPrecedingLines int) *ExtractionContext {
	if maxPrecedingLines <= 0 {
		maxPrecedingLines = 5
	}
	return &ExtractionContext{
		FileName:     fileName,
		maxPreceding: maxPrecedingLines,
	}
}

// ForPage derives a fresh context for a page. Speaker and preceding lines do
// not leak across pages or events.
func (c *ExtractionContext) ForPage(pageIndex int) *ExtractionContext {
	return &ExtractionContext{
		FileName:     c.FileName,
		MapName:      c.MapName,
		EventName:    c.EventName,
		EventID:      c.EventID,
		PageIndex:    pageIndex,
		maxPreceding: c.maxPreceding,
	}
}

// AddPrecedingLine records a plain-text line for later units' context,
// evicting the oldest line once the window is full.
func (c *ExtractionContext) AddPrecedingLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if len(c.precedingLines) >= c.maxPreceding {
		c.precedingLines = c.precedingLines[1:]
	}
	c.precedingLines = append(c.precedingLines, line)
}

// PrecedingLines returns a copy of the current window, oldest first.
func (c *ExtractionContext) PrecedingLines() []string {
	out := make([]string, len(c.precedingLines))
	copy(out, c.precedingLines)
	return out
}

// TranslationContext snapshots the walk state into the form attached to units.
func (c *ExtractionContext) TranslationContext() Context {
	return Context{
		FileName:       c.FileName,
		MapName:        c.MapName,
		EventName:      c.EventName,
		PageIndex:      c.PageIndex,
		PrecedingLines: c.PrecedingLines(),
	}
}

// ExtractResult is what one handler reports for one dispatch: the units it
// produced, how many commands it accounted for, and context updates for
// subsequent commands in the same block.
type ExtractResult struct {
	Units    []Unit
	Consumed int
	// SpeakerSet marks a speaker update; Speaker may be empty to clear it.
	Speaker    string
	SpeakerSet bool
	// Preceding is dialogue text to append to the preceding-line window.
	Preceding string
	Warnings  []string
}

// SkipResult reports n commands consumed without producing units.
func SkipResult(n int) ExtractResult {
	if n < 1 {
		n = 1
	}
	return ExtractResult{Consumed: n}
}

// SingleResult reports one unit over n consumed commands.
func SingleResult(unit Unit, n int) ExtractResult {
	return ExtractResult{Units: []Unit{unit}, Consumed: n}
}

// InjectResult is what one handler reports for one injection dispatch.
type InjectResult struct {
	Applied          int
	NotFound         int
	CommandsModified int
	// Produced is how many commands the handler occupies after substitution;
	// the walker advances by this amount. It may differ from the original
	// consumed count when a translation has a different line count.
	Produced int
	Warnings []string
}

// Merge accumulates another result's counters and warnings.
func (r *InjectResult) Merge(other InjectResult) {
	r.Applied += other.Applied
	r.NotFound += other.NotFound
	r.CommandsModified += other.CommandsModified
	r.Warnings = append(r.Warnings, other.Warnings...)
}
