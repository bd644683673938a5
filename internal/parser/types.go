package parser

import (
	"time"

	"rpgtrans/internal/command"
	"rpgtrans/internal/transpath"
)

// Status tracks a unit through the review workflow. The core only ever
// produces StatusPending; later states are written by the review store.
type Status string

const (
	StatusPending       Status = "pending"
	StatusTranslated    Status = "translated"
	StatusReviewed      Status = "reviewed"
	StatusNeedsRevision Status = "needs_revision"
	StatusSkipped       Status = "skipped"
)

// Context carries the surrounding-scene information attached to a unit so a
// translator sees who is speaking and what was said just before.
type Context struct {
	FileName       string   `json:"file_name,omitempty"`
	MapName        string   `json:"map_name,omitempty"`
	EventName      string   `json:"event_name,omitempty"`
	PageIndex      int      `json:"page_index"`
	PrecedingLines []string `json:"preceding_lines,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// Unit is the atomic addressable piece of translatable text. Units are
// immutable value objects created only by extraction; the id is a pure
// function of the path of the first command in the unit's range, so
// re-extracting an unmodified document yields identical ids.
type Unit struct {
	ID         string         `json:"id"`
	Path       transpath.Path `json:"path"`
	Code       command.Code   `json:"code"`
	Original   string         `json:"original"`
	Translated *string        `json:"translated"`
	Speaker    string         `json:"speaker,omitempty"`
	Context    Context        `json:"context"`
	Status     Status         `json:"status"`
}

// IsTranslated reports whether a translation has been recorded.
func (u Unit) IsTranslated() bool { return u.Translated != nil }

// EffectiveText returns the translation when present, the original otherwise.
func (u Unit) EffectiveText() string {
	if u.Translated != nil {
		return *u.Translated
	}
	return u.Original
}

// Metadata summarizes a cache file for quick progress display.
type Metadata struct {
	TotalUnits int      `json:"total_units"`
	Translated int      `json:"translated"`
	Reviewed   int      `json:"reviewed"`
	Speakers   []string `json:"speakers"`
}

// CacheFile is the JSON translation cache document produced by extraction and
// consumed before injection. One cache file corresponds to one source file.
type CacheFile struct {
	Version     string   `json:"version"`
	SourceFile  string   `json:"source_file"`
	ExtractedAt string   `json:"extracted_at"`
	Units       []Unit   `json:"units"`
	Metadata    Metadata `json:"metadata"`
}

// NewCacheFile creates an empty cache document for a source file.
func NewCacheFile(sourceFile string) *CacheFile {
	return &CacheFile{
		Version:     "1.0",
		SourceFile:  sourceFile,
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
		Units:       []Unit{},
	}
}

// AddUnits appends units and refreshes the metadata counters.
func (f *CacheFile) AddUnits(units []Unit) {
	f.Units = append(f.Units, units...)
	f.refreshMetadata()
}

func (f *CacheFile) refreshMetadata() {
	f.Metadata.TotalUnits = len(f.Units)
	f.Metadata.Translated = 0
	f.Metadata.Reviewed = 0

	seen := make(map[string]struct{})
	speakers := f.Metadata.Speakers[:0]
	for _, u := range f.Units {
		if u.IsTranslated() {
			f.Metadata.Translated++
		}
		if u.Status == StatusReviewed {
			f.Metadata.Reviewed++
		}
		if u.Speaker != "" {
			if _, ok := seen[u.Speaker]; !ok {
				seen[u.Speaker] = struct{}{}
				speakers = append(speakers, u.Speaker)
			}
		}
	}
	f.Metadata.Speakers = speakers
}

// TranslationMap collects the translated units as an id-to-text mapping in
// the shape the injector consumes. Untranslated units are absent.
func (f *CacheFile) TranslationMap() map[string]string {
	m := make(map[string]string)
	for _, u := range f.Units {
		if u.Translated != nil {
			m[u.ID] = *u.Translated
		}
	}
	return m
}
