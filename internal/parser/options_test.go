package parser

import (
	"reflect"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name string
		opts InjectOptions
		text string
		want []string
	}{
		{
			name: "no wrapping keeps translator breaks",
			opts: InjectOptions{},
			text: "one\ntwo",
			want: []string{"one", "two"},
		},
		{
			name: "word aware wrap",
			opts: InjectOptions{MaxLineLength: 10, WordAwareSplit: true, PreserveLineBreaks: true},
			text: "hello brave new world",
			want: []string{"hello", "brave new", "world"},
		},
		{
			name: "character wrap",
			opts: InjectOptions{MaxLineLength: 4},
			text: "abcdefgh",
			want: []string{"abcd", "efgh"},
		},
		{
			name: "cjk counts double width",
			opts: InjectOptions{MaxLineLength: 8},
			text: "こんにちは",
			want: []string{"こんにち", "は"},
		},
		{
			name: "preserve breaks then wrap each line",
			opts: InjectOptions{MaxLineLength: 4, PreserveLineBreaks: true},
			text: "abcdef\ngh",
			want: []string{"abcd", "ef", "gh"},
		},
		{
			name: "collapse breaks before wrapping",
			opts: InjectOptions{MaxLineLength: 20, WordAwareSplit: true, PreserveLineBreaks: false},
			text: "one\ntwo",
			want: []string{"one two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.SplitText(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestShouldSkipComment(t *testing.T) {
	opts := DefaultExtractOptions()
	if !opts.ShouldSkipComment(";directive") {
		t.Error("semicolon directive should be skipped")
	}
	if opts.ShouldSkipComment("plain note") {
		t.Error("plain note should not be skipped")
	}
}

func TestCacheFileMetadata(t *testing.T) {
	f := NewCacheFile("Map001.json")
	translated := "hola"
	f.AddUnits([]Unit{
		{ID: "a", Original: "hi", Speaker: "Alice", Status: StatusPending},
		{ID: "b", Original: "yo", Speaker: "Alice", Translated: &translated, Status: StatusReviewed},
		{ID: "c", Original: "hey", Speaker: "Bob", Status: StatusPending},
	})

	if f.Metadata.TotalUnits != 3 || f.Metadata.Translated != 1 || f.Metadata.Reviewed != 1 {
		t.Errorf("metadata = %+v", f.Metadata)
	}
	if !reflect.DeepEqual(f.Metadata.Speakers, []string{"Alice", "Bob"}) {
		t.Errorf("speakers = %v", f.Metadata.Speakers)
	}

	m := f.TranslationMap()
	if len(m) != 1 || m["b"] != "hola" {
		t.Errorf("TranslationMap() = %v", m)
	}
}
