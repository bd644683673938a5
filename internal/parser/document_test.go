package parser

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"rpgtrans/internal/pluginconf"
)

const mapJSON = `{
	"displayName": "始まりの町",
	"width": 17,
	"events": [
		null,
		{
			"id": 1,
			"name": "EV001",
			"pages": [
				{
					"list": [
						{"code": 101, "indent": 0, "parameters": ["Actor1", 0, 0, 2, "アリス"]},
						{"code": 401, "indent": 0, "parameters": ["こんにちは。"]},
						{"code": 401, "indent": 0, "parameters": ["ようこそ。"]},
						{"code": 0, "indent": 0, "parameters": []}
					]
				}
			]
		}
	]
}`

const commonEventsJSON = `[
	null,
	{
		"id": 1,
		"name": "Opening",
		"list": [
			{"code": 101, "indent": 0, "parameters": ["", 0, 0, 2, ""]},
			{"code": 401, "indent": 0, "parameters": ["It begins."]},
			{"code": 0, "indent": 0, "parameters": []}
		]
	}
]`

func decode(t *testing.T, data string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func testRegistry() *Registry {
	return DefaultRegistry(pluginconf.NewStore())
}

func TestParserFor(t *testing.T) {
	tests := []struct {
		file   string
		wantOK bool
	}{
		{"CommonEvents.json", true},
		{"Map001.json", true},
		{"Map123.json", true},
		{"MapInfos.json", false},
		{"Actors.json", false},
		{"Map001.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, ok := ParserFor(tt.file, testRegistry())
			if ok != tt.wantOK {
				t.Errorf("ParserFor(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
		})
	}
}

func TestMapExtract(t *testing.T) {
	doc := decode(t, mapJSON)
	p := NewMapParser(testRegistry())

	out, err := p.Extract(doc, "Map001.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(out.Units))
	}

	display := out.Units[0]
	if display.ID != "displayName" || display.Original != "始まりの町" {
		t.Errorf("display unit = %+v", display)
	}

	dialogue := out.Units[1]
	if dialogue.ID != "events.1.pages.0.list.1_dialogue" {
		t.Errorf("dialogue.ID = %q", dialogue.ID)
	}
	if dialogue.Original != "こんにちは。\nようこそ。" {
		t.Errorf("dialogue.Original = %q", dialogue.Original)
	}
	if dialogue.Speaker != "アリス" {
		t.Errorf("dialogue.Speaker = %q", dialogue.Speaker)
	}
	if dialogue.Context.MapName != "始まりの町" || dialogue.Context.EventName != "EV001" {
		t.Errorf("context = %+v", dialogue.Context)
	}
	if !reflect.DeepEqual(out.Speakers, []string{"アリス"}) {
		t.Errorf("speakers = %v", out.Speakers)
	}
}

func TestMapExtractIsDeterministic(t *testing.T) {
	p := NewMapParser(testRegistry())

	first, err := p.Extract(decode(t, mapJSON), "Map001.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Extract(decode(t, mapJSON), "Map001.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Units, second.Units) {
		t.Error("re-extracting an unmodified document changed the units")
	}
}

func TestMapInjectEmptyMappingIsNoOp(t *testing.T) {
	doc := decode(t, mapJSON)
	pristine := decode(t, mapJSON)
	p := NewMapParser(testRegistry())

	out, err := p.Inject(doc, map[string]string{}, DefaultInjectOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Modified {
		t.Error("Modified = true with empty mapping")
	}
	// Every computed id misses the mapping: displayName plus one dialogue.
	if out.NotFound != 2 {
		t.Errorf("NotFound = %d, want 2", out.NotFound)
	}
	if !reflect.DeepEqual(doc, pristine) {
		t.Error("document tree changed with empty mapping")
	}
}

func TestMapInjectAppliesTranslations(t *testing.T) {
	doc := decode(t, mapJSON)
	p := NewMapParser(testRegistry())

	translations := map[string]string{
		"displayName":                      "Starting Town",
		"events.1.pages.0.list.1_dialogue": "Hello.\nWelcome.",
	}

	out, err := p.Inject(doc, translations, DefaultInjectOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Modified || out.Applied != 2 || out.NotFound != 0 {
		t.Fatalf("out = %+v", out)
	}

	root := doc.(map[string]any)
	if root["displayName"] != "Starting Town" {
		t.Errorf("displayName = %v", root["displayName"])
	}
	if root["width"] != float64(17) {
		t.Errorf("unrelated field touched: %v", root["width"])
	}

	// Re-extracting the injected tree finds the translated text in place.
	re, err := p.Extract(doc, "Map001.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if re.Units[1].Original != "Hello.\nWelcome." {
		t.Errorf("re-extracted dialogue = %q", re.Units[1].Original)
	}
	if re.Units[1].ID != "events.1.pages.0.list.1_dialogue" {
		t.Errorf("re-extracted id = %q (ids must be stable across same-length splices)", re.Units[1].ID)
	}
}

func TestMapExtractRejectsWrongShape(t *testing.T) {
	p := NewMapParser(testRegistry())
	if _, err := p.Extract(decode(t, `[1,2,3]`), "Map001.json", DefaultExtractOptions()); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("err = %v, want ErrInvalidStructure", err)
	}
	if _, err := p.Extract(decode(t, `{"displayName":"x"}`), "Map001.json", DefaultExtractOptions()); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("err = %v, want ErrInvalidStructure", err)
	}
}

func TestCommonEventsExtract(t *testing.T) {
	doc := decode(t, commonEventsJSON)
	p := NewCommonEventsParser(testRegistry())

	out, err := p.Extract(doc, "CommonEvents.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(out.Units))
	}

	u := out.Units[0]
	if u.ID != "1.list.1_dialogue" {
		t.Errorf("ID = %q", u.ID)
	}
	if u.Original != "It begins." {
		t.Errorf("Original = %q", u.Original)
	}
	if u.Context.EventName != "Opening" {
		t.Errorf("EventName = %q", u.Context.EventName)
	}
}

func TestCommonEventsInjectRoundTrip(t *testing.T) {
	doc := decode(t, commonEventsJSON)
	p := NewCommonEventsParser(testRegistry())

	out, err := p.Inject(doc, map[string]string{"1.list.1_dialogue": "시작이다."}, DefaultInjectOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Modified || out.Applied != 1 {
		t.Fatalf("out = %+v", out)
	}

	re, err := p.Extract(doc, "CommonEvents.json", DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if re.Units[0].Original != "시작이다." {
		t.Errorf("re-extracted = %q", re.Units[0].Original)
	}
}

func TestCommonEventsRejectsWrongShape(t *testing.T) {
	p := NewCommonEventsParser(testRegistry())
	if _, err := p.Extract(decode(t, `{"a":1}`), "CommonEvents.json", DefaultExtractOptions()); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("err = %v, want ErrInvalidStructure", err)
	}
}

func TestStrictCodesRejectsUnknown(t *testing.T) {
	doc := decode(t, `[null,{"id":1,"name":"x","list":[{"code":9999,"indent":0,"parameters":[]}]}]`)
	p := NewCommonEventsParser(testRegistry())

	opts := DefaultExtractOptions()
	opts.StrictCodes = true

	if _, err := p.Extract(doc, "CommonEvents.json", opts); !errors.Is(err, ErrUnsupportedCode) {
		t.Errorf("err = %v, want ErrUnsupportedCode", err)
	}
}
