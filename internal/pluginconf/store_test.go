package pluginconf

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLookupPredefined(t *testing.T) {
	s := NewStore()

	cfg, ok := s.Lookup("TorigoyaMZ_NotifyMessage")
	if !ok {
		t.Fatal("predefined plugin missing")
	}
	if !cfg.Enabled || len(cfg.Fields) != 1 || cfg.Fields[0].Pattern != "message" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, ok := s.Lookup("NoSuchPlugin"); ok {
		t.Error("unknown plugin should not resolve")
	}
}

func TestUserConfigOverridesPredefined(t *testing.T) {
	s := NewStore()
	s.SetUser(NewPluginConfig("TorigoyaMZ_NotifyMessage").
		WithField("message", "").
		WithField("title", ""))

	cfg, ok := s.Lookup("TorigoyaMZ_NotifyMessage")
	if !ok || len(cfg.Fields) != 2 {
		t.Errorf("cfg = %+v, ok = %v", cfg, ok)
	}
}

func TestLoadUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugins.json")
	data := `[
		{
			"plugin_name": "QuestSystem",
			"enabled": true,
			"extraction_paths": [
				{"pattern": "QuestDatas.|ARY|.Title", "translatable": true}
			]
		}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	if err := s.LoadUserFile(path); err != nil {
		t.Fatal(err)
	}

	cfg, ok := s.Lookup("QuestSystem")
	if !ok || !cfg.Enabled {
		t.Fatalf("cfg = %+v, ok = %v", cfg, ok)
	}
	if cfg.Fields[0].Pattern != "QuestDatas.|ARY|.Title" || !cfg.Fields[0].Translatable {
		t.Errorf("field = %+v", cfg.Fields[0])
	}
}

func TestLoadUserFileRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugins.json")
	if err := os.WriteFile(path, []byte(`[{"plugin_name": "", "enabled": true}]`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewStore().LoadUserFile(path); err == nil {
		t.Error("expected error for empty plugin_name")
	}
}

func TestStringFieldsDeterministicOrder(t *testing.T) {
	args := map[string]any{
		"zeta":  "last",
		"alpha": "first",
		"nested": map[string]any{
			"list": []any{"one", "two"},
		},
		"count": float64(3),
	}

	want := []StringField{
		{Path: "alpha", Value: "first"},
		{Path: "nested.list.0", Value: "one"},
		{Path: "nested.list.1", Value: "two"},
		{Path: "zeta", Value: "last"},
	}

	for i := 0; i < 5; i++ {
		if got := StringFields(args); !reflect.DeepEqual(got, want) {
			t.Fatalf("StringFields() = %v, want %v", got, want)
		}
	}
}

func TestInspect(t *testing.T) {
	args := map[string]any{
		"message": "hello",
		"count":   float64(2),
		"options": map[string]any{"bold": true},
	}

	nodes := Inspect(args)
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(nodes))
	}

	// Sorted keys: count, message, options.
	if nodes[0].Name != "count" || nodes[0].Type != "number" {
		t.Errorf("nodes[0] = %+v", nodes[0])
	}
	if nodes[1].Name != "message" || nodes[1].Value != "hello" {
		t.Errorf("nodes[1] = %+v", nodes[1])
	}
	if nodes[2].Type != "object" || len(nodes[2].Children) != 1 {
		t.Errorf("nodes[2] = %+v", nodes[2])
	}
	if nodes[2].Children[0].Path != "options.bold" || nodes[2].Children[0].Type != "boolean" {
		t.Errorf("child = %+v", nodes[2].Children[0])
	}
}
