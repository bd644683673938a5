package parser

import (
	"reflect"
	"testing"

	"rpgtrans/internal/command"
)

func comment(text string) command.Command {
	return command.New(command.CodeComment, 0, []any{text})
}

func commentBody(text string) command.Command {
	return command.New(command.CodeCommentBody, 0, []any{text})
}

func TestExtractCommentRun(t *testing.T) {
	cs := []command.Command{
		comment("A note for players"),
		commentBody("with a second line"),
		endCmd(),
	}

	ctx := NewExtractionContext("CommonEvents.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}

	u := units[0]
	if u.ID != "events.1.pages.0.list.0_comment" {
		t.Errorf("ID = %q", u.ID)
	}
	if u.Original != "A note for players\nwith a second line" {
		t.Errorf("Original = %q", u.Original)
	}
	if !reflect.DeepEqual(u.Context.Tags, []string{"comment"}) {
		t.Errorf("Tags = %v", u.Context.Tags)
	}
}

func TestExtractSkipsDirectiveComments(t *testing.T) {
	cs := []command.Command{
		comment(";enemy_hp 300"),
		commentBody("continuation of the directive"),
		comment("A real note"),
	}

	ctx := NewExtractionContext("CommonEvents.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}
	if units[0].Original != "A real note" {
		t.Errorf("Original = %q", units[0].Original)
	}
}

func TestExtractCommentsDisabled(t *testing.T) {
	cs := []command.Command{comment("A note")}

	opts := DefaultExtractOptions()
	opts.ExtractComments = false

	ctx := NewExtractionContext("CommonEvents.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 0 {
		t.Errorf("units = %v, want none", units)
	}
}

func TestInjectCommentRun(t *testing.T) {
	cs := []command.Command{
		comment("A note"),
		commentBody("second line"),
		endCmd(),
	}

	translations := map[string]string{
		"events.1.pages.0.list.0_comment": "메모\n둘째 줄\n셋째 줄",
	}

	out, res := testWalker().InjectList(cs, translations, listPrefix(t), DefaultInjectOptions())
	if res.Applied != 1 {
		t.Fatalf("res = %+v", res)
	}
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	if out[0].Code != command.CodeComment || out[1].Code != command.CodeCommentBody || out[2].Code != command.CodeCommentBody {
		t.Errorf("codes = %v %v %v", out[0].Code, out[1].Code, out[2].Code)
	}
	if got, _ := out[0].StringParam(0); got != "메모" {
		t.Errorf("first line = %q", got)
	}
	if out[3].Code != command.CodeEnd {
		t.Errorf("trailing command = %v", out[3].Code)
	}
}

func TestOrphanCommentBodyPassesThrough(t *testing.T) {
	cs := []command.Command{commentBody("stray line")}

	ctx := NewExtractionContext("CommonEvents.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 0 {
		t.Errorf("units = %v, want none", units)
	}
}
