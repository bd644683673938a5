package parser

import (
	"testing"

	"rpgtrans/internal/command"
)

func showChoices(labels ...string) command.Command {
	arr := make([]any, len(labels))
	for i, l := range labels {
		arr[i] = l
	}
	return command.New(command.CodeShowChoices, 0, []any{arr, float64(1)})
}

func TestExtractChoices(t *testing.T) {
	cs := []command.Command{
		showText("Alice"),
		textLine("Pick one"),
		showChoices("Yes", "No"),
	}

	ctx := NewExtractionContext("Map001.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 3 {
		t.Fatalf("units = %d, want 3", len(units))
	}

	yes, no := units[1], units[2]
	if yes.ID != "events.1.pages.0.list.2_choice_0" {
		t.Errorf("yes.ID = %q", yes.ID)
	}
	if no.ID != "events.1.pages.0.list.2_choice_1" {
		t.Errorf("no.ID = %q", no.ID)
	}
	if yes.Path.String() != "events.1.pages.0.list.2.parameters.0.0" {
		t.Errorf("yes.Path = %q", yes.Path)
	}
	if yes.Original != "Yes" || no.Original != "No" {
		t.Errorf("originals = %q, %q", yes.Original, no.Original)
	}
	// Choices are presented inside the current message window.
	if yes.Speaker != "Alice" {
		t.Errorf("yes.Speaker = %q", yes.Speaker)
	}
}

func TestInjectChoices(t *testing.T) {
	cs := []command.Command{showChoices("Yes", "No")}

	translations := map[string]string{
		"events.1.pages.0.list.0_choice_0": "예",
	}

	out, res := testWalker().InjectList(cs, translations, listPrefix(t), DefaultInjectOptions())
	if res.Applied != 1 || res.NotFound != 1 {
		t.Fatalf("res = %+v", res)
	}

	labels, ok := out[0].Choices()
	if !ok {
		t.Fatal("Choices() failed after inject")
	}
	if labels[0] != "예" || labels[1] != "No" {
		t.Errorf("labels = %v", labels)
	}
}

func TestChoiceBranchExtractAndInject(t *testing.T) {
	cs := []command.Command{
		command.New(command.CodeChoiceBranch, 0, []any{float64(0), "Yes"}),
	}

	ctx := NewExtractionContext("Map001.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}
	if units[0].ID != "events.1.pages.0.list.0_choice_branch" {
		t.Errorf("ID = %q", units[0].ID)
	}
	if units[0].Path.String() != "events.1.pages.0.list.0.parameters.1" {
		t.Errorf("Path = %q", units[0].Path)
	}

	out, res := testWalker().InjectList(cs, map[string]string{units[0].ID: "예"}, listPrefix(t), DefaultInjectOptions())
	if res.Applied != 1 {
		t.Fatalf("res = %+v", res)
	}
	if got, _ := out[0].ChoiceText(); got != "예" {
		t.Errorf("branch label = %q", got)
	}
}

func TestExtractSkipsBlankChoiceLabels(t *testing.T) {
	cs := []command.Command{showChoices("Yes", "")}

	ctx := NewExtractionContext("Map001.json", 5)
	units, _, err := testWalker().ExtractList(cs, listPrefix(t), ctx, DefaultExtractOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}
	if units[0].ID != "events.1.pages.0.list.0_choice_0" {
		t.Errorf("ID = %q", units[0].ID)
	}
}
