package command

// Command is a single record in an event page's instruction list. It is owned
// by the surrounding document tree; extraction and injection walk lists of
// parsed commands and write mutations back through ToList.
type Command struct {
	Code       Code
	Indent     int
	Parameters []any

	// extra holds record fields beyond code/indent/parameters so that
	// re-serialization preserves them unmodified.
	extra map[string]any
}

// New builds a command with the given code, indent and parameters.
func New(code Code, indent int, parameters []any) Command {
	return Command{Code: code, Indent: indent, Parameters: parameters}
}

// NewDialogue builds a text-body (401) command holding one line.
func NewDialogue(indent int, text string) Command {
	return New(CodeTextBody, indent, []any{text})
}

// StringParam returns the parameter at index as a string.
func (c Command) StringParam(index int) (string, bool) {
	if index >= len(c.Parameters) {
		return "", false
	}
	s, ok := c.Parameters[index].(string)
	return s, ok
}

// IntParam returns the parameter at index as an integer. JSON decoding yields
// float64, so both forms are accepted.
func (c Command) IntParam(index int) (int, bool) {
	if index >= len(c.Parameters) {
		return 0, false
	}
	switch v := c.Parameters[index].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// ArrayParam returns the parameter at index as an array.
func (c Command) ArrayParam(index int) ([]any, bool) {
	if index >= len(c.Parameters) {
		return nil, false
	}
	arr, ok := c.Parameters[index].([]any)
	return arr, ok
}

// ObjectParam returns the parameter at index as an object.
func (c Command) ObjectParam(index int) (map[string]any, bool) {
	if index >= len(c.Parameters) {
		return nil, false
	}
	obj, ok := c.Parameters[index].(map[string]any)
	return obj, ok
}

// SpeakerName extracts the speaker from a ShowText (101) header.
// MV/MZ parameter layout: [face_name, face_index, background, position, speaker].
func (c Command) SpeakerName() (string, bool) {
	if c.Code != CodeShowText {
		return "", false
	}
	speaker, ok := c.StringParam(4)
	if !ok || speaker == "" {
		return "", false
	}
	return speaker, true
}

// DialogueText returns the line held by a text-body (401) command.
func (c Command) DialogueText() (string, bool) {
	if c.Code != CodeTextBody && c.Code != CodeScrollingTextBody {
		return "", false
	}
	return c.StringParam(0)
}

// Choices returns the visible labels of a ShowChoices (102) command.
func (c Command) Choices() ([]string, bool) {
	if c.Code != CodeShowChoices {
		return nil, false
	}
	arr, ok := c.ArrayParam(0)
	if !ok {
		return nil, false
	}
	choices := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			choices = append(choices, s)
		}
	}
	return choices, true
}

// ChoiceText returns the label carried by a choice-branch (402) command.
// Parameter layout: [choice_index, label].
func (c Command) ChoiceText() (string, bool) {
	if c.Code != CodeChoiceBranch {
		return "", false
	}
	return c.StringParam(1)
}

// CommentText returns the line held by a comment-body (408) command.
func (c Command) CommentText() (string, bool) {
	if c.Code != CodeCommentBody {
		return "", false
	}
	return c.StringParam(0)
}

// PluginData describes a plugin-invocation (357) command.
// Parameter layout: [plugin_name, command, display_name, arguments].
type PluginData struct {
	PluginName  string
	Command     string
	DisplayName string
	Arguments   any
}

// PluginData extracts the named plugin and its opaque argument structure.
func (c Command) PluginData() (PluginData, bool) {
	if c.Code != CodePluginCommand || len(c.Parameters) < 4 {
		return PluginData{}, false
	}
	name, ok := c.StringParam(0)
	if !ok {
		return PluginData{}, false
	}
	cmd, _ := c.StringParam(1)
	display, _ := c.StringParam(2)
	return PluginData{
		PluginName:  name,
		Command:     cmd,
		DisplayName: display,
		Arguments:   c.Parameters[3],
	}, true
}

// ScriptSpecialText returns the text after the assignment prefix in a 657
// script continuation, used by plugins that embed display text in scripts.
func (c Command) ScriptSpecialText(prefix string) (string, bool) {
	if c.Code != CodeScriptBodyAlt {
		return "", false
	}
	text, ok := c.StringParam(0)
	if !ok || len(text) < len(prefix) || text[:len(prefix)] != prefix {
		return "", false
	}
	return text[len(prefix):], true
}

// ParseList decodes a page's "list" value into commands. Records that are not
// objects are skipped; missing code/indent default to zero.
func ParseList(list any) []Command {
	arr, ok := list.([]any)
	if !ok {
		return nil
	}

	commands := make([]Command, 0, len(arr))
	for _, v := range arr {
		record, ok := v.(map[string]any)
		if !ok {
			continue
		}

		cmd := Command{}
		var extra map[string]any
		for key, val := range record {
			switch key {
			case "code":
				if n, ok := val.(float64); ok {
					cmd.Code = Code(n)
				}
			case "indent":
				if n, ok := val.(float64); ok {
					cmd.Indent = int(n)
				}
			case "parameters":
				if params, ok := val.([]any); ok {
					cmd.Parameters = params
				}
			default:
				if extra == nil {
					extra = make(map[string]any)
				}
				extra[key] = val
			}
		}
		if cmd.Parameters == nil {
			cmd.Parameters = []any{}
		}
		cmd.extra = extra
		commands = append(commands, cmd)
	}
	return commands
}

// ToList re-serializes commands into the tree representation. Numeric fields
// are emitted as float64 to match JSON decoding, so untouched commands compare
// structurally equal to their source records.
func ToList(commands []Command) []any {
	out := make([]any, len(commands))
	for i, cmd := range commands {
		record := make(map[string]any, 3+len(cmd.extra))
		for key, val := range cmd.extra {
			record[key] = val
		}
		record["code"] = float64(cmd.Code)
		record["indent"] = float64(cmd.Indent)
		record["parameters"] = cmd.Parameters
		out[i] = record
	}
	return out
}
