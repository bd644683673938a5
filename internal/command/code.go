package command

import "strconv"

// Code is an RPG Maker MV/MZ event command code. Codes outside the known set
// are valid and classify as passthrough; they carry their raw integer value.
type Code int

// Known command codes.
const (
	CodeEnd               Code = 0
	CodeShowText          Code = 101
	CodeShowChoices       Code = 102
	CodeInputNumber       Code = 103
	CodeSelectItem        Code = 104
	CodeShowScrollingText Code = 105
	CodeComment           Code = 108
	CodeChangeNickname    Code = 324
	CodeChangeProfile     Code = 325
	CodeScript            Code = 355
	CodePluginCommand     Code = 357
	CodeTextBody          Code = 401
	CodeChoiceBranch      Code = 402
	CodeChoiceCancel      Code = 403
	CodeChoicesEnd        Code = 404
	CodeScrollingTextBody Code = 405
	CodeCommentBody       Code = 408
	CodeScriptBody        Code = 655
	CodeScriptBodyAlt     Code = 657
)

var codeNames = map[Code]string{
	CodeEnd:               "End",
	CodeShowText:          "ShowText",
	CodeShowChoices:       "ShowChoices",
	CodeInputNumber:       "InputNumber",
	CodeSelectItem:        "SelectItem",
	CodeShowScrollingText: "ShowScrollingText",
	CodeComment:           "Comment",
	CodeChangeNickname:    "ChangeNickname",
	CodeChangeProfile:     "ChangeProfile",
	CodeScript:            "Script",
	CodePluginCommand:     "PluginCommand",
	CodeTextBody:          "TextBody",
	CodeChoiceBranch:      "ChoiceBranch",
	CodeChoiceCancel:      "ChoiceCancel",
	CodeChoicesEnd:        "ChoicesEnd",
	CodeScrollingTextBody: "ScrollingTextBody",
	CodeCommentBody:       "CommentBody",
	CodeScriptBody:        "ScriptBody",
	CodeScriptBodyAlt:     "ScriptBodyAlt",
}

// Known reports whether the code is in the classification table. Unknown
// codes are skipped by extraction and never touched by injection.
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// Name returns a readable name, or "Unknown" for unclassified codes.
func (c Code) Name() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// IsContinuation reports whether the code continues the previous command's
// text block (one more line of the same logical text).
func (c Code) IsContinuation() bool {
	switch c {
	case CodeTextBody, CodeScrollingTextBody, CodeCommentBody, CodeScriptBody, CodeScriptBodyAlt:
		return true
	}
	return false
}

// IsTranslatable reports whether the code can carry user-visible text.
func (c Code) IsTranslatable() bool {
	switch c {
	case CodeShowText, CodeTextBody, CodeScrollingTextBody, CodeCommentBody,
		CodeShowChoices, CodeChoiceBranch, CodePluginCommand, CodeScriptBodyAlt,
		CodeChangeNickname, CodeChangeProfile:
		return true
	}
	return false
}

func (c Code) String() string {
	return c.Name() + "(" + strconv.Itoa(int(c)) + ")"
}
