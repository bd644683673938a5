package parser

import (
	"strings"

	"rpgtrans/internal/command"
	"rpgtrans/internal/transpath"
)

// CommentHandler handles Comment (108) headers and their continuation lines
// (408). Comments often hold developer notes that ship as visible text
// through message plugins, so they are extracted by default; lines starting
// with a directive prefix are left alone.
type CommentHandler struct{}

func (CommentHandler) Codes() []command.Code {
	return []command.Code{command.CodeComment, command.CodeCommentBody}
}

// commentRun measures the 108 header and its trailing 408 continuations and
// collects their text. A run always starts at a 108; a 408 dispatched
// directly is an orphan continuation.
func commentRun(cs []command.Command, index int) (lines []string, n int) {
	indent := cs[index].Indent
	text, ok := cs[index].StringParam(0)
	if !ok {
		return nil, 1
	}
	lines = append(lines, text)
	n = 1
	for index+n < len(cs) {
		cur := cs[index+n]
		if cur.Code != command.CodeCommentBody || cur.Indent != indent {
			break
		}
		text, ok := cur.CommentText()
		if !ok {
			break
		}
		lines = append(lines, text)
		n++
	}
	return lines, n
}

func (CommentHandler) Extract(cs []command.Command, index int, prefix transpath.Path, ctx *ExtractionContext, opts ExtractOptions) ExtractResult {
	if cs[index].Code == command.CodeCommentBody {
		return SkipResult(1)
	}

	lines, n := commentRun(cs, index)
	if lines == nil {
		return SkipResult(n)
	}
	if !opts.ExtractComments || opts.ShouldSkipComment(lines[0]) {
		return SkipResult(n)
	}

	merged := strings.Join(lines, opts.LineSeparator)
	if opts.TrimWhitespace {
		merged = strings.TrimSpace(merged)
	}
	if strings.TrimSpace(merged) == "" && !opts.IncludeEmpty {
		return SkipResult(n)
	}

	tctx := ctx.TranslationContext()
	tctx.Tags = append(tctx.Tags, "comment")

	unit := Unit{
		ID:       unitID(prefix, index, "comment"),
		Path:     prefix.AppendIndex(index),
		Code:     command.CodeComment,
		Original: merged,
		Context:  tctx,
		Status:   StatusPending,
	}
	return SingleResult(unit, n)
}

func (CommentHandler) Inject(cs []command.Command, index int, translations map[string]string, prefix transpath.Path, opts InjectOptions) ([]command.Command, InjectResult) {
	if cs[index].Code == command.CodeCommentBody {
		return cs, InjectResult{Produced: 1}
	}

	lines, n := commentRun(cs, index)
	if lines == nil || strings.TrimSpace(strings.Join(lines, "")) == "" {
		return cs, InjectResult{Produced: n}
	}

	translated, ok := translations[unitID(prefix, index, "comment")]
	if !ok {
		return cs, InjectResult{NotFound: 1, Produced: n}
	}

	indent := cs[index].Indent
	newLines := opts.SplitText(translated)
	replacement := make([]command.Command, len(newLines))
	for i, line := range newLines {
		code := command.CodeCommentBody
		if i == 0 {
			code = command.CodeComment
		}
		replacement[i] = command.New(code, indent, []any{line})
	}

	out := make([]command.Command, 0, len(cs)-n+len(replacement))
	out = append(out, cs[:index]...)
	out = append(out, replacement...)
	out = append(out, cs[index+n:]...)

	return out, InjectResult{
		Applied:          1,
		CommandsModified: n,
		Produced:         len(replacement),
	}
}
