package pretty

import (
	"strings"
	"unicode/utf8"
)

// pending 是待处理工作项组成的持久化栈：快照只需保存指针，回滚即从该指针继续。
type pending struct {
	indent int
	doc    *Doc
	next   *pending
}

func (p *pending) push(indent int, d *Doc) *pending {
	return &pending{indent: indent, doc: d, next: p}
}

// renderState 只在一次 Render 调用内存在。
type renderState struct {
	width    int
	tabWidth int
	column   int
	stack    *pending
}

// Render 以默认 tab 宽度将文档排版为字符串。
func Render(d Doc, width int) string {
	return RenderWithOptions(d, width, RenderOptions{})
}

// RenderWithOptions 将文档按 width 排版为字符串，负宽度按 0 处理。
func RenderWithOptions(d Doc, width int, opts RenderOptions) string {
	if width < 0 {
		width = 0
	}
	s := renderState{
		width:    width,
		tabWidth: opts.tabWidth(),
	}
	s.stack = s.stack.push(0, &d)

	var out strings.Builder
	s.run(&out)
	return out.String()
}

// run 处理栈直到清空，输出追加到 out。
func (s *renderState) run(out *strings.Builder) {
	for s.stack != nil {
		top := s.stack
		s.stack = top.next
		node := top.doc

		switch node.kind {
		case KindEmpty:
		case KindText:
			out.WriteString(node.text)
			s.column += utf8.RuneCountInString(node.text)
		case KindSeq:
			s.stack = s.stack.push(top.indent, node.right).push(top.indent, node.left)
		case KindNewline:
			out.WriteByte('\n')
			out.WriteString(strings.Repeat(" ", top.indent))
			s.column = top.indent
		case KindIndent:
			s.stack = s.stack.push(top.indent+s.tabWidth, node.left)
		case KindHang:
			s.stack = s.stack.push(s.column, node.left)
		case KindChoice:
			// 栈中已包含 Choice 之后的全部后续内容，因此候选首行也计入了同一行上的尾随文本。
			snapshot := *s
			attempt := snapshot
			attempt.stack = attempt.stack.push(top.indent, node.left)

			var candidate strings.Builder
			attempt.run(&candidate)
			if fits(candidate.String(), s.width-snapshot.column) {
				out.WriteString(candidate.String())
				*s = attempt
				return
			}
			*s = snapshot
			s.stack = s.stack.push(top.indent, node.right)
		}
	}
}

// fits 判断候选输出首行（第一个换行符之前）的长度是否不超过 remaining。
func fits(candidate string, remaining int) bool {
	first := candidate
	if i := strings.IndexByte(candidate, '\n'); i >= 0 {
		first = candidate[:i]
	}
	return utf8.RuneCountInString(first) <= remaining
}
