package pretty

import (
	"errors"
	"fmt"
	"strings"
)

// 该文件定义与宽度无关的文档代数：文本、换行、拼接、缩进、悬挂对齐与二选一。

// Kind 区分 Doc 的变体。
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindSeq
	KindNewline
	KindIndent
	KindHang
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindText:
		return "Text"
	case KindSeq:
		return "Seq"
	case KindNewline:
		return "Newline"
	case KindIndent:
		return "Indent"
	case KindHang:
		return "Hang"
	case KindChoice:
		return "Choice"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Doc 是不可变的递归文档值，零值即 Empty。
// Seq/Choice 使用 left/right；Indent/Hang 的子文档存放在 left。
type Doc struct {
	kind  Kind
	text  string
	left  *Doc
	right *Doc
}

// ErrMalformedText 表示文本中含有换行符。
var ErrMalformedText = errors.New("malformed text")

// MalformedTextError 记录违反“文本不含换行”约束的内容。
type MalformedTextError struct {
	Text string
}

func (e *MalformedTextError) Error() string {
	return fmt.Sprintf("malformed text %q: line break inside Text, use Newline instead", e.Text)
}

func (e *MalformedTextError) Unwrap() error { return ErrMalformedText }

// Empty 渲染为空。
func Empty() Doc { return Doc{} }

// Newline 强制换行，并按当前缩进补空格。
func Newline() Doc { return Doc{kind: KindNewline} }

// Text 构造字面文本；s 含有换行符时直接 panic（*MalformedTextError）。
func Text(s string) Doc {
	d, err := TryText(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TryText 与 Text 相同，但以错误返回代替 panic，适合处理外部输入。
func TryText(s string) (Doc, error) {
	if strings.ContainsAny(s, "\n\r") {
		return Doc{}, &MalformedTextError{Text: s}
	}
	return Doc{kind: KindText, text: s}, nil
}

// Textf 按格式化结果构造文本。
func Textf(format string, args ...any) Doc {
	return Text(fmt.Sprintf(format, args...))
}

// Concat 将 a 与 b 顺序拼接。
func Concat(a, b Doc) Doc {
	return Doc{kind: KindSeq, left: &a, right: &b}
}

// Concats 依次拼接所有文档，没有输入时返回 Empty。
func Concats(docs ...Doc) Doc {
	if len(docs) == 0 {
		return Empty()
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out = Concat(out, d)
	}
	return out
}

// Indent 使 d 内部的换行多缩进一个 tab 宽度。
func Indent(d Doc) Doc {
	return Doc{kind: KindIndent, left: &d}
}

// Hang 使 d 内部的换行对齐到进入 Hang 时的光标列。
func Hang(d Doc) Doc {
	return Doc{kind: KindHang, left: &d}
}

// Choice 提供两种排版：优先尝试 preferred，首行放不下时退回 fallback。
func Choice(preferred, fallback Doc) Doc {
	return Doc{kind: KindChoice, left: &preferred, right: &fallback}
}

// Kind 返回文档的变体。
func (d Doc) Kind() Kind { return d.kind }

// String 返回文档树的结构化表示，用于调试；不是渲染结果。
func (d Doc) String() string {
	var b strings.Builder
	d.writeDebug(&b)
	return b.String()
}

func (d Doc) writeDebug(b *strings.Builder) {
	switch d.kind {
	case KindText:
		fmt.Fprintf(b, "Text(%q)", d.text)
	case KindSeq, KindChoice:
		b.WriteString(d.kind.String())
		b.WriteByte('(')
		d.left.writeDebug(b)
		b.WriteString(", ")
		d.right.writeDebug(b)
		b.WriteByte(')')
	case KindIndent, KindHang:
		b.WriteString(d.kind.String())
		b.WriteByte('(')
		d.left.writeDebug(b)
		b.WriteByte(')')
	default:
		b.WriteString(d.kind.String())
	}
}
