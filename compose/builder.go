package compose

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/papyrus-doc/binding"
	"github.com/ByLCY/papyrus-doc/dsl"
	"github.com/ByLCY/papyrus-doc/pretty"
)

// Build 根据 DSL AST 与绑定数据求值出文档。
func Build(prog *dsl.Program, data any) (pretty.Doc, error) {
	if prog == nil || prog.Expr == nil {
		return pretty.Doc{}, fmt.Errorf("文档表达式为空")
	}
	b := &builder{data: data}
	return b.expr(prog.Expr)
}

// BuildString 解析并求值一段 DSL 源码。
func BuildString(src string, data any) (pretty.Doc, error) {
	prog, err := dsl.ParseString(src)
	if err != nil {
		return pretty.Doc{}, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return Build(prog, data)
}

type builder struct {
	data any
}

func (b *builder) expr(e *dsl.Expr) (pretty.Doc, error) {
	docs := make([]pretty.Doc, 0, len(e.Terms))
	for _, t := range e.Terms {
		d, err := b.term(t)
		if err != nil {
			return pretty.Doc{}, err
		}
		docs = append(docs, d)
	}
	return pretty.Concats(docs...), nil
}

func (b *builder) term(t *dsl.Term) (pretty.Doc, error) {
	switch {
	case t.String != nil:
		return b.text(string(*t.String), t.Pos)
	case t.Call != nil:
		return b.call(t.Call)
	case t.Paren != nil:
		return b.expr(t.Paren)
	default:
		return pretty.Doc{}, fmt.Errorf("%s: 无法识别的表达式", t.Pos)
	}
}

// text 先做数据插值再构造文本，插值结果含换行时返回错误而不是 panic。
func (b *builder) text(s string, pos lexer.Position) (pretty.Doc, error) {
	d, err := pretty.TryText(binding.Interpolate(s, b.data))
	if err != nil {
		return pretty.Doc{}, fmt.Errorf("%s: %w", pos, err)
	}
	return d, nil
}

func (b *builder) call(c *dsl.Call) (pretty.Doc, error) {
	if !c.HasArgs() {
		switch c.Name {
		case "nl", "newline":
			return pretty.Newline(), nil
		case "empty":
			return pretty.Empty(), nil
		case "space":
			return pretty.Text(" "), nil
		default:
			return pretty.Doc{}, fmt.Errorf("%s: 未知标识符 %s", c.Pos, c.Name)
		}
	}

	args, err := b.args(c)
	if err != nil {
		return pretty.Doc{}, err
	}

	switch c.Name {
	case "indent", "hang", "group", "flatten":
		if len(args) != 1 {
			return pretty.Doc{}, arityError(c, "1", len(args))
		}
		return unary(c.Name, args[0]), nil
	case "choice":
		if len(args) != 2 {
			return pretty.Doc{}, arityError(c, "2", len(args))
		}
		return pretty.Choice(args[0], args[1]), nil
	case "join":
		if len(args) < 1 {
			return pretty.Doc{}, arityError(c, "至少 1", len(args))
		}
		return pretty.Join(args[1:], args[0]), nil
	case "params":
		return pretty.ParameterList(args), nil
	case "concat":
		return pretty.Concats(args...), nil
	case "text":
		if len(args) != 1 {
			return pretty.Doc{}, arityError(c, "1", len(args))
		}
		return b.literal(pretty.Render(pretty.Flatten(args[0]), 0), c.Pos)
	default:
		return pretty.Doc{}, fmt.Errorf("%s: 未知函数 %s", c.Pos, c.Name)
	}
}

func unary(name string, d pretty.Doc) pretty.Doc {
	switch name {
	case "indent":
		return pretty.Indent(d)
	case "hang":
		return pretty.Hang(d)
	case "group":
		return pretty.Group(d)
	default:
		return pretty.Flatten(d)
	}
}

// args 求值参数列表，...path 会展开为绑定数组中的每一项文本。
func (b *builder) args(c *dsl.Call) ([]pretty.Doc, error) {
	var out []pretty.Doc
	for _, arg := range c.Arguments() {
		if arg.Spread != nil {
			items, err := binding.Strings(b.data, dataPath(arg.Spread))
			if err != nil {
				return nil, fmt.Errorf("%s: 展开 %s 失败: %w", arg.Pos, arg.Spread, err)
			}
			for _, item := range items {
				d, err := b.literal(item, arg.Pos)
				if err != nil {
					return nil, err
				}
				out = append(out, d)
			}
			continue
		}
		d, err := b.expr(arg.Expr)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// literal 用于绑定数据中的元素：不再做插值，只校验换行。
func (b *builder) literal(s string, pos lexer.Position) (pretty.Doc, error) {
	d, err := pretty.TryText(s)
	if err != nil {
		return pretty.Doc{}, fmt.Errorf("%s: %w", pos, err)
	}
	return d, nil
}

// dataPath 将 DSL 中的路径转换为绑定路径。
func dataPath(p *dsl.Path) binding.Path {
	path := binding.Path{binding.Field(p.Head)}
	for _, seg := range p.Segments {
		switch {
		case seg.Field != nil:
			path = append(path, binding.Field(*seg.Field))
		case seg.Index != nil:
			path = append(path, binding.Index(*seg.Index))
		}
	}
	return path
}

func arityError(c *dsl.Call, want string, got int) error {
	return fmt.Errorf("%s: %s 需要 %s 个参数，实际为 %d", c.Pos, c.Name, want, got)
}
