package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Ellipsis", Pattern: `\.\.\.`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Symbol", Pattern: `[()\[\],+.]`},
	})

	programParser = participle.MustBuild[Program](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Program is the root AST node of a document expression source.
type Program struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Expr *Expr          `parser:"@@"`
}

// Expr is a concatenation of one or more terms joined with '+'.
type Expr struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Terms []*Term        `parser:"@@ ( '+' @@ )*"`
}

// Term is a single operand of a concatenation.
type Term struct {
	Pos    lexer.Position `parser:"" json:"-"`
	String *StringLiteral `parser:"  @String"`
	Call   *Call          `parser:"| @@"`
	Paren  *Expr          `parser:"| '(' @@ ')'"`
}

// Call is either a bare identifier (nl, empty) or a combinator application.
type Call struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args *ArgList       `parser:"@@?"`
}

// ArgList is the parenthesized argument list of a Call.
type ArgList struct {
	Open string `parser:"@'('" json:"-"`
	Args []*Arg `parser:"( @@ ( ',' @@ )* ','? )? ')'"`
}

// Arg is a call argument: an expression or a spread of bound data.
type Arg struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Spread *Path          `parser:"  '...' @@"`
	Expr   *Expr          `parser:"| @@"`
}

// Path addresses a value inside bound data, e.g. items[0].name.
type Path struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Head     string         `parser:"@Ident"`
	Segments []*PathSegment `parser:"@@*"`
}

// PathSegment is a field access or an array index.
type PathSegment struct {
	Field *string `parser:"  '.' @Ident"`
	Index *int    `parser:"| '[' @Number ']'"`
}

// String renders the path in binding syntax.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Head)
	for _, seg := range p.Segments {
		switch {
		case seg.Field != nil:
			b.WriteByte('.')
			b.WriteString(*seg.Field)
		case seg.Index != nil:
			fmt.Fprintf(&b, "[%d]", *seg.Index)
		}
	}
	return b.String()
}

// HasArgs reports whether the call was written with parentheses.
func (c *Call) HasArgs() bool { return c != nil && c.Args != nil }

// Arguments returns the call arguments, nil for a bare identifier.
func (c *Call) Arguments() []*Arg {
	if !c.HasArgs() {
		return nil
	}
	return c.Args.Args
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a document expression from an io.Reader.
func Parse(r io.Reader) (*Program, error) {
	return programParser.Parse("", r)
}

// ParseString parses a document expression from a string.
func ParseString(input string) (*Program, error) {
	return programParser.ParseString("", input)
}

// ParseFile parses src, reporting positions against filename.
func ParseFile(filename string, r io.Reader) (*Program, error) {
	return programParser.Parse(filename, r)
}
