package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/papyrus-doc/dsl"
)

const sampleDSL = `
# call site with a bound argument list
"call(" + params(
  "first",
  ...data.args,
  group("a" + nl + "b")   // trailing inline group
) + ")"
`

func TestParseProgram(t *testing.T) {
	prog, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if prog.Expr == nil || len(prog.Expr.Terms) != 3 {
		t.Fatalf("expected 3 concatenated terms, got %+v", prog.Expr)
	}

	head := prog.Expr.Terms[0]
	if head.String == nil || string(*head.String) != "call(" {
		t.Fatalf("expected leading string literal, got %+v", head)
	}

	call := prog.Expr.Terms[1].Call
	if call == nil || call.Name != "params" {
		t.Fatalf("expected params call, got %+v", prog.Expr.Terms[1])
	}
	if !call.HasArgs() {
		t.Fatalf("params should carry an argument list")
	}
	args := call.Arguments()
	if len(args) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(args))
	}
	if args[1].Spread == nil || args[1].Spread.String() != "data.args" {
		t.Fatalf("expected spread of data.args, got %+v", args[1])
	}

	group := args[2].Expr
	if group == nil || len(group.Terms) != 1 || group.Terms[0].Call == nil || group.Terms[0].Call.Name != "group" {
		t.Fatalf("expected group call, got %+v", args[2])
	}
	inner := group.Terms[0].Call.Arguments()[0].Expr
	if len(inner.Terms) != 3 {
		t.Fatalf("expected a + nl + b, got %d terms", len(inner.Terms))
	}
	nl := inner.Terms[1].Call
	if nl == nil || nl.Name != "nl" || nl.HasArgs() {
		t.Fatalf("expected bare nl identifier, got %+v", inner.Terms[1])
	}
}

func TestParseEmptyArgListAndParens(t *testing.T) {
	prog, err := dsl.ParseString(`concat() + ("x" + empty)`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call := prog.Expr.Terms[0].Call
	if call == nil || !call.HasArgs() || len(call.Arguments()) != 0 {
		t.Fatalf("expected empty argument list, got %+v", prog.Expr.Terms[0])
	}
	if prog.Expr.Terms[1].Paren == nil || len(prog.Expr.Terms[1].Paren.Terms) != 2 {
		t.Fatalf("expected parenthesized expression, got %+v", prog.Expr.Terms[1])
	}
}

func TestParseTrailingComma(t *testing.T) {
	prog, err := dsl.ParseString(`params(
  "a",
  "b",
)`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := len(prog.Expr.Terms[0].Call.Arguments()); got != 2 {
		t.Fatalf("expected 2 arguments, got %d", got)
	}
	for _, src := range []string{`params(,)`, `params("a",,)`} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestParsePathIndexes(t *testing.T) {
	prog, err := dsl.ParseString(`params(...rows[2].cells)`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	spread := prog.Expr.Terms[0].Call.Arguments()[0].Spread
	if got := spread.String(); got != "rows[2].cells" {
		t.Fatalf("expected rows[2].cells, got %s", got)
	}
}

func TestParseUnquotesStrings(t *testing.T) {
	prog, err := dsl.Parse(strings.NewReader(`"tab\there \"quoted\""`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := string(*prog.Expr.Terms[0].String); got != "tab\there \"quoted\"" {
		t.Fatalf("unexpected literal %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{`params(`, `"a" +`, `+ "a"`, `"unterminated`} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestParseFileReportsFilename(t *testing.T) {
	_, err := dsl.ParseFile("broken.pdoc", strings.NewReader(`group(`))
	if err == nil || !strings.Contains(err.Error(), "broken.pdoc") {
		t.Fatalf("expected error mentioning the filename, got %v", err)
	}
}
