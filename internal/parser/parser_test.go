package parser

import (
	"fmt"
	"testing"

	"github.com/sprout-lang/sprout/internal/ast"
	"github.com/sprout-lang/sprout/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	for _, e := range errs {
		t.Errorf("parser error: %s", e)
	}
	t.FailNow()
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
	}{
		{"let x = 5;", "x"},
		{"let y = true;", "y"},
		{"let foobar = y;", "foobar"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("expected 1 statement, got %d", len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("not a LetStatement, got %T", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdentifier {
			t.Fatalf("expected name %s, got %s", tt.expectedIdentifier, stmt.Name.Value)
		}
	}
}

func TestReturnStatements(t *testing.T) {
	program := parseProgram(t, "return 5; return true; return;")
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	for _, stmt := range program.Statements {
		if _, ok := stmt.(*ast.ReturnStatement); !ok {
			t.Fatalf("not a ReturnStatement, got %T", stmt)
		}
	}
}

func TestIfExpression(t *testing.T) {
	program := parseProgram(t, "if (x < y) { x } else { y }")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("not an IfExpression, got %T", stmt.Expression)
	}
	if ifExpr.Alternative == nil {
		t.Fatalf("expected alternative, got nil")
	}
}

func TestFunctionLiteralParsing(t *testing.T) {
	program := parseProgram(t, "fn(x, y) { x + y; }")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	fn, ok := stmt.Expression.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("not a FunctionLiteral, got %T", stmt.Expression)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
}

func TestCallExpressionPostfixes(t *testing.T) {
	program := parseProgram(t, "f(1, 2)[0](3)")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("not a CallExpression, got %T", stmt.Expression)
	}
	if len(call.Postfixes) != 3 {
		t.Fatalf("expected 3 postfixes, got %d", len(call.Postfixes))
	}
	if _, ok := call.Postfixes[0].(*ast.Arguments); !ok {
		t.Fatalf("postfix 0 should be Arguments, got %T", call.Postfixes[0])
	}
	if _, ok := call.Postfixes[1].(*ast.IndexPostfix); !ok {
		t.Fatalf("postfix 1 should be IndexPostfix, got %T", call.Postfixes[1])
	}
	if _, ok := call.Postfixes[2].(*ast.Arguments); !ok {
		t.Fatalf("postfix 2 should be Arguments, got %T", call.Postfixes[2])
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b * c", "(a + (b * c))"},
		{"a + b - c", "((a + b) - c)"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		got := program.Statements[0].String()
		if got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestArrayAndHashLiterals(t *testing.T) {
	program := parseProgram(t, `[1, 2 * 2, 3 + 3]`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	arr, ok := stmt.Expression.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("not an ArrayLiteral, got %T", stmt.Expression)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}

	program = parseProgram(t, `{"one": 1, "two": 2}`)
	stmt = program.Statements[0].(*ast.ExpressionStatement)
	hash, ok := stmt.Expression.(*ast.HashLiteral)
	if !ok {
		t.Fatalf("not a HashLiteral, got %T", stmt.Expression)
	}
	if len(hash.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(hash.Pairs))
	}
}

func ExampleNew() {
	l := lexer.New("let x = 1 + 2;")
	p := New(l)
	program := p.ParseProgram()
	fmt.Println(program.Statements[0].String())
	// Output: let x = (1 + 2);
}
