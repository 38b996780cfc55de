package evaluator

import (
	"testing"

	"github.com/sprout-lang/sprout/internal/lexer"
	"github.com/sprout-lang/sprout/internal/object"
	"github.com/sprout-lang/sprout/internal/parser"
)

func run(t *testing.T, input string) object.Object {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	env := NewRootEnvironment()
	return Eval(program, env)
}

func testInteger(t *testing.T, obj object.Object, want int64) {
	t.Helper()
	intg, ok := obj.(*object.Integer)
	if !ok {
		t.Fatalf("expected Integer, got %T (%+v)", obj, obj)
	}
	if intg.Value != want {
		t.Fatalf("expected %d, got %d", want, intg.Value)
	}
}

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"5", 5},
		{"-5", -5},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
		{"5 % 2", 1},
	}
	for _, tt := range tests {
		testInteger(t, run(t, tt.input), tt.want)
	}
}

func TestClosures(t *testing.T) {
	result := run(t, `
		let newAdder = fn(x) { fn(y) { x + y } };
		let addTwo = newAdder(2);
		addTwo(3);
	`)
	testInteger(t, result, 5)
}

func TestRecursion(t *testing.T) {
	result := run(t, `
		let count = fn(x) { if (x == 0) { return 0 } else { count(x - 1) } };
		count(3);
	`)
	testInteger(t, result, 0)
}

func TestMixedHashLookup(t *testing.T) {
	result := run(t, `{ "one": 1, "two": 2 }["one"] + { 1: 10 }[1]`)
	testInteger(t, result, 11)
}

func TestPushIsNonMutating(t *testing.T) {
	result := run(t, `let a = [1,2,3]; push(a, 4); len(a)`)
	testInteger(t, result, 3)
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5 + true;", "type mismatch: INTEGER + BOOLEAN"},
		{"-true", "unknown operator: -BOOLEAN"},
		{`"a" - "b"`, "unknown operator: STRING - STRING"},
		{"foobar", "identifier not found: foobar"},
		{"5 / 0", "divide by 0 error"},
		{`{"name": "Monkey"}[fn(x) { x }];`, "unusable as hash key: FUNCTION"},
		{"[1,2,3][4]", ""},
	}
	for _, tt := range tests {
		result := run(t, tt.input)
		if tt.want == "" {
			if _, ok := result.(*object.NullType); !ok {
				t.Errorf("input %q: expected Null, got %T", tt.input, result)
			}
			continue
		}
		errObj, ok := result.(*object.Error)
		if !ok {
			t.Fatalf("input %q: expected Error, got %T (%+v)", tt.input, result, result)
		}
		if errObj.Message != tt.want {
			t.Errorf("input %q: expected message %q, got %q", tt.input, tt.want, errObj.Message)
		}
	}
}

func TestIfElseTruthiness(t *testing.T) {
	if result := run(t, "if (false) { 10 }"); result != object.Null {
		t.Errorf("expected Null singleton, got %+v", result)
	}
}

func TestBlockScopeDoesNotLeak(t *testing.T) {
	result := run(t, "let a = 1; if (true) { let a = 2; }; a")
	testInteger(t, result, 1)
}

func TestExtraArgumentsIgnored(t *testing.T) {
	result := run(t, "let id = fn(a) { a }; id(1, 2);")
	testInteger(t, result, 1)
}

func TestMissingArgumentIsError(t *testing.T) {
	result := run(t, "let add = fn(a, b) { a + b }; add(1);")
	if _, ok := result.(*object.Error); !ok {
		t.Fatalf("expected Error for missing argument, got %T", result)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{`len("")`, int64(0)},
		{`len("four")`, int64(4)},
		{`len(1)`, "argument to `len` not supported, got INTEGER"},
		{`len("one", "two")`, "wrong number of arguments. got=2, want=1"},
		{`first([1, 2, 3])`, int64(1)},
		{`first([])`, nil},
		{`last([1, 2, 3])`, int64(3)},
		{`len(rest([1, 2, 3]))`, int64(2)},
		{`rest([])`, nil},
	}
	for _, tt := range tests {
		result := run(t, tt.input)
		switch want := tt.want.(type) {
		case int64:
			testInteger(t, result, want)
		case string:
			errObj, ok := result.(*object.Error)
			if !ok {
				t.Fatalf("input %q: expected Error, got %T", tt.input, result)
			}
			if errObj.Message != want {
				t.Errorf("input %q: expected %q, got %q", tt.input, want, errObj.Message)
			}
		case nil:
			if result != object.Null {
				t.Errorf("input %q: expected Null, got %+v", tt.input, result)
			}
		}
	}
}
