package ast

import (
	"bytes"

	"github.com/sprout-lang/sprout/internal/token"
)

// StatementsNode is a sequence of statements. It is both the root of every
// parsed program and the sole child of every Block.
type StatementsNode struct {
	Token      token.Token // a program's first token (EOF if empty), or a block's '{' token
	Statements []Statement
}

func (s *StatementsNode) statementNode()      {}
func (s *StatementsNode) TokenLiteral() string { return s.Token.Lexeme }
func (s *StatementsNode) String() string {
	var out bytes.Buffer
	for _, stmt := range s.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Program is the root of a parsed syntax tree: a Statements node.
type Program = StatementsNode

// BlockStatement wraps a brace-delimited Statements node, used for function
// bodies and if/else branches.
type BlockStatement struct {
	Token token.Token // the '{' token
	Body  *StatementsNode
}

func (b *BlockStatement) statementNode()      {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Lexeme }
func (b *BlockStatement) String() string       { return b.Body.String() }

// ExpressionStatement is an expression evaluated for its side effect (and,
// at top level or in a block, for its value).
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Lexeme }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String()
	}
	return ""
}

// LetStatement is the `let name = value` binding form ("Assignment" in the
// closed tag set).
type LetStatement struct {
	Token token.Token // the 'let' token
	Name  *Identifier
	Value Expression
}

func (l *LetStatement) statementNode()      {}
func (l *LetStatement) TokenLiteral() string { return l.Token.Lexeme }
func (l *LetStatement) String() string {
	var out bytes.Buffer
	out.WriteString(l.TokenLiteral() + " ")
	out.WriteString(l.Name.String())
	out.WriteString(" = ")
	if l.Value != nil {
		out.WriteString(l.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStatement is `return value`.
type ReturnStatement struct {
	Token       token.Token // the 'return' token
	ReturnValue Expression
}

func (r *ReturnStatement) statementNode()      {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Lexeme }
func (r *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString(r.TokenLiteral() + " ")
	if r.ReturnValue != nil {
		out.WriteString(r.ReturnValue.String())
	}
	out.WriteString(";")
	return out.String()
}
