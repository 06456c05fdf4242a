// Package frontend implements the scanner and recursive-descent parser for
// the Mila source language.
package frontend

import "fmt"

// Kind enumerates every token the scanner produces. The numeric values are
// not significant outside this package; only Kind.String() is used for
// diagnostics.
type Kind int

const (
	Error Kind = iota
	EOF

	// Identifier and literals.
	Identifier
	Number
	String

	// Keywords.
	Begin
	End
	Const
	Procedure
	Forward
	Function
	If
	Then
	Else
	Program
	While
	Exit
	Var
	Integer
	For
	Do
	Or
	Mod
	Div
	Not
	And
	Xor
	To
	Downto
	Array
	Of
	Break
	Continue

	// Multi-character operators.
	NotEqual
	LessEqual
	GreaterEqual
	Assign

	// Single-character tokens.
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	Dot
	Declaration // ":"
	Less
	Greater
	Plus
	Minus
	Multiply
	Equal
	Comma
	Semicolon
)

var kindNames = map[Kind]string{
	Error:        "UNKNOWN TOKEN",
	EOF:          "EOF",
	Identifier:   "identifier",
	Number:       "number",
	String:       "string",
	Begin:        "begin",
	End:          "end",
	Const:        "const",
	Procedure:    "procedure",
	Forward:      "forward",
	Function:     "function",
	If:           "if",
	Then:         "then",
	Else:         "else",
	Program:      "program",
	While:        "while",
	Exit:         "exit",
	Var:          "var",
	Integer:      "integer",
	For:          "for",
	Do:           "do",
	Or:           "or",
	Mod:          "mod",
	Div:          "div",
	Not:          "not",
	And:          "and",
	Xor:          "xor",
	To:           "to",
	Downto:       "downto",
	Array:        "array",
	Of:           "of",
	Break:        "break",
	Continue:     "continue",
	NotEqual:     "<>",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	Assign:       ":=",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	Dot:          ".",
	Declaration:  ":",
	Less:         "<",
	Greater:      ">",
	Plus:         "+",
	Minus:        "-",
	Multiply:     "*",
	Equal:        "=",
	Comma:        ",",
	Semicolon:    ";",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// keywords maps a completed identifier lexeme to its reserved-word Kind. The
// 28-entry list and spelling are taken verbatim from the original source
// language's keyword table.
var keywords = map[string]Kind{
	"begin":     Begin,
	"end":       End,
	"const":     Const,
	"procedure": Procedure,
	"forward":   Forward,
	"function":  Function,
	"if":        If,
	"then":      Then,
	"else":      Else,
	"program":   Program,
	"while":     While,
	"exit":      Exit,
	"var":       Var,
	"integer":   Integer,
	"for":       For,
	"do":        Do,
	"or":        Or,
	"mod":       Mod,
	"div":       Div,
	"not":       Not,
	"and":       And,
	"xor":       Xor,
	"to":        To,
	"downto":    Downto,
	"array":     Array,
	"of":        Of,
	"break":     Break,
	"continue":  Continue,
}

// Token is a single scanned lexical unit, carrying a Kind plus whichever
// payload is relevant to it and its source position for diagnostics.
type Token struct {
	Kind   Kind
	Lexeme string // set for Identifier
	Value  int    // set for Number
	Str    string // set for String (escapes already processed)
	Line   int
	Pos    int
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return t.Lexeme
	case Number:
		return fmt.Sprintf("%d", t.Value)
	case String:
		return t.Str
	default:
		return t.Kind.String()
	}
}
