// Tests the Scanner by verifying that a short Mila source fragment is
// tokenized as expected, following the manual expectation-table style used
// across this codebase's scanner tests.
package frontend

import "testing"

func TestScannerBasics(t *testing.T) {
	src := `program p;
var a: array [5..7] of integer;
begin
  a[6] := $ff + &10;
  writeln('hi');
end.`

	exp := []Token{
		{Kind: Program},
		{Kind: Identifier, Lexeme: "p"},
		{Kind: Semicolon},
		{Kind: Var},
		{Kind: Identifier, Lexeme: "a"},
		{Kind: Declaration},
		{Kind: Array},
		{Kind: LeftBracket},
		{Kind: Number, Value: 5},
		{Kind: Dot},
		{Kind: Dot},
		{Kind: Number, Value: 7},
		{Kind: RightBracket},
		{Kind: Of},
		{Kind: Integer},
		{Kind: Semicolon},
		{Kind: Begin},
		{Kind: Identifier, Lexeme: "a"},
		{Kind: LeftBracket},
		{Kind: Number, Value: 6},
		{Kind: RightBracket},
		{Kind: Assign},
		{Kind: Number, Value: 255},
		{Kind: Plus},
		{Kind: Number, Value: 8},
		{Kind: Semicolon},
		{Kind: Identifier, Lexeme: "writeln"},
		{Kind: LeftParen},
		{Kind: String, Str: "hi"},
		{Kind: RightParen},
		{Kind: Semicolon},
		{Kind: End},
		{Kind: Dot},
		{Kind: EOF},
	}

	s := NewScanner(src)
	for i1, want := range exp {
		got, err := s.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %s", i1, err)
		}
		if got.Kind != want.Kind {
			t.Fatalf("token %d: expected kind %s, got %s", i1, want.Kind, got.Kind)
		}
		if got.Kind == Identifier && got.Lexeme != want.Lexeme {
			t.Errorf("token %d: expected lexeme %q, got %q", i1, want.Lexeme, got.Lexeme)
		}
		if got.Kind == Number && got.Value != want.Value {
			t.Errorf("token %d: expected value %d, got %d", i1, want.Value, got.Value)
		}
		if got.Kind == String && got.Str != want.Str {
			t.Errorf("token %d: expected string %q, got %q", i1, want.Str, got.Str)
		}
	}
}

func TestScannerBadDigit(t *testing.T) {
	s := NewScanner("&9")
	if _, err := s.Next(); err == nil {
		t.Fatalf("expected an error for digit 9 in base 8, got none")
	}
}

func TestScannerKeywordsAreCaseInsensitive(t *testing.T) {
	s := NewScanner("BEGIN End")
	tok, err := s.Next()
	if err != nil || tok.Kind != Begin {
		t.Fatalf("expected Begin, got %v (err %v)", tok, err)
	}
	tok, err = s.Next()
	if err != nil || tok.Kind != End {
		t.Fatalf("expected End, got %v (err %v)", tok, err)
	}
}
