package lexer

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `+ - * / % = == != < > <= >= && || ! & | ^ ~ << >> += -= *= /= %= ++ -- -> => . .. ?. ?? ? , : ; ( ) { } [ ]`

	expected := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, ASSIGN, EQ, NE, LT, GT, LE, GE,
		AND, OR, NOT, AMP, PIPE, CARET, TILDE, SHL, SHR,
		PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, PERCENTEQ, INC, DEC,
		ARROW, FATARROW, DOT, DOTDOT, QDOT, QQ, QUESTION,
		COMMA, COLON, SEMI, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		EOF,
	}

	toks, err := All(input)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(expected))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, want)
		}
	}
}

func TestNextTokenKeywordsAndIdents(t *testing.T) {
	input := `fn let mut struct extern import return if else while for in break continue guard defer try catch throw true false nil async await match myVar _foo bar2`

	toks, err := All(input)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	expected := []TokenType{
		FN, LET, MUT, STRUCT, EXTERN, IMPORT, RETURN, IF, ELSE, WHILE, FOR, IN,
		BREAK, CONTINUE, GUARD, DEFER, TRY, CATCH, THROW, TRUE, FALSE, NIL,
		ASYNC, AWAIT, MATCH, IDENT, IDENT, IDENT, EOF,
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(expected))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token %d (%q): got %s, want %s", i, toks[i].Literal, toks[i].Type, want)
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	cases := []struct {
		input string
		typ   TokenType
		lit   string
	}{
		{"42", INT, "42"},
		{"0x1F", INT, "0x1F"},
		{"0X10", INT, "0X10"},
		{"3.14", FLOAT, "3.14"},
		{"1e10", FLOAT, "1e10"},
		{"1.5e-3", FLOAT, "1.5e-3"},
	}

	for _, c := range cases {
		l := New(c.input)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", c.input, err)
		}
		if tok.Type != c.typ || tok.Literal != c.lit {
			t.Errorf("input %q: got %s %q, want %s %q", c.input, tok.Type, tok.Literal, c.typ, c.lit)
		}
	}
}

func TestNextTokenString(t *testing.T) {
	tok, err := New(`"hello\nworld"`).Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != STRING || tok.Literal != "hello\nworld" {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextTokenStringInvalidEscape(t *testing.T) {
	_, err := All(`"bad\qescape"`)
	if err == nil {
		t.Fatal("expected a lex error for an invalid escape sequence")
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	_, err := All(`"unterminated`)
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestNestedBlockComments(t *testing.T) {
	toks, err := All("/* outer /* inner */ still-outer */ 42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Type != INT || toks[0].Literal != "42" {
		t.Fatalf("nested comment was not skipped as a single unit: %+v", toks)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := All("/* never closed")
	if err == nil {
		t.Fatal("expected a lex error for an unterminated block comment")
	}
}

func TestLineColumnTracking(t *testing.T) {
	toks, err := All("let\nx = 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// x is on line 2, column 1
	var xTok Token
	for _, tok := range toks {
		if tok.Type == IDENT && tok.Literal == "x" {
			xTok = tok
		}
	}
	if xTok.Span.Line != 2 || xTok.Span.Column != 1 {
		t.Fatalf("got line %d column %d, want line 2 column 1", xTok.Span.Line, xTok.Span.Column)
	}
}

func TestMaximalMunchAmbiguousOperators(t *testing.T) {
	// ".." must not lex as two separate "." tokens, and "??" must not lex
	// as two separate "?" tokens.
	toks, err := All("a..b c??d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	want := []TokenType{IDENT, DOTDOT, IDENT, IDENT, QQ, IDENT, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}
