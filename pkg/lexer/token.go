package lexer

import "github.com/reox-lang/reoxc/internal/ast"

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	// ILLEGAL is the zero TokenType. The lexer never emits it: input it
	// cannot tokenize is reported as a *LexError instead.
	ILLEGAL TokenType = iota
	// EOF marks end of input.
	EOF

	// Literals
	IDENT
	INT
	FLOAT
	STRING

	// Keywords
	FN
	LET
	MUT
	STRUCT
	EXTERN
	IMPORT
	RETURN
	IF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	GUARD
	DEFER
	TRY
	CATCH
	THROW
	TRUE
	FALSE
	NIL
	ASYNC
	AWAIT
	MATCH

	// Domain keywords (reserved by the language, not all exercised by core
	// operations implemented here — see spec.md §3's keyword list)
	KIND
	LAYER
	PANEL
	ACTION
	MAYBE
	EFFECT
	BIND
	EMIT
	SIGNAL
	WHEN
	SELF
	PUB
	WHERE
	TYPEALIAS
	PROTOCOL
	EXTENSION
	STATIC
	CONST
	GESTURE
	ON_TAP
	ON_PAN
	ON_SWIPE
	ON_PINCH
	ON_ROTATE

	// Primitive type keywords
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE
	BOOL_TYPE
	VOID_TYPE

	// Operators and punctuation
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	ASSIGN   // =
	EQ       // ==
	NE       // !=
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	AND      // &&
	OR       // ||
	NOT      // !
	AMP      // &
	PIPE     // |
	CARET    // ^
	TILDE    // ~
	SHL      // <<
	SHR      // >>
	PLUSEQ   // +=
	MINUSEQ  // -=
	STAREQ   // *=
	SLASHEQ  // /=
	PERCENTEQ // %=
	INC      // ++
	DEC      // --
	ARROW    // ->
	FATARROW // =>
	DOT      // .
	DOTDOT   // ..
	QDOT     // ?.
	QQ       // ??
	QUESTION // ?
	COMMA    // ,
	COLON    // :
	SEMI     // ;
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
)

var keywords = map[string]TokenType{
	"fn": FN, "let": LET, "mut": MUT, "struct": STRUCT, "extern": EXTERN,
	"import": IMPORT, "return": RETURN, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "in": IN, "break": BREAK, "continue": CONTINUE,
	"guard": GUARD, "defer": DEFER, "try": TRY, "catch": CATCH, "throw": THROW,
	"true": TRUE, "false": FALSE, "nil": NIL, "async": ASYNC, "await": AWAIT,
	"match": MATCH,

	"kind": KIND, "layer": LAYER, "panel": PANEL, "action": ACTION,
	"maybe": MAYBE, "effect": EFFECT, "bind": BIND, "emit": EMIT,
	"signal": SIGNAL, "when": WHEN, "self": SELF, "pub": PUB, "where": WHERE,
	"typealias": TYPEALIAS, "protocol": PROTOCOL, "extension": EXTENSION,
	"static": STATIC, "const": CONST, "gesture": GESTURE,
	"on_tap": ON_TAP, "on_pan": ON_PAN, "on_swipe": ON_SWIPE,
	"on_pinch": ON_PINCH, "on_rotate": ON_ROTATE,

	"int": INT_TYPE, "float": FLOAT_TYPE, "string": STRING_TYPE,
	"bool": BOOL_TYPE, "void": VOID_TYPE,
}

// LookupIdent classifies an identifier as a keyword token or, failing that,
// as a generic IDENT.
func LookupIdent(s string) TokenType {
	if tok, ok := keywords[s]; ok {
		return tok
	}

	return IDENT
}

// Token is a single lexical token: its type, the literal text it was
// scanned from, and its source span.
type Token struct {
	Type    TokenType
	Literal string
	Span    ast.Span
}

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT",
	STRING: "STRING", FN: "fn", LET: "let", MUT: "mut", STRUCT: "struct",
	EXTERN: "extern", IMPORT: "import", RETURN: "return", IF: "if", ELSE: "else",
	WHILE: "while", FOR: "for", IN: "in", BREAK: "break", CONTINUE: "continue",
	GUARD: "guard", DEFER: "defer", TRY: "try", CATCH: "catch", THROW: "throw",
	TRUE: "true", FALSE: "false", NIL: "nil", ASYNC: "async", AWAIT: "await",
	MATCH: "match",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", ASSIGN: "=",
	EQ: "==", NE: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=", AND: "&&", OR: "||",
	NOT: "!", AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	PLUSEQ: "+=", MINUSEQ: "-=", STAREQ: "*=", SLASHEQ: "/=", PERCENTEQ: "%=",
	INC: "++", DEC: "--", ARROW: "->", FATARROW: "=>", DOT: ".", DOTDOT: "..",
	QDOT: "?.", QQ: "??", QUESTION: "?", COMMA: ",", COLON: ":", SEMI: ";",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "UNKNOWN"
}
