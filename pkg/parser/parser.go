// Package parser builds an internal/ast.Program from a token stream
// produced by pkg/lexer.
//
// Declarations and statements are parsed by straightforward recursive
// descent. Expressions use a Pratt (operator-precedence) parser: each
// token type that can start an expression has a "nud" (null denotation,
// i.e. prefix) parse function, and each token type that can continue one
// has a "led" (left denotation, i.e. infix/postfix) parse function guarded
// by a binding power. This is the same shape as the teacher's expression
// parser, generalized from Nix's grammar to this language's.
package parser

import (
	"fmt"
	"strconv"

	"github.com/reox-lang/reoxc/internal/ast"
	"github.com/reox-lang/reoxc/pkg/lexer"
)

// precedence levels, low to high, numbered consecutively by iota in the
// style of the teacher's precedence.go.
const (
	precLowest = iota
	precAssign // = += -= *= /= %=
	precNullCoalesce // ??
	precOr           // ||
	precAnd          // &&
	precBitOr        // |
	precBitXor       // ^
	precBitAnd       // &
	precEquality     // == !=
	precRelational   // < > <= >=
	precShift        // << >>
	precAdditive     // + -
	precMultiplicative // * / %
	precUnary          // - ! ~ ++x --x
	precPostfix        // x++ x-- . ?. [] ()
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.QQ:      precNullCoalesce,
	lexer.OR:      precOr,
	lexer.AND:     precAnd,
	lexer.PIPE:    precBitOr,
	lexer.CARET:   precBitXor,
	lexer.AMP:     precBitAnd,
	lexer.EQ:      precEquality,
	lexer.NE:      precEquality,
	lexer.LT:      precRelational,
	lexer.GT:      precRelational,
	lexer.LE:      precRelational,
	lexer.GE:      precRelational,
	lexer.SHL:     precShift,
	lexer.SHR:     precShift,
	lexer.PLUS:    precAdditive,
	lexer.MINUS:   precAdditive,
	lexer.STAR:    precMultiplicative,
	lexer.SLASH:   precMultiplicative,
	lexer.PERCENT: precMultiplicative,
	lexer.DOTDOT:  precAdditive,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.OR: ast.OpOr, lexer.AND: ast.OpAnd,
	lexer.PIPE: ast.OpBitOr, lexer.CARET: ast.OpBitXor, lexer.AMP: ast.OpBitAnd,
	lexer.EQ: ast.OpEq, lexer.NE: ast.OpNe,
	lexer.LT: ast.OpLt, lexer.GT: ast.OpGt, lexer.LE: ast.OpLe, lexer.GE: ast.OpGe,
	lexer.SHL: ast.OpShl, lexer.SHR: ast.OpShr,
	lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub,
	lexer.STAR: ast.OpMul, lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
}

var compoundOps = map[lexer.TokenType]ast.CompoundOp{
	lexer.PLUSEQ: ast.CompoundAdd, lexer.MINUSEQ: ast.CompoundSub,
	lexer.STAREQ: ast.CompoundMul, lexer.SLASHEQ: ast.CompoundDiv,
	lexer.PERCENTEQ: ast.CompoundMod,
}

// ParseError is a single syntax error with its source span.
type ParseError struct {
	Span ast.Span
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[parse][%d:%d]: %s", e.Span.Line, e.Span.Column, e.Msg)
}

// ParseErrors aggregates every syntax error encountered while parsing a
// Program, so a single run reports as many problems as possible instead of
// stopping at the first one.
type ParseErrors struct {
	Errors []*ParseError
}

func (e *ParseErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	s := fmt.Sprintf("%d parse errors:", len(e.Errors))
	for _, pe := range e.Errors {
		s += "\n  " + pe.Error()
	}

	return s
}

// Parser consumes a lexer.Lexer's token stream and builds an *ast.Program.
type Parser struct {
	toks []lexer.Token
	pos  int

	errs []*ParseError
}

// New lexes the entirety of input up front (the language has no
// context-sensitive lexing) and returns a Parser ready to parse it.
func New(input string) (*Parser, error) {
	toks, err := lexer.All(input)
	if err != nil {
		// A lex error is returned unchanged (a *lexer.LexError) and no
		// Parser is built; the tokens scanned before it are discarded.
		return nil, err
	}

	return &Parser{toks: toks}, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}

	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, "expected %s, found %s %q", tt, p.cur().Type, p.cur().Literal)

	return p.cur(), false
}

func (p *Parser) errorf(span ast.Span, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Span: span, Msg: fmt.Sprintf(format, args...)})
}

// synchronize skips tokens until a likely statement/declaration boundary,
// so one syntax error doesn't cascade into dozens of spurious ones.
func (p *Parser) synchronize() {
	for !p.at(lexer.EOF) {
		if p.cur().Type == lexer.SEMI {
			p.advance()

			return
		}
		switch p.cur().Type {
		case lexer.FN, lexer.STRUCT, lexer.EXTERN, lexer.IMPORT, lexer.LET,
			lexer.IF, lexer.WHILE, lexer.FOR, lexer.RETURN, lexer.RBRACE:
			return
		}
		p.advance()
	}
}

// Parse parses the whole token stream into a Program, returning a
// *ParseErrors aggregate if any declarations failed to parse.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.at(lexer.EOF) {
		decl := p.parseDecl()
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
		} else {
			p.synchronize()
		}
	}

	if len(p.errs) > 0 {
		return prog, &ParseErrors{Errors: p.errs}
	}

	return prog, nil
}

func (p *Parser) parseDecl() ast.Decl {
	switch p.cur().Type {
	case lexer.FN, lexer.ASYNC:
		return p.parseFuncDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.EXTERN:
		return p.parseExternDecl()
	case lexer.IMPORT:
		return p.parseImportDecl()
	default:
		p.errorf(p.cur().Span, "expected a declaration (fn, struct, extern, or import), found %s", p.cur().Type)
		p.advance()

		return nil
	}
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	p.expect(lexer.LPAREN)
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		nameTok, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseType()
		params = append(params, ast.Param{Name: nameTok.Literal, Type: typ})
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)

	return params
}

func (p *Parser) parseFuncDecl() ast.Decl {
	start := p.cur().Span
	async := false
	if p.at(lexer.ASYNC) {
		async = true
		p.advance()
	}
	p.expect(lexer.FN)
	nameTok, _ := p.expect(lexer.IDENT)
	params := p.parseParamList()

	var ret ast.Type
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}

	body := p.parseBlock()

	return &ast.FuncDecl{
		Name: nameTok.Literal, Params: params, ReturnType: ret, Body: body, Async: async,
		Base: ast.At(spanTo(start, body.Span())),
	}
}

func (p *Parser) parseStructDecl() ast.Decl {
	start := p.cur().Span
	p.expect(lexer.STRUCT)
	nameTok, _ := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)

	var fields []ast.Field
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fNameTok, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseType()
		fields = append(fields, ast.Field{Name: fNameTok.Literal, Type: typ})
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end, _ := p.expect(lexer.RBRACE)

	return &ast.StructDecl{Name: nameTok.Literal, Fields: fields, Base: ast.At(spanTo(start, end.Span))}
}

func (p *Parser) parseExternDecl() ast.Decl {
	start := p.cur().Span
	p.expect(lexer.EXTERN)
	p.expect(lexer.FN)
	nameTok, _ := p.expect(lexer.IDENT)
	params := p.parseParamList()

	var ret ast.Type
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	end, _ := p.expect(lexer.SEMI)

	return &ast.ExternDecl{Name: nameTok.Literal, Params: params, ReturnType: ret, Base: ast.At(spanTo(start, end.Span))}
}

func (p *Parser) parseImportDecl() ast.Decl {
	start := p.cur().Span
	p.expect(lexer.IMPORT)

	var path []string
	for {
		t, _ := p.expect(lexer.IDENT)
		path = append(path, t.Literal)
		if p.at(lexer.DOT) {
			p.advance()

			continue
		}

		break
	}
	end, _ := p.expect(lexer.SEMI)

	return &ast.ImportDecl{Path: path, Base: ast.At(spanTo(start, end.Span))}
}

func (p *Parser) parseType() ast.Type {
	switch p.cur().Type {
	case lexer.INT_TYPE:
		p.advance()

		return ast.IntType{}
	case lexer.FLOAT_TYPE:
		p.advance()

		return ast.FloatType{}
	case lexer.STRING_TYPE:
		p.advance()

		return ast.StringType{}
	case lexer.BOOL_TYPE:
		p.advance()

		return ast.BoolType{}
	case lexer.VOID_TYPE:
		p.advance()

		return ast.VoidType{}
	case lexer.LBRACKET:
		p.advance()
		elem := p.parseType()
		p.expect(lexer.RBRACKET)

		return ast.ArrayType{Element: elem}
	case lexer.IDENT:
		name := p.advance().Literal

		return ast.NamedType{Name: name}
	default:
		p.errorf(p.cur().Span, "expected a type, found %s", p.cur().Type)
		p.advance()

		return ast.VoidType{}
	}
}

func spanTo(start, end ast.Span) ast.Span {
	return ast.Span{Line: start.Line, Column: start.Column, Start: start.Start, End: end.End}
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseBlock() *ast.BlockStmt {
	start, _ := p.expect(lexer.LBRACE)

	var stmts []ast.Stmt
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		} else {
			p.synchronize()
		}
	}
	end, _ := p.expect(lexer.RBRACE)

	return &ast.BlockStmt{Statements: stmts, Base: ast.At(spanTo(start.Span, end.Span))}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.BREAK:
		t := p.advance()
		p.expect(lexer.SEMI)

		return &ast.BreakStmt{Base: ast.At(t.Span)}
	case lexer.CONTINUE:
		t := p.advance()
		p.expect(lexer.SEMI)

		return &ast.ContinueStmt{Base: ast.At(t.Span)}
	case lexer.GUARD:
		return p.parseGuardStmt()
	case lexer.DEFER:
		start := p.advance().Span
		body := p.parseBlock()

		return &ast.DeferStmt{Body: body, Base: ast.At(spanTo(start, body.Span()))}
	case lexer.TRY:
		return p.parseTryCatchStmt()
	case lexer.THROW:
		start := p.advance().Span
		val := p.parseExpr(precLowest)
		end, _ := p.expect(lexer.SEMI)

		return &ast.ThrowStmt{Value: val, Base: ast.At(spanTo(start, end.Span))}
	case lexer.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start, _ := p.expect(lexer.LET)
	mutable := false
	if p.at(lexer.MUT) {
		mutable = true
		p.advance()
	}
	nameTok, _ := p.expect(lexer.IDENT)

	var annot ast.Type
	if p.at(lexer.COLON) {
		p.advance()
		annot = p.parseType()
	}

	var init ast.Expr
	if p.at(lexer.ASSIGN) {
		p.advance()
		init = p.parseExpr(precLowest)
	}
	end, _ := p.expect(lexer.SEMI)

	return &ast.LetStmt{
		Name: nameTok.Literal, Mutable: mutable, Annotation: annot, Init: init,
		Base: ast.At(spanTo(start.Span, end.Span)),
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start, _ := p.expect(lexer.RETURN)
	var val ast.Expr
	if !p.at(lexer.SEMI) {
		val = p.parseExpr(precLowest)
	}
	end, _ := p.expect(lexer.SEMI)

	return &ast.ReturnStmt{Value: val, Base: ast.At(spanTo(start.Span, end.Span))}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start, _ := p.expect(lexer.IF)
	cond := p.parseExpr(precLowest)
	then := p.parseBlock()

	var elseBlock *ast.BlockStmt
	if p.at(lexer.ELSE) {
		p.advance()
		if p.at(lexer.IF) {
			// else-if chains desugar to a nested if wrapped in a block so
			// IfStmt.Else stays a plain *BlockStmt.
			inner := p.parseIfStmt()
			elseBlock = &ast.BlockStmt{Statements: []ast.Stmt{inner}, Base: ast.At(inner.Span())}
		} else {
			elseBlock = p.parseBlock()
		}
	}

	end := then.Span()
	if elseBlock != nil {
		end = elseBlock.Span()
	}

	return &ast.IfStmt{Cond: cond, Then: then, Else: elseBlock, Base: ast.At(spanTo(start.Span, end))}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start, _ := p.expect(lexer.WHILE)
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()

	return &ast.WhileStmt{Cond: cond, Body: body, Base: ast.At(spanTo(start.Span, body.Span()))}
}

func (p *Parser) parseForStmt() ast.Stmt {
	start, _ := p.expect(lexer.FOR)
	nameTok, _ := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	iter := p.parseExpr(precLowest)
	body := p.parseBlock()

	return &ast.ForStmt{Var: nameTok.Literal, Iterable: iter, Body: body, Base: ast.At(spanTo(start.Span, body.Span()))}
}

func (p *Parser) parseGuardStmt() ast.Stmt {
	start, _ := p.expect(lexer.GUARD)
	cond := p.parseExpr(precLowest)
	p.expect(lexer.ELSE)
	elseBlock := p.parseBlock()

	return &ast.GuardStmt{Cond: cond, Else: elseBlock, Base: ast.At(spanTo(start.Span, elseBlock.Span()))}
}

func (p *Parser) parseTryCatchStmt() ast.Stmt {
	start, _ := p.expect(lexer.TRY)
	tryBlock := p.parseBlock()
	p.expect(lexer.CATCH)

	var catchVar string
	if p.at(lexer.IDENT) {
		catchVar = p.advance().Literal
	}
	catchBlock := p.parseBlock()

	return &ast.TryCatchStmt{
		Try: tryBlock, CatchVar: catchVar, CatchBlock: catchBlock,
		Base: ast.At(spanTo(start.Span, catchBlock.Span())),
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Span
	e := p.parseExpr(precLowest)
	end, _ := p.expect(lexer.SEMI)

	return &ast.ExprStmt{Expr: e, Base: ast.At(spanTo(start, end.Span))}
}

// ============================================================================
// Expressions (Pratt parser)
// ============================================================================

func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()

	for {
		tt := p.cur().Type

		if tt == lexer.ASSIGN && minPrec <= precAssign {
			p.advance()
			right := p.parseExpr(precAssign)
			left = &ast.AssignExpr{Target: left, Value: right, Base: ast.At(spanTo(left.Span(), right.Span()))}

			continue
		}
		if cop, ok := compoundOps[tt]; ok && minPrec <= precAssign {
			p.advance()
			right := p.parseExpr(precAssign)
			left = &ast.CompoundAssignExpr{Target: left, Op: cop, Value: right, Base: ast.At(spanTo(left.Span(), right.Span()))}

			continue
		}

		if tt == lexer.QQ && precNullCoalesce > minPrec {
			p.advance()
			right := p.parseExpr(precNullCoalesce)
			left = &ast.NullCoalesceExpr{Left: left, Right: right, Base: ast.At(spanTo(left.Span(), right.Span()))}

			continue
		}

		if tt == lexer.DOTDOT && minPrec <= precAdditive {
			p.advance()
			right := p.parseExpr(precAdditive + 1)
			left = &ast.RangeExpr{Start: left, End: right, Base: ast.At(spanTo(left.Span(), right.Span()))}

			continue
		}

		if prec, ok := binaryPrecedence[tt]; ok && prec > minPrec {
			op := binaryOps[tt]
			p.advance()
			right := p.parseExpr(prec)
			left = &ast.BinaryExpr{Left: left, Op: op, Right: right, Base: ast.At(spanTo(left.Span(), right.Span()))}

			continue
		}

		// postfix chain: call, member, optional-member, index, postfix inc/dec
		if next, ok := p.tryParsePostfix(left); ok {
			left = next

			continue
		}

		return left
	}
}

func (p *Parser) tryParsePostfix(left ast.Expr) (ast.Expr, bool) {
	switch p.cur().Type {
	case lexer.DOT:
		p.advance()
		nameTok, _ := p.expect(lexer.IDENT)

		return &ast.MemberExpr{Receiver: left, Name: nameTok.Literal, Base: ast.At(spanTo(left.Span(), nameTok.Span))}, true

	case lexer.QDOT:
		p.advance()
		nameTok, _ := p.expect(lexer.IDENT)

		return &ast.OptionalMemberExpr{Receiver: left, Name: nameTok.Literal, Base: ast.At(spanTo(left.Span(), nameTok.Span))}, true

	case lexer.LBRACKET:
		p.advance()
		idx := p.parseExpr(precLowest)
		end, _ := p.expect(lexer.RBRACKET)

		return &ast.IndexExpr{Receiver: left, Index: idx, Base: ast.At(spanTo(left.Span(), end.Span))}, true

	case lexer.LPAREN:
		args, end := p.parseArgList()

		return &ast.CallExpr{Callee: left, Args: args, Base: ast.At(spanTo(left.Span(), end))}, true

	case lexer.LBRACE:
		// trailing closure: `callee { ... }` is `callee(fn() { ... })` with
		// the closure's function value appended as the final argument.
		if call, ok := left.(*ast.CallExpr); ok {
			body := p.parseBlock()
			closure := &ast.FuncLitExpr{Body: body, Base: ast.At(body.Span())}
			args := append(append([]ast.Expr{}, call.Args...), closure)

			return &ast.CallExpr{
				Callee: call.Callee, Args: args, TrailingClosure: true,
				Base: ast.At(spanTo(left.Span(), body.Span())),
			}, true
		}

		return nil, false

	case lexer.INC:
		t := p.advance()

		return &ast.IncDecExpr{Operand: left, Inc: true, Postfix: true, Base: ast.At(spanTo(left.Span(), t.Span))}, true

	case lexer.DEC:
		t := p.advance()

		return &ast.IncDecExpr{Operand: left, Inc: false, Postfix: true, Base: ast.At(spanTo(left.Span(), t.Span))}, true

	default:
		return nil, false
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, ast.Span) {
	p.expect(lexer.LPAREN)

	var args []ast.Expr
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseExpr(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end, _ := p.expect(lexer.RPAREN)

	return args, end.Span
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.cur()

	switch tok.Type {
	case lexer.INT:
		p.advance()
		digits, base := tok.Literal, 10
		if len(digits) > 2 && (digits[1] == 'x' || digits[1] == 'X') {
			digits, base = digits[2:], 16
		}
		v, err := strconv.ParseInt(digits, base, 64)
		if err != nil {
			p.errorf(tok.Span, "invalid integer literal %q", tok.Literal)
		}

		return &ast.IntLit{Value: v, Base: ast.At(tok.Span)}

	case lexer.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf(tok.Span, "invalid float literal %q", tok.Literal)
		}

		return &ast.FloatLit{Value: v, Base: ast.At(tok.Span)}

	case lexer.STRING:
		p.advance()

		return &ast.StringLit{Value: tok.Literal, Base: ast.At(tok.Span)}

	case lexer.TRUE:
		p.advance()

		return &ast.BoolLit{Value: true, Base: ast.At(tok.Span)}

	case lexer.FALSE:
		p.advance()

		return &ast.BoolLit{Value: false, Base: ast.At(tok.Span)}

	case lexer.NIL:
		p.advance()

		return &ast.NilLit{Base: ast.At(tok.Span)}

	case lexer.IDENT, lexer.SELF:
		p.advance()
		if p.at(lexer.LBRACE) && p.looksLikeStructLit() {
			return p.parseStructLit(tok)
		}

		return &ast.IdentExpr{Name: tok.Literal, Base: ast.At(tok.Span)}

	case lexer.MINUS:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	case lexer.NOT:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	case lexer.TILDE:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.UnaryExpr{Op: ast.OpBitNot, Operand: operand, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	case lexer.INC:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.IncDecExpr{Operand: operand, Inc: true, Postfix: false, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	case lexer.DEC:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.IncDecExpr{Operand: operand, Inc: false, Postfix: false, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)

		return inner

	case lexer.LBRACKET:
		return p.parseArrayLit(tok)

	case lexer.MATCH:
		return p.parseMatchExpr(tok)

	case lexer.AWAIT:
		p.advance()
		operand := p.parseExpr(precUnary)

		return &ast.AwaitExpr{Operand: operand, Base: ast.At(spanTo(tok.Span, operand.Span()))}

	default:
		p.errorf(tok.Span, "unexpected token %s %q in expression", tok.Type, tok.Literal)
		p.advance()

		return &ast.NilLit{Base: ast.At(tok.Span)}
	}
}

// looksLikeStructLit disambiguates `Name { ... }` (a struct literal) from a
// bare identifier immediately followed by a block belonging to the
// enclosing statement (e.g. `if cond { ... }`, `x { ... }` trailing
// closure call target). A struct literal requires the brace to be followed
// by either `}` (empty) or `ident :`.
func (p *Parser) looksLikeStructLit() bool {
	if p.peek().Type == lexer.RBRACE {
		return true
	}

	return p.peek().Type == lexer.IDENT && p.pos+2 < len(p.toks) && p.toks[p.pos+2].Type == lexer.COLON
}

func (p *Parser) parseStructLit(nameTok lexer.Token) ast.Expr {
	p.expect(lexer.LBRACE)

	var fields []ast.StructFieldInit
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fNameTok, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		val := p.parseExpr(precLowest)
		fields = append(fields, ast.StructFieldInit{Name: fNameTok.Literal, Value: val})
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end, _ := p.expect(lexer.RBRACE)

	return &ast.StructLit{Name: nameTok.Literal, Fields: fields, Base: ast.At(spanTo(nameTok.Span, end.Span))}
}

func (p *Parser) parseArrayLit(start lexer.Token) ast.Expr {
	p.expect(lexer.LBRACKET)

	var elems []ast.Expr
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseExpr(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end, _ := p.expect(lexer.RBRACKET)

	return &ast.ArrayLit{Elements: elems, Base: ast.At(spanTo(start.Span, end.Span))}
}

func (p *Parser) parseMatchExpr(start lexer.Token) ast.Expr {
	p.expect(lexer.MATCH)
	scrutinee := p.parseExpr(precLowest)
	p.expect(lexer.LBRACE)

	var arms []ast.MatchArm
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		pat := p.parsePattern()
		p.expect(lexer.FATARROW)

		var body ast.Expr
		if p.at(lexer.LBRACE) {
			block := p.parseBlock()
			body = blockTailExpr(block)
		} else {
			body = p.parseExpr(precLowest)
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	end, _ := p.expect(lexer.RBRACE)

	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Base: ast.At(spanTo(start.Span, end.Span))}
}

// blockTailExpr extracts the expression from a block's trailing
// expression-statement so it can serve as a match arm's value, per spec.md
// §4.2's match-arm grammar (body is either a bare expression or a block
// whose last statement is an expression statement).
func blockTailExpr(b *ast.BlockStmt) ast.Expr {
	if len(b.Statements) == 0 {
		return &ast.NilLit{}
	}
	if last, ok := b.Statements[len(b.Statements)-1].(*ast.ExprStmt); ok {
		return last.Expr
	}

	return &ast.NilLit{}
}

func (p *Parser) parsePattern() ast.Pattern {
	if p.at(lexer.IDENT) && p.cur().Literal == "_" {
		p.advance()

		return ast.Pattern{Kind: ast.PatternWildcard}
	}
	if p.at(lexer.IDENT) {
		name := p.advance().Literal

		return ast.Pattern{Kind: ast.PatternIdent, Name: name}
	}

	lit := p.parseExpr(precUnary)

	return ast.Pattern{Kind: ast.PatternLiteral, Literal: lit}
}
