package frontend

import (
	"fmt"
	"strings"

	"mila/ast"
)

// UnknownTokenError is raised when the current token does not match any
// production the parser expected at this point. It carries enough
// information to format a human-readable diagnostic lazily.
type UnknownTokenError struct {
	Got      Token
	Expected []Kind
}

func (e *UnknownTokenError) Error() string {
	var sb strings.Builder
	sb.WriteString("Unexpected token\n")
	fmt.Fprintf(&sb, "Got: %q\n", e.Got.String())
	sb.WriteString("Expected: ")
	for i1, k := range e.Expected {
		if i1 > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", k.String())
	}
	return sb.String()
}

// Parser is a hand-written LL(1) recursive-descent parser with one token of
// lookahead. Each nonterminal is a method that inspects the current token,
// picks a production, and recurses; there is no backtracking.
type Parser struct {
	s   *Scanner
	cur Token
}

// NewParser constructs a Parser over src and primes the lookahead token.
func NewParser(src string) (*Parser, error) {
	p := &Parser{s: NewScanner(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.s.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// match consumes the current token if it has the expected Kind, otherwise
// returns an UnknownTokenError. Either way it advances the lookahead only on
// success.
func (p *Parser) match(expected Kind) error {
	if p.cur.Kind != expected {
		return &UnknownTokenError{Got: p.cur, Expected: []Kind{expected}}
	}
	return p.advance()
}

func (p *Parser) unexpected(expected ...Kind) error {
	return &UnknownTokenError{Got: p.cur, Expected: expected}
}

// Parse parses an entire program and returns its AST: a Program marker
// followed by every top-level declaration in source order, with the body's
// statements folded into an implicit "main" Function (see parseProgram).
func Parse(src string) ([]ast.Stmt, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// parseProgram — production A: program ident ; B
func (p *Parser) parseProgram() ([]ast.Stmt, error) {
	if err := p.match(Program); err != nil {
		return nil, err
	}
	if p.cur.Kind != Identifier {
		return nil, p.unexpected(Identifier)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.match(Semicolon); err != nil {
		return nil, err
	}

	decls := []ast.Stmt{&ast.Program{}}
	if err := p.parseDecls(&decls); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.match(Dot); err != nil {
		return nil, err
	}

	decls = append(decls, &ast.Function{
		Name:       "main",
		ReturnType: ast.Integer{},
		Body:       body,
	})
	return decls, nil
}

// parseDecls — production B: var/const/function/procedure groups in any
// order and any number, until the program's begin-block is reached.
func (p *Parser) parseDecls(out *[]ast.Stmt) error {
	for {
		switch p.cur.Kind {
		case Var:
			if err := p.advance(); err != nil {
				return err
			}
			var vars []*ast.VarDecl
			if err := p.parseMultVarDecls(&vars, true); err != nil {
				return err
			}
			for _, v := range vars {
				*out = append(*out, v)
			}
		case Const:
			if err := p.advance(); err != nil {
				return err
			}
			consts, err := p.parseMultConstDecls()
			if err != nil {
				return err
			}
			for _, c := range consts {
				*out = append(*out, c)
			}
		case Function:
			fn, err := p.parseFunction()
			if err != nil {
				return err
			}
			*out = append(*out, fn)
		case Procedure:
			pr, err := p.parseProcedure()
			if err != nil {
				return err
			}
			*out = append(*out, pr)
		default:
			return nil
		}
	}
}

// parseMultVarDecls — productions E/E''/E': one or more "ident{,ident}: type
// ;" groups.
func (p *Parser) parseMultVarDecls(out *[]*ast.VarDecl, global bool) error {
	for p.cur.Kind == Identifier {
		names, err := p.parseMultIdent()
		if err != nil {
			return err
		}
		if err := p.match(Declaration); err != nil {
			return err
		}
		typ, err := p.parseType()
		if err != nil {
			return err
		}
		if err := p.match(Semicolon); err != nil {
			return err
		}
		for _, n := range names {
			*out = append(*out, &ast.VarDecl{Name: n, Type: typ, Global: global})
		}
	}
	return nil
}

// parseMultIdent — production E': comma-separated identifier list.
func (p *Parser) parseMultIdent() ([]string, error) {
	var names []string
	if p.cur.Kind != Identifier {
		return nil, p.unexpected(Identifier)
	}
	names = append(names, p.cur.Lexeme)
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.cur.Kind == Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != Identifier {
			return nil, p.unexpected(Identifier)
		}
		names = append(names, p.cur.Lexeme)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// parseType — production H: "integer" or "array [lo..hi] of Type".
func (p *Parser) parseType() (ast.Type, error) {
	switch p.cur.Kind {
	case Integer:
		return ast.Integer{}, p.advance()
	case Array:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.match(LeftBracket); err != nil {
			return nil, err
		}
		lo, err := p.parseSignedInt()
		if err != nil {
			return nil, err
		}
		if err := p.match(Dot); err != nil {
			return nil, err
		}
		if err := p.match(Dot); err != nil {
			return nil, err
		}
		hi, err := p.parseSignedInt()
		if err != nil {
			return nil, err
		}
		if err := p.match(RightBracket); err != nil {
			return nil, err
		}
		if err := p.match(Of); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.Array{Lo: lo, Hi: hi, Element: elem}, nil
	default:
		return nil, p.unexpected(Integer, Array)
	}
}

func (p *Parser) parseSignedInt() (int, error) {
	neg := false
	if p.cur.Kind == Minus {
		neg = true
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if p.cur.Kind != Number {
		return 0, p.unexpected(Number)
	}
	v := p.cur.Value
	if err := p.advance(); err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseMultConstDecls — production J/J': one or more "ident = number ;".
func (p *Parser) parseMultConstDecls() ([]*ast.ConstDecl, error) {
	var out []*ast.ConstDecl
	for p.cur.Kind == Identifier {
		name := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.match(Equal); err != nil {
			return nil, err
		}
		v, err := p.parseSignedInt()
		if err != nil {
			return nil, err
		}
		if err := p.match(Semicolon); err != nil {
			return nil, err
		}
		out = append(out, &ast.ConstDecl{Name: name, Value: v})
	}
	return out, nil
}

// parseFuncParamDecl — productions Q/Q': semicolon-separated groups of
// comma-separated identifiers sharing a type, inside "(...)".
func (p *Parser) parseFuncParamDecl() ([]*ast.VarDecl, error) {
	var params []*ast.VarDecl
	if err := p.match(LeftParen); err != nil {
		return nil, err
	}
	if p.cur.Kind != RightParen {
		for {
			names, err := p.parseMultIdent()
			if err != nil {
				return nil, err
			}
			if err := p.match(Declaration); err != nil {
				return nil, err
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			for _, n := range names {
				params = append(params, &ast.VarDecl{Name: n, Type: typ})
			}
			if p.cur.Kind != Semicolon {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.match(RightParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseFunction — production (function case of) B/T: "function name(params)
// : type ; [locals] (body|forward) ;"
func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.match(Function); err != nil {
		return nil, err
	}
	if p.cur.Kind != Identifier {
		return nil, p.unexpected(Identifier)
	}
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, err := p.parseFuncParamDecl()
	if err != nil {
		return nil, err
	}
	if err := p.match(Declaration); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.match(Semicolon); err != nil {
		return nil, err
	}

	if p.cur.Kind == Forward {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.match(Semicolon); err != nil {
			return nil, err
		}
		return &ast.Function{Name: name, Params: params, ReturnType: ret}, nil
	}

	var locals []*ast.VarDecl
	if p.cur.Kind == Var {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.parseMultVarDecls(&locals, false); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.match(Semicolon); err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Params: params, ReturnType: ret, Body: body, Locals: locals}, nil
}

// parseProcedure mirrors parseFunction without a return type.
func (p *Parser) parseProcedure() (*ast.Procedure, error) {
	if err := p.match(Procedure); err != nil {
		return nil, err
	}
	if p.cur.Kind != Identifier {
		return nil, p.unexpected(Identifier)
	}
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, err := p.parseFuncParamDecl()
	if err != nil {
		return nil, err
	}
	if err := p.match(Semicolon); err != nil {
		return nil, err
	}

	if p.cur.Kind == Forward {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.match(Semicolon); err != nil {
			return nil, err
		}
		return &ast.Procedure{Name: name, Params: params}, nil
	}

	var locals []*ast.VarDecl
	if p.cur.Kind == Var {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.parseMultVarDecls(&locals, false); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.match(Semicolon); err != nil {
		return nil, err
	}
	return &ast.Procedure{Name: name, Params: params, Body: body, Locals: locals}, nil
}

// parseBlock — production U: "begin D end" where D is a statement list with
// an optional trailing separator before "end".
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.match(Begin); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	if err := p.parseNextStatement(&stmts); err != nil {
		return nil, err
	}
	if err := p.match(End); err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts}, nil
}

// parseNextStatement — production R: parse a statement if one is present,
// otherwise stop (the block is closed by "end" at the call site).
func (p *Parser) parseNextStatement(out *[]ast.Stmt) error {
	if !p.startsStatement() {
		return nil
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return err
	}
	*out = append(*out, stmt)
	return p.parseAddNextStatement(out)
}

// parseAddNextStatement — production R': if another statement follows, a
// ";" must separate it from the one just parsed; a trailing ";" before
// "end" is permitted (the separator is optional after the last statement).
func (p *Parser) parseAddNextStatement(out *[]ast.Stmt) error {
	if p.cur.Kind != Semicolon {
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	return p.parseNextStatement(out)
}

func (p *Parser) startsStatement() bool {
	switch p.cur.Kind {
	case Identifier, Begin, For, While, Exit, Break, Continue, If:
		return true
	default:
		return false
	}
}

// parseStatement — production D.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case Identifier:
		return p.parseIdentLine()
	case Begin:
		return p.parseBlock()
	case For:
		return p.parseForStatement()
	case While:
		return p.parseWhileStatement()
	case If:
		return p.parseIf()
	case Exit:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Special{Kind: ast.Exit}, nil
	case Break:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Special{Kind: ast.Break}, nil
	case Continue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Special{Kind: ast.Continue}, nil
	default:
		return nil, p.unexpected(Identifier, Begin, For, While, Exit, Break, Continue, If)
	}
}

// parseIdentLine — production O: an identifier-prefixed statement,
// disambiguated by the token that follows the identifier.
func (p *Parser) parseIdentLine() (ast.Stmt, error) {
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseAfterIdent(name)
}

// parseAfterIdent — production O': assignment (":="), array-element
// assignment ("["), or procedure call ("(" or bare, zero-argument).
func (p *Parser) parseAfterIdent(name string) (ast.Stmt, error) {
	switch p.cur.Kind {
	case Assign:
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: &ast.VarRef{Name: name}, Value: val}, nil
	case LeftBracket:
		target, err := p.parseArrayIndexChain(&ast.VarRef{Name: name})
		if err != nil {
			return nil, err
		}
		if err := p.match(Assign); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: target, Value: val}, nil
	case LeftParen:
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.ProcedureCall{Name: name, Args: args}, nil
	default:
		return &ast.ProcedureCall{Name: name, Args: nil}, nil
	}
}

// parseArrayIndexChain — production F''': one or more "[expr]" suffixes,
// composing nested ArrayIndex nodes.
func (p *Parser) parseArrayIndexChain(base ast.LValue) (ast.LValue, error) {
	cur := base
	for p.cur.Kind == LeftBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.match(RightBracket); err != nil {
			return nil, err
		}
		cur = &ast.ArrayIndex{Base: cur, Index: idx}
	}
	return cur, nil
}

// parseCallArgs — productions G/G': "(" possibly-empty comma-separated
// argument list ")". A bare string literal is permitted as an argument
// (needed for write/writeln's string form).
func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	if err := p.match(LeftParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.cur.Kind != RightParen {
		for {
			arg, err := p.parseCallArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind != Comma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.match(RightParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseCallArg() (ast.Expr, error) {
	if p.cur.Kind == String {
		s := &ast.String{Value: p.cur.Str}
		return s, p.advance()
	}
	return p.parseExpression()
}

// parseForStatement — production D' continuation of D: "for var := start
// (to|downto) end do S".
func (p *Parser) parseForStatement() (ast.Stmt, error) {
	if err := p.match(For); err != nil {
		return nil, err
	}
	if p.cur.Kind != Identifier {
		return nil, p.unexpected(Identifier)
	}
	v := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.match(Assign); err != nil {
		return nil, err
	}
	start, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var ascending bool
	switch p.cur.Kind {
	case To:
		ascending = true
	case Downto:
		ascending = false
	default:
		return nil, p.unexpected(To, Downto)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.match(Do); err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	return &ast.For{Var: v, Start: start, End: end, Ascending: ascending, Body: body}, nil
}

func (p *Parser) parseWhileStatement() (ast.Stmt, error) {
	if err := p.match(While); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.match(Do); err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// parseLoopBody wraps a single statement (block or otherwise) into a Block
// so While/For always carry a uniform body shape.
func (p *Parser) parseLoopBody() (*ast.Block, error) {
	if p.cur.Kind == Begin {
		return p.parseBlock()
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: []ast.Stmt{stmt}}, nil
}

// parseIf — production S: "if E then S [else S]".
func (p *Parser) parseIf() (ast.Stmt, error) {
	if err := p.match(If); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.match(Then); err != nil {
		return nil, err
	}
	thenBlk, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	var elseBlk *ast.Block
	if p.cur.Kind == Else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBlk, err = p.parseLoopBody()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: thenBlk, Else: elseBlk}, nil
}

// --- expressions: five-level precedence chain ---

// parseExpression — level 1 (lowest): relational operators, non-chaining
// (a single relation per expression, as in the source grammar).
func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseLevel2()
	if err != nil {
		return nil, err
	}
	op := relOp(p.cur.Kind)
	if op == "" {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseLevel2()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Op: op, Left: left, Right: right}, nil
}

func relOp(k Kind) string {
	switch k {
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	default:
		return ""
	}
}

// parseLevel2 — additive: "+ - or", left-associative.
func (p *Parser) parseLevel2() (ast.Expr, error) {
	left, err := p.parseLevel3()
	if err != nil {
		return nil, err
	}
	for {
		op := addOp(p.cur.Kind)
		if op == "" {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseLevel3()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

func addOp(k Kind) string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Or:
		return "or"
	default:
		return ""
	}
}

// parseLevel3 — multiplicative: "* div mod and xor", left-associative.
func (p *Parser) parseLevel3() (ast.Expr, error) {
	left, err := p.parseLevel4()
	if err != nil {
		return nil, err
	}
	for {
		op := mulOp(p.cur.Kind)
		if op == "" {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseLevel4()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

func mulOp(k Kind) string {
	switch k {
	case Multiply:
		return "*"
	case Div:
		return "div"
	case Mod:
		return "mod"
	case And:
		return "and"
	case Xor:
		return "xor"
	default:
		return ""
	}
}

// parseLevel4 — unary "not", right-recursive (so "not not x" parses).
func (p *Parser) parseLevel4() (ast.Expr, error) {
	if p.cur.Kind == Not {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseLevel4()
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: "not", Operand: operand}, nil
	}
	return p.parseLevel5()
}

// parseLevel5 — unary "-", right-recursive.
func (p *Parser) parseLevel5() (ast.Expr, error) {
	if p.cur.Kind == Minus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseLevel5()
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: "-", Operand: operand}, nil
	}
	return p.parseAtom()
}

// parseAtom — production P/F/F'/F'': number literal, identifier (possibly
// followed by "(args)" for a call or "[idx]..." for an index chain), or a
// parenthesized expression.
func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.cur.Kind {
	case Number:
		v := p.cur.Value
		return &ast.Number{Value: v}, p.advance()
	case String:
		v := p.cur.Str
		return &ast.String{Value: v}, p.advance()
	case Identifier:
		name := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.cur.Kind {
		case LeftParen:
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &ast.Call{Name: name, Args: args}, nil
		case LeftBracket:
			return p.parseArrayIndexChain(&ast.VarRef{Name: name})
		default:
			return &ast.VarRef{Name: name}, nil
		}
	case LeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.match(RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.unexpected(Number, String, Identifier, LeftParen)
	}
}
