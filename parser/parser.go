/*
Package parser implements a recursive-descent, precedence-climbing
("Pratt") parser converting a token stream into an AST, grounded on the
reference go-mix parser's UnaryFuncs/BinaryFuncs registry shape and its
two-token lookahead, but re-specified against this language's own grammar
and precedence table (§4.2). Unlike the reference parser (which collects
every error into a slice and keeps going), this design's errors are
non-recoverable: Parse returns on the first failure, carrying the
offending token, since §4.2 states "the parser surfaces the first
failure."
*/
package parser

import (
	"strconv"

	"github.com/quillscript/quill/ast"
	"github.com/quillscript/quill/lexer"
	"github.com/quillscript/quill/quillerr"
	"github.com/quillscript/quill/token"
)

// precedence levels, lowest to highest, matching the table in §4.2.
const (
	_ int = iota
	precLowest
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binPrecedence = map[token.Type]int{
	token.OR:      precOr,
	token.AND:     precAnd,
	token.EQ:      precEquality,
	token.NEQ:     precEquality,
	token.LT:      precRelational,
	token.GT:      precRelational,
	token.LE:      precRelational,
	token.GE:      precRelational,
	token.PLUS:    precAdditive,
	token.MINUS:   precAdditive,
	token.STAR:    precMultiplicative,
	token.SLASH:   precMultiplicative,
	token.PERCENT: precMultiplicative,
}

var binOps = map[token.Type]ast.BinOp{
	token.PLUS:    ast.OpAdd,
	token.MINUS:   ast.OpSub,
	token.STAR:    ast.OpMul,
	token.SLASH:   ast.OpDiv,
	token.PERCENT: ast.OpMod,
	token.EQ:      ast.OpEq,
	token.NEQ:     ast.OpNeq,
	token.LT:      ast.OpLt,
	token.GT:      ast.OpGt,
	token.LE:      ast.OpLe,
	token.GE:      ast.OpGe,
	token.AND:     ast.OpAnd,
	token.OR:      ast.OpOr,
}

// Parser holds the token lookahead and lexer state. pending buffers tokens
// fetched by a deeper lookahead (brace disambiguation) that advance() has
// not yet consumed, so looking further ahead never loses a token.
type Parser struct {
	lex     *lexer.Lexer
	cur     token.Token
	peek    token.Token
	pending []token.Token
}

// New creates a Parser over src, priming the two-token lookahead.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.nextRaw()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) nextRaw() (token.Token, error) {
	if len(p.pending) > 0 {
		t := p.pending[0]
		p.pending = p.pending[1:]
		return t, nil
	}
	return p.lex.NextToken()
}

// peekAhead returns the n-th pending token beyond p.peek (n=1 is the token
// right after p.peek), fetching from the lexer into the pending buffer
// without consuming it, so a later advance() still sees it.
func (p *Parser) peekAhead(n int) (token.Token, error) {
	for len(p.pending) < n {
		t, err := p.lex.NextToken()
		if err != nil {
			return token.Token{}, err
		}
		p.pending = append(p.pending, t)
	}
	return p.pending[n-1], nil
}

func (p *Parser) tokenAt(n int) (token.Token, error) {
	if n == 0 {
		return p.peek, nil
	}
	return p.peekAhead(n)
}

// isMapLiteral implements the brace-disambiguation rule from §4.2: true
// when the first non-newline token after '{' is a string immediately
// followed by ':'.
func (p *Parser) isMapLiteral() (bool, error) {
	i := 0
	for {
		t, err := p.tokenAt(i)
		if err != nil {
			return false, err
		}
		if t.Type != token.NEWLINE {
			if t.Type != token.STRING {
				return false, nil
			}
			next, err := p.tokenAt(i + 1)
			if err != nil {
				return false, err
			}
			return next.Type == token.COLON, nil
		}
		i++
	}
}

func (p *Parser) expect(t token.Type) error {
	if p.peek.Type != t {
		return p.unexpected(p.peek, string(t))
	}
	return p.advance()
}

func (p *Parser) unexpected(tok token.Token, expected string) error {
	if tok.Type == token.EOF {
		return quillerr.At(quillerr.Parse, tok.Line, tok.Column, "Unexpected token: Eof")
	}
	if expected == "" {
		return quillerr.At(quillerr.Parse, tok.Line, tok.Column, "Unexpected token: %s", tok.Type)
	}
	return quillerr.At(quillerr.Parse, tok.Line, tok.Column, "Expected %s, found %s", expected, tok.Type)
}

// skipNewlines consumes runs of Newline/Semi tokens — "runs of newlines
// collapse during parsing" per §3, and §4.2 calls this between statements
// and inside block/map bodies.
func (p *Parser) skipNewlines() error {
	for p.cur.Type == token.NEWLINE || p.cur.Type == token.SEMI {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// ParseProgram parses a whole source file into a Program, the top-level
// entry point used by both `run <path>` and the Transpiler/Evaluator
// drivers.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for p.cur.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if p.cur.Type != token.EOF {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.FN:
		return p.parseFuncDecl()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.USE:
		return p.parseUseStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.RUST:
		return p.parseForeignCodeBlock()
	}
	return p.parseExpressionOrAssignStatement()
}

func (p *Parser) parseLetStatement() (ast.Stmt, error) {
	tok := p.cur
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	name := p.cur.Literal
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.LetStmt{Base: ast.At(tok), Name: name, Value: value}, nil
}

func (p *Parser) parseExpressionOrAssignStatement() (ast.Stmt, error) {
	tok := p.cur
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.peek.Type == token.ASSIGN {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			return nil, p.unexpected(p.peek, "")
		}
		if err := p.advance(); err != nil { // consume '='
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Base: ast.At(tok), X: &ast.AssignExpr{Base: ast.At(tok), Name: ident.Name, Value: rhs}}, nil
	}
	return &ast.ExprStmt{Base: ast.At(tok), X: expr}, nil
}

func (p *Parser) parseFuncDecl() (ast.Stmt, error) {
	tok := p.cur
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	name := p.cur.Literal
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var body ast.Expr
	switch p.peek.Type {
	case token.ARROW:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	case token.LBRACE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err = p.parseBraceExpr()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected(p.peek, "'=>' or '{'")
	}
	return &ast.FuncDeclStmt{Base: ast.At(tok), Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	var params []string
	if p.peek.Type == token.RPAREN {
		return params, p.advance()
	}
	for {
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		params = append(params, p.cur.Literal)
		if p.peek.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return params, p.expect(token.RPAREN)
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	tok := p.cur
	if p.peek.Type == token.NEWLINE || p.peek.Type == token.EOF || p.peek.Type == token.SEMI || p.peek.Type == token.RBRACE {
		return &ast.ReturnStmt{Base: ast.At(tok)}, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Base: ast.At(tok), Value: v}, nil
}

func (p *Parser) parseWhileStatement() (ast.Stmt, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: ast.At(tok), Cond: cond, Body: body}, nil
}

func (p *Parser) parseForStatement() (ast.Stmt, error) {
	tok := p.cur
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	iter := p.cur.Literal
	if err := p.expect(token.IN); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Base: ast.At(tok), Iter: iter, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseUseStatement() (ast.Stmt, error) {
	tok := p.cur
	if p.peek.Type == token.CRATE {
		return p.parseForeignImport(tok)
	}
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	return &ast.UseStmt{Base: ast.At(tok), Module: p.cur.Literal}, nil
}

func (p *Parser) parseForeignImport(tok token.Token) (ast.Stmt, error) {
	if err := p.advance(); err != nil { // consume 'crate'
		return nil, err
	}
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	name := p.cur.Literal
	if err := p.expect(token.STRING); err != nil {
		return nil, err
	}
	version := p.cur.Literal
	alias := name
	if p.peek.Type == token.AS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		alias = p.cur.Literal
	}
	return &ast.ForeignImportStmt{Base: ast.At(tok), Name: name, Version: version, Alias: alias}, nil
}

func (p *Parser) parseImportStatement() (ast.Stmt, error) {
	tok := p.cur
	if err := p.expect(token.STRING); err != nil {
		return nil, err
	}
	path := p.cur.Literal
	alias := ""
	if p.peek.Type == token.AS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		alias = p.cur.Literal
	}
	return &ast.ImportStmt{Base: ast.At(tok), Path: path, Alias: alias}, nil
}

func (p *Parser) parseForeignCodeBlock() (ast.Stmt, error) {
	tok := p.cur
	if err := p.expect(token.TEMPLATE); err != nil {
		return nil, err
	}
	return &ast.ForeignCodeBlock{Base: ast.At(tok), Code: p.cur.Literal}, nil
}

// parseExpression implements precedence-climbing over the 9-level table.
func (p *Parser) parseExpression(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		left, err = p.parsePostfix(left)
		if err != nil {
			return nil, err
		}
		prec, ok := binPrecedence[p.peek.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		opTok := p.peek
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: ast.At(opTok), Op: binOps[opTok.Type], Left: left, Right: right}
	}
}

func (p *Parser) parsePrefix() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case token.INT:
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, quillerr.At(quillerr.Lex, tok.Line, tok.Column, "bad integer literal %q", tok.Literal)
		}
		return &ast.IntLit{Base: ast.At(tok), Value: n}, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, quillerr.At(quillerr.Lex, tok.Line, tok.Column, "bad float literal %q", tok.Literal)
		}
		return &ast.FloatLit{Base: ast.At(tok), Value: f}, nil
	case token.STRING:
		return &ast.StringLit{Base: ast.At(tok), Value: tok.Literal}, nil
	case token.TEMPLATE:
		return &ast.TemplateLit{Base: ast.At(tok), Raw: tok.Literal}, nil
	case token.TRUE:
		return &ast.BoolLit{Base: ast.At(tok), Value: true}, nil
	case token.FALSE:
		return &ast.BoolLit{Base: ast.At(tok), Value: false}, nil
	case token.NIL:
		return &ast.NullLit{Base: ast.At(tok)}, nil
	case token.IDENT:
		return &ast.Identifier{Base: ast.At(tok), Name: tok.Literal}, nil
	case token.NOT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.At(tok), Op: ast.OpNot, Operand: operand}, nil
	case token.MINUS:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.At(tok), Op: ast.OpNegate, Operand: operand}, nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseBraceExpr()
	case token.IF:
		return p.parseIfExpr()
	}
	return nil, p.unexpected(tok, "")
}

// parsePostfix handles call/index/method-call, the highest-precedence
// left-associative postfix operators in §4.2's table.
func (p *Parser) parsePostfix(left ast.Expr) (ast.Expr, error) {
	for {
		switch p.peek.Type {
		case token.LPAREN:
			tok := p.peek
			if err := p.advance(); err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			left = &ast.CallExpr{Base: ast.At(tok), Callee: left, Args: args}
		case token.LBRACKET:
			tok := p.peek
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			left = &ast.IndexExpr{Base: ast.At(tok), Receiver: left, Index: idx}
		case token.DOT:
			tok := p.peek
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expect(token.IDENT); err != nil {
				return nil, err
			}
			name := p.cur.Literal
			var args []ast.Expr
			if p.peek.Type == token.LPAREN {
				if err := p.advance(); err != nil {
					return nil, err
				}
				var err error
				args, err = p.parseArgList()
				if err != nil {
					return nil, err
				}
			}
			left = &ast.MethodCallExpr{Base: ast.At(tok), Receiver: left, Name: name, Args: args}
		default:
			return left, nil
		}
	}
}

// parseArgList parses a parenthesised argument list; p.cur is the '('.
func (p *Parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.peek.Type == token.RPAREN {
		return args, p.advance()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return args, p.expect(token.RPAREN)
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	tok := p.cur
	var elems []ast.Expr
	if p.peek.Type == token.RBRACKET {
		return &ast.ArrayLit{Base: ast.At(tok), Elements: elems}, p.advance()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		el, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.peek.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return &ast.ArrayLit{Base: ast.At(tok), Elements: elems}, p.expect(token.RBRACKET)
}

// parseBraceExpr implements the brace-disambiguation rule from §4.2: a map
// literal when the first non-newline token is a string followed by ':',
// otherwise a block expression. p.cur is the '{'.
func (p *Parser) parseBraceExpr() (ast.Expr, error) {
	tok := p.cur
	isMap, err := p.isMapLiteral()
	if err != nil {
		return nil, err
	}
	if isMap {
		return p.parseMapLit()
	}
	block, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	block.Base = ast.At(tok)
	return block, nil
}

func (p *Parser) parseMapLit() (ast.Expr, error) {
	tok := p.cur
	var entries []ast.MapEntry
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for p.cur.Type != token.RBRACE {
		if p.cur.Type != token.STRING {
			return nil, p.unexpected(p.cur, "string key")
		}
		key := p.cur.Literal
		if err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: val})
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == token.COMMA || p.cur.Type == token.NEWLINE || p.cur.Type == token.SEMI {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	return &ast.MapLit{Base: ast.At(tok), Entries: entries}, nil
}

// parseBlockBody parses statements up to the matching '}'; p.cur is the
// '{'. Its value is that of the last statement, if that statement is an
// expression statement.
func (p *Parser) parseBlockBody() (*ast.BlockExpr, error) {
	tok := p.cur
	block := &ast.BlockExpr{Base: ast.At(tok)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, p.unexpected(p.cur, "'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	return block, nil
}

func (p *Parser) parseIfExpr() (ast.Expr, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	ifExpr := &ast.IfExpr{Base: ast.At(tok), Cond: cond, Then: then}
	if p.peek.Type == token.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.peek.Type == token.IF {
			if err := p.advance(); err != nil {
				return nil, err
			}
			elseIf, err := p.parseIfExpr()
			if err != nil {
				return nil, err
			}
			ifExpr.Else = elseIf
			return ifExpr, nil
		}
		if err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		ifExpr.Else = elseBlock
	}
	return ifExpr, nil
}

// Parse is a convenience entry point used by tests and the REPL: parse a
// whole program from source text in one call.
func Parse(src string) (*ast.Program, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}
