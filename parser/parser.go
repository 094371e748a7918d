// Package parser implements Kaleidoscope's recursive-descent top level
// combined with precedence-climbing expression parsing (spec.md §4.2).
//
// The binary-operator precedence table is mutable: parsing a
// `def binary<op> <prec> (...) ...` prototype registers <op> into the
// table before the function's body is parsed, so the operator is in
// scope for recursive uses within its own definition (spec.md's Design
// Notes). This generalizes the fixed parseRule table in the teacher's
// compiler package into one keyed by arbitrary runes.
package parser

import (
	"fmt"

	"github.com/informatter/kaleidoscope/ast"
	"github.com/informatter/kaleidoscope/lexer"
	"github.com/informatter/kaleidoscope/token"
)

// defaultPrecedence seeds the table per spec.md §4.2. Notably '/' is
// absent — division is unavailable until a program defines `binary/`
// (spec.md's Open Questions).
func defaultPrecedence() map[rune]int {
	return map[rune]int{
		'=': 2,
		'<': 10,
		'+': 20,
		'-': 20,
		'*': 40,
	}
}

// Parser holds the cursor over an already-tokenized input plus the two
// pieces of mutable parse-time grammar state: the binary precedence
// table and the set of characters declared as unary operators.
type Parser struct {
	cursor     *lexer.Cursor
	precedence map[rune]int
	unaryOps   map[rune]bool
}

// New constructs a Parser over tokens, seeded with the builtin binary
// operator precedences.
func New(tokens []token.Token) *Parser {
	return &Parser{
		cursor:     lexer.NewCursor(tokens),
		precedence: defaultPrecedence(),
		unaryOps:   map[rune]bool{},
	}
}

// Reset points the parser at a new token stream while keeping the
// precedence table and unary-operator set accumulated so far — what a
// REPL needs to parse one line at a time yet still honor an operator a
// previous line defined (spec.md §9's REPL supplement).
func (p *Parser) Reset(tokens []token.Token) {
	p.cursor = lexer.NewCursor(tokens)
}

func (p *Parser) peek() token.Token    { return p.cursor.Peek() }
func (p *Parser) consume() token.Token { return p.cursor.Consume() }

func (p *Parser) expect(t token.Type, message string) (token.Token, error) {
	if p.peek().Type != t {
		return token.Token{}, newSyntaxError(p.peek().Line, message)
	}
	return p.consume(), nil
}

func (p *Parser) expectIdentifier(message string) (token.Token, error) {
	if p.peek().Type != token.IDENTIFIER {
		return token.Token{}, newSyntaxError(p.peek().Line, message)
	}
	return p.consume(), nil
}

func (p *Parser) expectOperator(op rune, message string) error {
	tok := p.peek()
	if tok.Type != token.OPERATOR || tok.Op != op {
		return newSyntaxError(tok.Line, message)
	}
	p.consume()
	return nil
}

func (p *Parser) isOperator(op rune) bool {
	tok := p.peek()
	return tok.Type == token.OPERATOR && tok.Op == op
}

// Parse consumes the whole token stream and returns the top-level
// items in source order (spec.md §8 invariant 2). Parsing aborts at
// the first error, per spec.md §7 — there is no per-item recovery.
func (p *Parser) Parse() ([]ast.TopLevelItem, error) {
	items := []ast.TopLevelItem{}
	for {
		for p.peek().Type == token.SEMICOLON {
			p.consume()
		}
		if p.peek().Type == token.EOF {
			break
		}

		var item ast.TopLevelItem
		var err error
		switch p.peek().Type {
		case token.DEF:
			item, err = p.parseDefinition()
		case token.EXTERN:
			item, err = p.parseExtern()
		default:
			item, err = p.parseTopExpr()
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Parser) parseDefinition() (ast.TopLevelItem, error) {
	p.consume() // 'def'
	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	p.consumeOptionalSemicolon()
	return ast.FunctionDef{Fn: &ast.Function{Proto: proto, Body: body}}, nil
}

func (p *Parser) parseExtern() (ast.TopLevelItem, error) {
	p.consume() // 'extern'
	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}
	p.consumeOptionalSemicolon()
	return ast.ExternDecl{Proto: proto}, nil
}

// parseTopExpr parses a bare expression. The parser itself wraps
// nothing here — wrapping the expression into the synthetic
// `_top_level_expr` function is codegen's job (spec.md §4.2), since the
// AST's TopExpr item already carries exactly the information needed.
func (p *Parser) parseTopExpr() (ast.TopLevelItem, error) {
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	p.consumeOptionalSemicolon()
	return ast.TopExpr{Expr: expr}, nil
}

func (p *Parser) consumeOptionalSemicolon() {
	if p.peek().Type == token.SEMICOLON {
		p.consume()
	}
}

// parsePrototype parses a plain, unary-operator, or binary-operator
// prototype (spec.md §4.2). For a binary-operator prototype, the new
// operator's precedence is registered into the table before this
// function returns — i.e. before the caller parses the definition's
// body — so recursive self-reference parses correctly. The same
// applies to a unary operator's character being registered as a known
// unary prefix.
func (p *Parser) parsePrototype() (*ast.Prototype, error) {
	switch p.peek().Type {
	case token.UNARY:
		p.consume()
		opTok := p.peek()
		if opTok.Type != token.OPERATOR {
			return nil, newSyntaxError(opTok.Line, "expected an operator character after 'unary'")
		}
		p.consume()
		if _, err := p.expect(token.LPAREN, "expected '(' in prototype"); err != nil {
			return nil, err
		}
		param, err := p.expectIdentifier("expected a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "expected ')' in prototype"); err != nil {
			return nil, err
		}
		p.unaryOps[opTok.Op] = true
		return &ast.Prototype{
			Name:   fmt.Sprintf("unary%c", opTok.Op),
			Params: []string{param.Ident},
			Kind:   ast.UnaryOperator,
			Op:     opTok.Op,
		}, nil

	case token.BINARY:
		p.consume()
		opTok := p.peek()
		if opTok.Type != token.OPERATOR {
			return nil, newSyntaxError(opTok.Line, "expected an operator character after 'binary'")
		}
		p.consume()
		precTok := p.peek()
		if precTok.Type != token.NUMBER {
			return nil, newSyntaxError(precTok.Line, "expected a precedence number after binary operator")
		}
		p.consume()
		prec := int(precTok.Num)
		if prec <= 0 {
			return nil, newSyntaxError(precTok.Line, "operator precedence must be greater than 0")
		}
		if _, err := p.expect(token.LPAREN, "expected '(' in prototype"); err != nil {
			return nil, err
		}
		lhsName, err := p.expectIdentifier("expected first parameter name")
		if err != nil {
			return nil, err
		}
		rhsName, err := p.expectIdentifier("expected second parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "expected ')' in prototype"); err != nil {
			return nil, err
		}
		p.precedence[opTok.Op] = prec
		return &ast.Prototype{
			Name:       fmt.Sprintf("binary%c", opTok.Op),
			Params:     []string{lhsName.Ident, rhsName.Ident},
			Kind:       ast.BinaryOperator,
			Op:         opTok.Op,
			Precedence: prec,
		}, nil

	case token.IDENTIFIER:
		nameTok := p.consume()
		if _, err := p.expect(token.LPAREN, "expected '(' in prototype"); err != nil {
			return nil, err
		}
		params := []string{}
		for p.peek().Type == token.IDENTIFIER {
			params = append(params, p.consume().Ident)
		}
		if _, err := p.expect(token.RPAREN, "expected ')' in prototype"); err != nil {
			return nil, err
		}
		return &ast.Prototype{Name: nameTok.Ident, Params: params, Kind: ast.PlainFunction}, nil

	default:
		return nil, newSyntaxError(p.peek().Line, "expected function name in prototype")
	}
}

// parseExpr is the precedence-climbing entry point: parse a unary
// primary, then fold in any binary operators at or above minPrec
// (spec.md §4.2).
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseUnaryPrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(minPrec, lhs)
}

func (p *Parser) currentOperatorPrecedence() (rune, int, bool) {
	tok := p.peek()
	if tok.Type != token.OPERATOR {
		return 0, 0, false
	}
	prec, ok := p.precedence[tok.Op]
	if !ok {
		return 0, 0, false
	}
	return tok.Op, prec, true
}

func (p *Parser) parseBinaryRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		op, prec, isBinOp := p.currentOperatorPrecedence()
		if !isBinOp || prec < minPrec {
			return lhs, nil
		}
		opLine := p.peek().Line
		p.consume()

		rhs, err := p.parseUnaryPrimary()
		if err != nil {
			return nil, err
		}

		if _, nextPrec, nextIsBinOp := p.currentOperatorPrecedence(); nextIsBinOp && prec < nextPrec {
			rhs, err = p.parseBinaryRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		if op == '=' {
			v, ok := lhs.(ast.Variable)
			if !ok {
				return nil, newSyntaxError(opLine, "destination of '=' must be a variable")
			}
			lhs = ast.Assign{Name: v.Name, Value: rhs}
		} else {
			lhs = ast.Binary{Op: op, LHS: lhs, RHS: rhs}
		}
	}
}

// parseUnaryPrimary parses `opchar unary` when the current token is a
// known user-defined unary operator, else falls through to primary
// (spec.md §4.2).
func (p *Parser) parseUnaryPrimary() (ast.Expr, error) {
	tok := p.peek()
	if tok.Type == token.OPERATOR && p.unaryOps[tok.Op] {
		p.consume()
		operand, err := p.parseUnaryPrimary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: tok.Op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.NUMBER:
		p.consume()
		return ast.Number{Value: tok.Num}, nil

	case token.LPAREN:
		p.consume()
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.IDENTIFIER:
		p.consume()
		if p.peek().Type != token.LPAREN {
			return ast.Variable{Name: tok.Ident}, nil
		}
		p.consume() // '('
		args := []ast.Expr{}
		if p.peek().Type != token.RPAREN {
			for {
				arg, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.peek().Type == token.COMMA {
					p.consume()
					continue
				}
				break
			}
		}
		if _, err := p.expect(token.RPAREN, "expected ')' or ',' in argument list"); err != nil {
			return nil, err
		}
		return ast.Call{Callee: tok.Ident, Args: args}, nil

	case token.IF:
		return p.parseIf()

	case token.FOR:
		return p.parseFor()

	case token.VAR:
		return p.parseVar()

	default:
		return nil, newSyntaxError(tok.Line, fmt.Sprintf("unexpected token when expecting an expression: %s", tok))
	}
}

func (p *Parser) parseIf() (ast.Expr, error) {
	p.consume() // 'if'
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN, "expected 'then'"); err != nil {
		return nil, err
	}
	thenBr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "expected 'else'"); err != nil {
		return nil, err
	}
	elseBr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.If{Cond: cond, Then: thenBr, Else: elseBr}, nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	p.consume() // 'for'
	nameTok, err := p.expectIdentifier("expected loop variable name after 'for'")
	if err != nil {
		return nil, err
	}
	if err := p.expectOperator('=', "expected '=' after for variable"); err != nil {
		return nil, err
	}
	start, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, "expected ',' after for start value"); err != nil {
		return nil, err
	}
	end, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	if p.peek().Type == token.COMMA {
		p.consume()
		step, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.IN, "expected 'in' after for"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.For{Var: nameTok.Ident, Start: start, End: end, Step: step, Body: body}, nil
}

func (p *Parser) parseVar() (ast.Expr, error) {
	p.consume() // 'var'
	bindings := []ast.Binding{}
	for {
		nameTok, err := p.expectIdentifier("expected a variable name after 'var'")
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if p.isOperator('=') {
			p.consume()
			init, err = p.parseExpr(0)
			if err != nil {
				return nil, err
			}
		}
		bindings = append(bindings, ast.Binding{Name: nameTok.Ident, Init: init})
		if p.peek().Type == token.COMMA {
			p.consume()
			continue
		}
		break
	}
	if _, err := p.expect(token.IN, "expected 'in' after var bindings"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.VarExpr{Bindings: bindings, Body: body}, nil
}
