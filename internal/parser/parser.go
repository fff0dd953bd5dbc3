// Package parser implements the recursive-descent, precedence-climbing
// parser of spec.md §4.2, turning a token stream into the AST of
// internal/ast.
package parser

import (
	"fmt"

	"github.com/miningape/exprlang/internal/ast"
	"github.com/miningape/exprlang/internal/errors"
	"github.com/miningape/exprlang/internal/lexer"
)

// Parser holds the whole pre-scanned token stream plus a read position, the
// "implicit position automaton (tokens, index)" of spec.md §4.7. Scanning
// eagerly (rather than streaming from the lexer) is what lets Assign and
// the parenthesized-expression/function-definition ambiguity peek past the
// current token before committing to a production.
type Parser struct {
	tokens []lexer.Token
	index  int
	source string
	file   string
}

// New pre-scans input with lex and returns a Parser ready to produce a
// Program. A lex error aborts immediately, matching spec.md §7's "errors
// are surfaced immediately" policy.
func New(input, file string) (*Parser, *errors.CompilerError) {
	tokens, err := lexer.All(input)
	if err != nil {
		le, _ := err.(*lexer.LexError)
		return nil, errors.NewLexError(le.Pos, le.Message, input, file)
	}
	return &Parser{tokens: tokens, source: input, file: file}, nil
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.index] }
func (p *Parser) atEnd() bool       { return p.cur().Type == lexer.FIN }
func (p *Parser) peek(n int) lexer.Token {
	idx := p.index + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.index++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, *errors.CompilerError) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf(p.cur().Pos, "expected %s but got %s %q", tt, p.cur().Type, p.cur().Literal)
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) *errors.CompilerError {
	return errors.NewParseError(pos, fmt.Sprintf(format, args...), p.source, p.file)
}

// ParseProgram parses the full semicolon-terminated expression sequence.
func (p *Parser) ParseProgram() (*ast.Program, *errors.CompilerError) {
	program := &ast.Program{}
	for !p.atEnd() {
		expr, err := p.statement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		program.Expressions = append(program.Expressions, expr)
	}
	return program, nil
}

// statement is precedence level 1: let-declarations and if-expressions sit
// above assignment.
func (p *Parser) statement() (ast.Expression, *errors.CompilerError) {
	switch p.cur().Type {
	case lexer.LET:
		return p.declare()
	case lexer.IF:
		return p.ifExpr()
	case lexer.RETURN:
		return p.returnExpr()
	default:
		return p.assignment()
	}
}

// returnExpr parses `return;` and `return expr;`. A bare `return` is
// recognised by a `;` following directly.
func (p *Parser) returnExpr() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume 'return'
	if p.check(lexer.SEMICOLON) {
		return &ast.Return{Pos_: pos}, nil
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value, Pos_: pos}, nil
}

func (p *Parser) declare() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume 'let'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	var annotation *ast.Annotation
	if p.match(lexer.COLON) {
		mutable := p.match(lexer.MUTABLE)
		typeExpr, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		annotation = &ast.Annotation{Mutable: mutable, Type: typeExpr}
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	initializer, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.Declare{Key: name.Literal, Annotation: annotation, Initializer: initializer, Pos_: pos}, nil
}

func (p *Parser) ifExpr() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume 'if'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Expression
	if p.match(lexer.ELSE) {
		elseBranch, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Condition: cond, Then: then, Else: elseBranch, Pos_: pos}, nil
}

// expression is the entry point used by sub-expression positions (call
// arguments, body children, operands) — it still allows let/if so that,
// e.g., a body's trailing expression may itself be an if-expression.
func (p *Parser) expression() (ast.Expression, *errors.CompilerError) {
	return p.statement()
}

// assignment is precedence level 2. It peeks two tokens (IDENT, ASSIGN)
// without consuming before committing, per spec.md §4.7's only true
// backtrack besides the function-definition ambiguity.
func (p *Parser) assignment() (ast.Expression, *errors.CompilerError) {
	if p.check(lexer.IDENT) && p.peek(1).Type == lexer.ASSIGN {
		name := p.advance()
		p.advance() // consume '='
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Key: name.Literal, Value: value, Pos_: name.Pos}, nil
	}
	return p.or()
}

func (p *Parser) or() (ast.Expression, *errors.CompilerError) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PIPE) {
		pos := p.advance().Pos
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BinaryOr, Left: left, Right: right, Pos_: pos}
	}
	return left, nil
}

func (p *Parser) and() (ast.Expression, *errors.CompilerError) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AMP) {
		pos := p.advance().Pos
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.BinaryAnd, Left: left, Right: right, Pos_: pos}
	}
	return left, nil
}

func (p *Parser) equality() (ast.Expression, *errors.CompilerError) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.EQUAL_EQUAL) || p.check(lexer.NOT_EQUAL) {
		op := ast.BinaryEq
		if p.cur().Type == lexer.NOT_EQUAL {
			op = ast.BinaryNotEq
		}
		pos := p.advance().Pos
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos_: pos}
	}
	return left, nil
}

func (p *Parser) relational() (ast.Expression, *errors.CompilerError) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur().Type {
		case lexer.LESS:
			op = ast.BinaryLess
		case lexer.LESS_EQUAL:
			op = ast.BinaryLessEq
		case lexer.GREATER:
			op = ast.BinaryGreater
		case lexer.GREATER_EQUAL:
			op = ast.BinaryGreaterEq
		default:
			return left, nil
		}
		pos := p.advance().Pos
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos_: pos}
	}
}

func (p *Parser) additive() (ast.Expression, *errors.CompilerError) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := ast.BinaryAdd
		if p.cur().Type == lexer.MINUS {
			op = ast.BinarySub
		}
		pos := p.advance().Pos
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos_: pos}
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Expression, *errors.CompilerError) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.ASTERISK) || p.check(lexer.SLASH) {
		op := ast.BinaryMul
		if p.cur().Type == lexer.SLASH {
			op = ast.BinaryDiv
		}
		pos := p.advance().Pos
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos_: pos}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expression, *errors.CompilerError) {
	switch p.cur().Type {
	case lexer.MINUS:
		pos := p.advance().Pos
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryMinus, Operand: operand, Pos_: pos}, nil
	case lexer.BANG:
		pos := p.advance().Pos
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryNot, Operand: operand, Pos_: pos}, nil
	default:
		return p.call()
	}
}

// call consumes zero or more parenthesized argument lists following a base
// expression, left-associatively: `f(a)(b)` is Call(Call(f, [a]), [b]).
func (p *Parser) call() (ast.Expression, *errors.CompilerError) {
	expr, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.LPAREN) {
		pos := p.advance().Pos
		var args []ast.Expression
		if !p.check(lexer.RPAREN) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		expr = &ast.Call{Target: expr, Arguments: args, Pos_: pos}
	}
	return expr, nil
}

func (p *Parser) atom() (ast.Expression, *errors.CompilerError) {
	tok := p.cur()
	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		return &ast.Variable{Name: tok.Literal, Pos_: tok.Pos}, nil
	case lexer.NUMBER:
		p.advance()
		var f float32
		fmt.Sscanf(tok.Literal, "%g", &f)
		return &ast.Literal{Kind: ast.LiteralNumber, Number: f, Pos_: tok.Pos}, nil
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Kind: ast.LiteralString, Str: tok.Literal, Pos_: tok.Pos}, nil
	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Kind: ast.LiteralBoolean, Bool: true, Pos_: tok.Pos}, nil
	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Kind: ast.LiteralBoolean, Bool: false, Pos_: tok.Pos}, nil
	case lexer.NULL:
		p.advance()
		return &ast.Literal{Kind: ast.LiteralNull, Pos_: tok.Pos}, nil
	case lexer.LBRACE:
		return p.body()
	case lexer.LPAREN:
		return p.parenOrFunction()
	case lexer.LBRACKET:
		return p.listLiteral()
	default:
		return nil, p.errorf(tok.Pos, "unexpected token %s %q", tok.Type, tok.Literal)
	}
}

func (p *Parser) listLiteral() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume '['
	var elements []ast.Expression
	if !p.check(lexer.RBRACKET) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Elements: elements, Pos_: pos}, nil
}

func (p *Parser) body() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume '{'
	var children []ast.Expression
	for !p.check(lexer.RBRACE) {
		if p.atEnd() {
			return nil, p.errorf(p.cur().Pos, "unterminated body, expected %s", lexer.RBRACE)
		}
		child, err := p.statement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	p.advance() // consume '}'
	return &ast.Body{Children: children, Pos_: pos}, nil
}

// parenOrFunction resolves the ambiguity of spec.md §4.2 "Function-definition
// disambiguation": a typed parameter list followed by `=>` is a function
// literal; anything else inside parentheses is a grouped sub-expression
// (which, for a single bare identifier, is indistinguishable from — and so
// doubles as — the backward-compatible sole-variable-reference form).
func (p *Parser) parenOrFunction() (ast.Expression, *errors.CompilerError) {
	pos := p.advance().Pos // consume '('

	if p.check(lexer.RPAREN) {
		p.advance()
		return p.finishFunction(pos, nil)
	}

	if p.check(lexer.IDENT) && p.peek(1).Type == lexer.COLON {
		params, err := p.functionParams()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return p.finishFunction(pos, params)
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) functionParams() ([]ast.Parameter, *errors.CompilerError) {
	var params []ast.Parameter
	for {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: name.Literal, Type: ty})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return params, nil
}

// finishFunction parses the optional `: returnType`, the mandatory `=>`,
// and the body, after the parameter list has already been consumed.
func (p *Parser) finishFunction(pos lexer.Position, params []ast.Parameter) (ast.Expression, *errors.CompilerError) {
	var returnType ast.TypeExpr
	if p.match(lexer.COLON) {
		ty, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		returnType = ty
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Parameters: params, ReturnType: returnType, Body: body, Pos_: pos}, nil
}

// typeExpr implements the annotation grammar of spec.md §4.2.
func (p *Parser) typeExpr() (ast.TypeExpr, *errors.CompilerError) {
	left, err := p.typeBase()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PIPE) {
		p.advance()
		right, err := p.typeBase()
		if err != nil {
			return nil, err
		}
		left = &ast.OrTypeExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) typeBase() (ast.TypeExpr, *errors.CompilerError) {
	switch p.cur().Type {
	case lexer.ANY:
		p.advance()
		return &ast.BaseTypeExpr{Kind: ast.TypeAny}, nil
	case lexer.NULL:
		p.advance()
		return &ast.BaseTypeExpr{Kind: ast.TypeNull}, nil
	case lexer.NUMBER_TYPE:
		p.advance()
		return &ast.BaseTypeExpr{Kind: ast.TypeNumber}, nil
	case lexer.STRING_TYPE:
		p.advance()
		return &ast.BaseTypeExpr{Kind: ast.TypeString}, nil
	case lexer.BOOLEAN_TYPE:
		p.advance()
		return &ast.BaseTypeExpr{Kind: ast.TypeBoolean}, nil
	case lexer.LPAREN:
		p.advance()
		var params []ast.TypeExpr
		if !p.check(lexer.RPAREN) {
			for {
				param, err := p.typeExpr()
				if err != nil {
					return nil, err
				}
				params = append(params, param)
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ARROW); err != nil {
			return nil, err
		}
		ret, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionTypeExpr{Params: params, Return: ret}, nil
	default:
		return nil, p.errorf(p.cur().Pos, "expected a type but got %s %q", p.cur().Type, p.cur().Literal)
	}
}
