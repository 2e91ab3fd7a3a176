package parser

import (
	"errors"
	"fmt"
	"slices"

	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/lexer"
	"esfix/internal/source"
	"esfix/internal/token"
)

// ErrSyntax is wrapped by every error ParseFile returns for malformed input.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes the first lexical or syntax error in a file.
type SyntaxError struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code.ID(), e.Span, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Diagnostic converts the error into a fatal diagnostic.
func (e *SyntaxError) Diagnostic() *diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	return &d
}

type Options struct {
	// Reporter receives the syntax error, if any, in addition to the returned error.
	Reporter diag.Reporter
}

// Result is a parsed file: the Program node plus the token and comment
// streams it was built from.
type Result struct {
	Program  *ast.Node
	Tokens   []token.Token
	Comments []token.Comment
}

// Parser: состояние парсера на один файл
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	eof  token.Token
	opts Options

	inFunction  bool
	inAsync     bool
	inGenerator bool

	lastEnd uint32 // конец последнего съеденного токена
}

// bailout прерывает разбор на первой ошибке; ловится в ParseFile.
type bailout struct{ err *SyntaxError }

// ParseFile parses file as an ECMAScript module. Parsing stops at the first
// error, which is returned as a *SyntaxError wrapping ErrSyntax.
func ParseFile(file *source.File, opts Options) (res *Result, err error) {
	lexBag := diag.NewBag(1)
	toks, comments := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: lexBag}})
	if lexBag.Len() > 0 {
		first := lexBag.Items()[0]
		return nil, report(opts, &SyntaxError{Code: first.Code, Span: first.Primary, Msg: first.Message})
	}

	end := file.Len()
	p := &Parser{
		file: file,
		toks: toks,
		eof:  token.Token{Kind: token.EOF, Span: source.Point(file.ID, end)},
		opts: opts,
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			res, err = nil, report(opts, b.err)
		}
	}()

	program := p.parseProgram()
	ast.SetParents(program)
	return &Result{Program: program, Tokens: toks, Comments: comments}, nil
}

func report(opts Options, e *SyntaxError) error {
	diag.Emit(opts.Reporter, *e.Diagnostic())
	return e
}

func (p *Parser) parseProgram() *ast.Node {
	n := &ast.Node{Kind: ast.Program, Span: source.Span{File: p.file.ID, Start: 0, End: p.file.Len()}}
	for !p.at(token.EOF) {
		n.Stmts = append(n.Stmts, p.parseStatementListItem())
	}
	return n
}

// ===== токены =====

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.eof
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atValue: идентификатор (в т.ч. контекстное слово) с данным текстом.
func (p *Parser) atValue(v string) bool {
	t := p.peek()
	return t.Kind == token.Ident && t.Text == v
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastEnd = tok.Span.End
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eatValue(v string) bool {
	if p.atValue(v) {
		p.advance()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен, иначе ошибка разбора.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.unexpected(fmt.Sprintf("expected %q", k.String()))
	}
	return p.advance()
}

func (p *Parser) expectValue(v string) token.Token {
	if !p.atValue(v) {
		p.unexpected(fmt.Sprintf("expected %q", v))
	}
	return p.advance()
}

// consumeSemicolon реализует автоматическую вставку ';': точка с запятой
// необязательна перед '}', в конце файла и после перевода строки.
func (p *Parser) consumeSemicolon() {
	if p.eat(token.Semicolon) {
		return
	}
	tok := p.peek()
	if tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NewlineBefore {
		return
	}
	p.fail(diag.SynExpectSemicolon, tok.Span, "missing semicolon")
}

func (p *Parser) unexpected(hint string) {
	tok := p.peek()
	msg := "unexpected end of input"
	if tok.Kind != token.EOF {
		msg = fmt.Sprintf("unexpected token %q", tok.Text)
	}
	if hint != "" {
		msg += ", " + hint
	}
	p.fail(diag.SynUnexpectedToken, tok.Span, msg)
}

func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	panic(bailout{err: &SyntaxError{Code: code, Span: sp, Msg: msg}})
}

// ===== узлы =====

func (p *Parser) start() uint32 {
	return p.peek().Span.Start
}

func (p *Parser) node(kind ast.Kind, start uint32) *ast.Node {
	return &ast.Node{Kind: kind, Span: source.Span{File: p.file.ID, Start: start, End: start}}
}

// done закрывает узел концом последнего съеденного токена.
func (p *Parser) done(n *ast.Node) *ast.Node {
	n.Span.End = p.lastEnd
	return n
}

func (p *Parser) ident(tok token.Token) *ast.Node {
	return &ast.Node{Kind: ast.Identifier, Span: tok.Span, Name: tok.Text}
}

// context сохраняет флаги функции для вложенного тела.
type context struct {
	inFunction, inAsync, inGenerator bool
}

func (p *Parser) enterFunction(async, generator bool) context {
	saved := context{p.inFunction, p.inAsync, p.inGenerator}
	p.inFunction, p.inAsync, p.inGenerator = true, async, generator
	return saved
}

func (p *Parser) leaveFunction(c context) {
	p.inFunction, p.inAsync, p.inGenerator = c.inFunction, c.inAsync, c.inGenerator
}

// matchingParen возвращает индекс ')' парного к '(' на позиции i, или -1.
func (p *Parser) matchingParen(i int) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
