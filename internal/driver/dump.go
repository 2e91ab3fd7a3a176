package driver

import (
	"errors"

	"esfix/internal/ast"
	"esfix/internal/diag"
	"esfix/internal/lexer"
	"esfix/internal/parser"
	"esfix/internal/source"
	"esfix/internal/token"
)

// Dump is one file taken through the front end only, for `esfix tokenize`
// and `esfix parse`. Problems found on the way are in Bag.
type Dump struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   []token.Token
	Comments []token.Comment
	// Program stays nil after Tokenize and when the file has a syntax error.
	Program *ast.Node
	Bag     *diag.Bag
}

func loadDump(path string, maxDiagnostics int) (*Dump, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return &Dump{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}, nil
}

// Tokenize lexes path. Lexical errors are collected and lexing goes on.
func Tokenize(path string, maxDiagnostics int) (*Dump, error) {
	d, err := loadDump(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	d.Tokens, d.Comments = lexer.Tokenize(d.File, lexer.Options{Reporter: diag.BagReporter{Bag: d.Bag}})
	return d, nil
}

// Parse lexes and parses path. A syntax error is not an error here: it is
// the single diagnostic of the Bag and Program is nil.
func Parse(path string, maxDiagnostics int) (*Dump, error) {
	d, err := loadDump(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	res, err := parser.ParseFile(d.File, parser.Options{})
	var se *parser.SyntaxError
	switch {
	case errors.As(err, &se):
		d.Bag.Add(se.Diagnostic())
	case err != nil:
		return nil, err
	default:
		d.Program, d.Tokens, d.Comments = res.Program, res.Tokens, res.Comments
	}
	return d, nil
}
