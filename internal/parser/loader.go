package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// GrammarLoader owns the statically linked tree-sitter grammars. Only the
// Python grammar is carried; notebooks reuse it cell by cell.
type GrammarLoader struct {
	python *sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		python: sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

func (gl *GrammarLoader) Python() *sitter.Language {
	return gl.python
}
