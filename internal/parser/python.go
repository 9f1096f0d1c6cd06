package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"reqscan/internal/scanerr"
)

// parsePython parses decoded Python source and collects the first dotted
// segment of every imported module. A tree containing syntax errors
// contributes no names, matching the all-or-nothing per-unit rule.
func (p *Parser) parsePython(source []byte) (map[string]struct{}, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.loader.Python())

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, scanerr.New(scanerr.CodeSyntaxFailure, "tree-sitter returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, scanerr.New(scanerr.CodeSyntaxFailure, "source contains syntax errors")
	}

	names := make(map[string]struct{})
	collectImports(root, source, names)
	return names, nil
}

func collectImports(node *sitter.Node, source []byte, names map[string]struct{}) {
	switch node.Kind() {
	case "import_statement":
		// import a.b, c as d
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			switch child.Kind() {
			case "dotted_name", "identifier":
				addTopLevel(names, nodeText(child, source))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					addTopLevel(names, nodeText(name, source))
				}
			}
		}
	case "import_from_statement":
		// from a.b import c — the source module pins the dependency, not
		// the imported symbols. Relative imports name local modules and
		// are skipped.
		if module := node.ChildByFieldName("module_name"); module != nil {
			if module.Kind() != "relative_import" {
				addTopLevel(names, nodeText(module, source))
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		collectImports(node.Child(i), source, names)
	}
}

func addTopLevel(names map[string]struct{}, module string) {
	module = strings.TrimSpace(module)
	if module == "" || strings.HasPrefix(module, ".") {
		return
	}
	if top, _, ok := strings.Cut(module, "."); ok {
		module = top
	}
	if module != "" {
		names[module] = struct{}{}
	}
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
