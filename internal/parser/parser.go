package parser

import (
	"os"
	"path/filepath"

	"reqscan/internal/scanerr"
)

// Parser turns one candidate file into a Result. All failures come back as
// tagged Result errors; nothing here aborts a batch.
type Parser struct {
	loader *GrammarLoader
}

func New(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

// ExtractFile reads and parses a single candidate file. Notebooks are
// dispatched on extension; everything else is treated as Python source,
// since explicitly supplied files are trusted whatever their suffix.
func (p *Parser) ExtractFile(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Discovery already stat-ed this path, so a failure here is
		// usually permissions or a racing delete, not absence.
		code := scanerr.CodeInternal
		if os.IsNotExist(err) {
			code = scanerr.CodePathNotFound
		}
		return failure(path, scanerr.Wrap(err, code, "cannot read file"))
	}

	if filepath.Ext(path) == ".ipynb" {
		names, err := p.parseNotebook(path, raw)
		if err != nil {
			return failure(path, err)
		}
		return success(path, names)
	}

	source, err := decode(raw)
	if err != nil {
		return failure(path, err)
	}

	names, err := p.parsePython(source)
	if err != nil {
		return failure(path, err)
	}
	return success(path, names)
}
