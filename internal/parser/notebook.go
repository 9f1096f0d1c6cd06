package parser

import (
	"encoding/json"
	"log/slog"
	"strings"

	"reqscan/internal/scanerr"
)

type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string     `json:"cell_type"`
	Source   cellSource `json:"source"`
}

// cellSource accepts both nbformat encodings of cell text: a single string
// or a list of line strings.
type cellSource string

func (s *cellSource) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = cellSource(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*s = cellSource(strings.Join(lines, ""))
	return nil
}

// parseNotebook extracts imports from every code cell of a notebook. One
// malformed cell only loses that cell's names; structural failures
// (invalid JSON, no cells) fail the whole file.
func (p *Parser) parseNotebook(path string, raw []byte) (map[string]struct{}, error) {
	var nb notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return nil, scanerr.Wrap(err, scanerr.CodeNotebookStructure, "notebook is not valid JSON")
	}
	if len(nb.Cells) == 0 {
		return nil, scanerr.New(scanerr.CodeNotebookStructure, "notebook has no cells")
	}

	names := make(map[string]struct{})
	for i, cell := range nb.Cells {
		if cell.CellType != "code" {
			continue
		}

		cellNames, err := p.parsePython([]byte(cell.Source))
		if err != nil {
			slog.Warn("skipping malformed notebook cell", "path", path, "cell", i, "error", err)
			continue
		}
		for name := range cellNames {
			names[name] = struct{}{}
		}
	}

	return names, nil
}
