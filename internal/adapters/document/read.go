// Package document turns uploaded manifests (PDF, spreadsheet, plain text)
// into domain.Document values ready for address extraction.
package document

import (
	"errors"
	"fmt"
	"manifest-route-service/internal/domain"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedDocument is returned for file types no reader handles.
var ErrUnsupportedDocument = errors.New("unsupported document type")

// TabularOptions locate the address column in spreadsheet manifests.
// StartRow is 1-based; AddressColumn is a letter designator ("C") or a 1-based number ("3").
type TabularOptions struct {
	StartRow      int
	AddressColumn string
}

func (o TabularOptions) withDefaults() TabularOptions {
	if o.StartRow < 1 {
		o.StartRow = 1
	}
	if strings.TrimSpace(o.AddressColumn) == "" {
		o.AddressColumn = "A"
	}
	return o
}

// ReadDocument picks a reader by the extension of name.
func ReadDocument(name string, data []byte, opts TabularOptions) (domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".pdf":
		lines, err := readPDF(data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("read %q: %w", name, err)
		}
		return domain.Document{Kind: domain.DocumentFreeText, Lines: lines}, nil

	case ".xlsx", ".xlsm":
		rows, err := readSpreadsheet(data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("read %q: %w", name, err)
		}
		opts = opts.withDefaults()
		return domain.Document{
			Kind:          domain.DocumentTabular,
			Rows:          rows,
			StartRow:      opts.StartRow,
			AddressColumn: opts.AddressColumn,
		}, nil

	case ".txt":
		return domain.Document{Kind: domain.DocumentFreeText, Lines: readText(data)}, nil
	}

	return domain.Document{}, fmt.Errorf("read %q: extension %q: %w", name, ext, ErrUnsupportedDocument)
}

// ReadFile is ReadDocument for a path on disk.
func ReadFile(path string, opts TabularOptions) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %q: %w", path, err)
	}
	return ReadDocument(path, data, opts)
}

func readText(data []byte) []string {
	s := strings.TrimPrefix(string(data), "\ufeff")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
