package services

import (
	"fmt"
	"manifest-route-service/internal/domain"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// "<customer code> 0 <address and trailing columns>", typical of manifest exports.
	codeZeroPattern = regexp.MustCompile(`^\d+\s+0\s+(.+)`)
	columnGap       = regexp.MustCompile(`\s{2,}`)
	// "10:00 A 23:00" and everything after it.
	trailingClock = regexp.MustCompile(`\s+\d{1,2}:\d{2}.*$`)
	// "9 a 14" and everything after it.
	trailingHourRange = regexp.MustCompile(`\s+\d{1,2}\s+[aA]\s+\d{1,2}.*$`)
	// "GAONA 2759 14": a package count bleeding in after the house number.
	trailingCount = regexp.MustCompile(`^(.+\d)\s+\d+$`)
)

// Extractor turns manifest content into ordered address candidates.
// It never fails: zero stops signals that nothing usable was found.
type Extractor struct {
	// Bare lines must be longer than this to be accepted as addresses.
	MinBareLength int
	// Lines containing any of these tokens are headers or footers.
	IgnoreTokens []string
	// Label prefix for stops whose manifest carries no name.
	LabelPrefix string
	// Label for low-confidence bare-line candidates.
	BareLabel string
}

func NewExtractor() *Extractor {
	return &Extractor{
		MinBareLength: 10,
		IgnoreTokens:  []string{"Cód.Cli", "Importe", "Page"},
		LabelPrefix:   "Customer",
		BareLabel:     "Possible address",
	}
}

// Extract dispatches on the document shape.
func (e *Extractor) Extract(doc domain.Document) []domain.RawStop {
	switch doc.Kind {
	case domain.DocumentTabular:
		return e.ExtractRows(doc.Rows, doc.StartRow, doc.AddressColumn)
	default:
		return e.ExtractLines(doc.Lines)
	}
}

// ExtractRows reads one column starting at a 1-based row. Each non-blank
// cell becomes one stop with a synthesized label.
func (e *Extractor) ExtractRows(rows [][]string, startRow int, column string) []domain.RawStop {
	col, err := ColumnIndex(column)
	if err != nil {
		return []domain.RawStop{}
	}
	if startRow < 1 {
		startRow = 1
	}

	stops := []domain.RawStop{}
	for i := startRow - 1; i < len(rows); i++ {
		row := rows[i]
		if col >= len(row) {
			continue
		}

		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		stops = append(stops, domain.RawStop{
			Label:      e.label(len(stops) + 1),
			RawAddress: val,
		})
	}

	return stops
}

// ExtractLines applies the free-text heuristics to each line in order.
// For every line the first matching heuristic wins; unmatched lines are dropped.
func (e *Extractor) ExtractLines(lines []string) []domain.RawStop {
	stops := []domain.RawStop{}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if addr, ok := matchCodeZero(line); ok {
			stops = append(stops, domain.RawStop{Label: e.label(len(stops) + 1), RawAddress: addr})
			continue
		}

		if label, addr, ok := splitLabeled(line); ok {
			stops = append(stops, domain.RawStop{Label: label, RawAddress: addr})
			continue
		}

		if e.acceptBare(line) {
			stops = append(stops, domain.RawStop{Label: e.BareLabel, RawAddress: line})
		}
	}

	return stops
}

func (e *Extractor) label(n int) string {
	return fmt.Sprintf("%s %d", e.LabelPrefix, n)
}

func (e *Extractor) acceptBare(line string) bool {
	for _, tok := range e.IgnoreTokens {
		if strings.Contains(line, tok) {
			return false
		}
	}
	return len([]rune(line)) > e.MinBareLength
}

func matchCodeZero(line string) (string, bool) {
	m := codeZeroPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	payload := strings.TrimSpace(m[1])
	addr := columnGap.Split(payload, 2)[0]

	addr = trailingClock.ReplaceAllString(addr, "")
	addr = trailingHourRange.ReplaceAllString(addr, "")
	if sm := trailingCount.FindStringSubmatch(addr); sm != nil {
		addr = sm[1]
	}

	addr = strings.TrimSpace(addr)
	return addr, addr != ""
}

// splitLabeled handles "label - address", "label — address" and "label, address".
func splitLabeled(line string) (string, string, bool) {
	for _, sep := range []string{" - ", " — "} {
		if strings.Contains(line, sep) {
			return joinParts(strings.Split(line, sep), " ")
		}
	}
	if strings.Contains(line, ",") {
		return joinParts(strings.Split(line, ","), ", ")
	}
	return "", "", false
}

func joinParts(parts []string, glue string) (string, string, bool) {
	if len(parts) < 2 {
		return "", "", false
	}

	rest := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			rest = append(rest, p)
		}
	}

	label := strings.TrimSpace(parts[0])
	addr := strings.Join(rest, glue)
	if addr == "" {
		return "", "", false
	}
	return label, addr, true
}

// ColumnIndex converts a column designator ("A", "ab", or a 1-based number) to a 0-based index.
func ColumnIndex(designator string) (int, error) {
	d := strings.TrimSpace(designator)
	if d == "" {
		return 0, fmt.Errorf("column index: empty designator")
	}

	if n, err := strconv.Atoi(d); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("column index: %d is not a valid 1-based column", n)
		}
		return n - 1, nil
	}

	n, err := excelize.ColumnNameToNumber(strings.ToUpper(d))
	if err != nil {
		return 0, fmt.Errorf("column index: %w", err)
	}
	return n - 1, nil
}
