package document

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// Gaps wider than this many font sizes separate columns.
	columnGapFactor = 1.5
	// Gaps narrower than this many font sizes join glyphs of one word.
	wordGapFactor = 0.15
)

// readPDF reconstructs text lines page by page, top to bottom.
func readPDF(data []byte) (lines []string, err error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	// The pdf package panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			lines, err = nil, fmt.Errorf("parsing pdf: %v", rec)
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		rows, err := pageRows(p)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		for _, row := range rows {
			if line := joinRow(row); line != "" {
				lines = append(lines, line)
			}
		}
	}

	return lines, nil
}

// pageRows groups the glyphs of a page into visual rows ordered top to bottom.
// Glyph metrics drive the column-gap reconstruction in joinRow; pages whose
// fonts carry no width table fall back to the reader's run-level rows.
func pageRows(p pdf.Page) ([][]pdf.Text, error) {
	byY := map[int64][]pdf.Text{}
	measured := false
	for _, t := range p.Content().Text {
		if t.W > 0 {
			measured = true
		}
		y := int64(math.Round(t.Y))
		byY[y] = append(byY[y], t)
	}

	if !measured {
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, err
		}
		out := make([][]pdf.Text, 0, len(rows))
		// Higher Y is nearer the top of the page.
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })
		for _, row := range rows {
			out = append(out, row.Content)
		}
		return out, nil
	}

	ys := make([]int64, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	sort.Slice(ys, func(a, b int) bool { return ys[a] > ys[b] })

	out := make([][]pdf.Text, 0, len(ys))
	for _, y := range ys {
		out = append(out, byY[y])
	}
	return out, nil
}

// joinRow concatenates the glyph runs of one visual row, turning wide
// horizontal gaps into a two-space column break.
func joinRow(texts []pdf.Text) string {
	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(a, b int) bool { return runs[a].X < runs[b].X })

	var sb strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := t.X - (prev.X + prev.W)
			size := t.FontSize
			if size <= 0 {
				size = prev.FontSize
			}

			switch {
			case size > 0 && gap > columnGapFactor*size:
				sb.WriteString("  ")
			case gap > wordGapFactor*size && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " "):
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.S)
	}

	return strings.TrimSpace(sb.String())
}
