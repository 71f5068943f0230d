package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/redixstudio/atelier/internal/distribution"
	enc "github.com/redixstudio/atelier/internal/encoding"
	"github.com/redixstudio/atelier/internal/project"
)

// Parser reads project sheet CSV exports and produces project params.
// It auto-detects which sheet layout is being used by matching column
// headers against known profiles, so preamble rows above the header
// are tolerated.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]project.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching sheet layout found: expected project, price and percentage columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// at returns the index of a column, or -1 when the sheet does not have
// it. Optional columns map to -1 so cellValue reads them as empty.
func (c colIndex) at(name string) int {
	idx, ok := c[name]
	if !ok {
		return -1
	}

	return idx
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts project params from data rows using the matched
// profile. headerRowNum is the 0-based index of the header in the
// original file, used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]project.CreateParams, error) {
	var out []project.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		name := cellValue(row, cols.at(p.NameCol))
		if name == "" {
			// Spacer row.
			continue
		}

		if !hasSplitCells(p, cols, row) {
			// Footer rows carry a label and a total but no
			// percentages.
			continue
		}

		price, err := parseAmount(cellValue(row, cols.at(p.PriceCol)))
		if err != nil {
			return nil, fmt.Errorf("row %d: total price: %w", rowNum, err)
		}

		split, err := parseSplit(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params := project.CreateParams{
			Name:          name,
			ClientName:    cellValue(row, cols.at(p.ClientCol)),
			TotalPrice:    price,
			PaymentStatus: parseStatus(cellValue(row, cols.at(p.StatusCol))),
			Distribution:  split,
		}

		out = append(out, params)
	}

	return out, nil
}

func hasSplitCells(p *Profile, cols colIndex, row []string) bool {
	return cellValue(row, cols.at(p.ToolsCol)) != "" ||
		cellValue(row, cols.at(p.TeamCol)) != "" ||
		cellValue(row, cols.at(p.CaisseCol)) != ""
}

func parseSplit(p *Profile, cols colIndex, row []string) (distribution.Split, error) {
	tools, err := parseAmount(cellValue(row, cols.at(p.ToolsCol)))
	if err != nil {
		return distribution.Split{}, fmt.Errorf("tools percentage: %w", err)
	}

	team, err := parseAmount(cellValue(row, cols.at(p.TeamCol)))
	if err != nil {
		return distribution.Split{}, fmt.Errorf("team percentage: %w", err)
	}

	caisse, err := parseAmount(cellValue(row, cols.at(p.CaisseCol)))
	if err != nil {
		return distribution.Split{}, fmt.Errorf("caisse percentage: %w", err)
	}

	return distribution.Split{ToolsAndCharges: tools, TeamShare: team, RedixCaisse: caisse}, nil
}

// parseStatus maps a sheet status cell to a payment status. Unknown or
// empty values default to pending so a bad cell never applies money.
func parseStatus(s string) project.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "payé", "paye", "paid", "done":
		return project.PaymentDone
	case "partiel", "partial":
		return project.PaymentPartial
	default:
		return project.PaymentPending
	}
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
