// Package importer reads expense CSV files, including the ones internal/export writes.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/encoding"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

var (
	ErrNoHeader      = errors.New("no header row with Date, Category and Amount columns")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Parser turns CSV bytes into expense params.
type Parser interface {
	Parse(r io.Reader) ([]expense.CreateParams, error)
}

// CSV parses the export layout. Columns are located by header name, so reordered or
// extra columns are tolerated and preamble lines above the header are skipped.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

type columns struct {
	date, category, amount, note int
}

func (p *CSV) Parse(r io.Reader) ([]expense.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, ErrNoHeader
	}

	var params []expense.CreateParams

	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2

		if blank(row) {
			continue
		}

		p, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, p)
	}

	return params, nil
}

func findHeader(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		cols := columns{date: -1, category: -1, amount: -1, note: -1}

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))

			switch {
			case name == "date":
				cols.date = i
			case name == "category":
				cols.category = i
			case strings.HasPrefix(name, "amount"):
				cols.amount = i
			case name == "note":
				cols.note = i
			}
		}

		if cols.date >= 0 && cols.category >= 0 && cols.amount >= 0 {
			return cols, rowIdx, true
		}
	}

	return columns{}, 0, false
}

func parseRow(cols columns, row []string) (expense.CreateParams, error) {
	date, err := expense.ParseDate(cellValue(row, cols.date))
	if err != nil {
		return expense.CreateParams{}, err
	}

	category := cellValue(row, cols.category)
	if category == "" {
		return expense.CreateParams{}, expense.ErrMissingCategory
	}

	amount, err := parseAmount(cellValue(row, cols.amount))
	if err != nil {
		return expense.CreateParams{}, err
	}

	p := expense.CreateParams{
		Amount:   amount,
		Category: expense.Category(category),
		Date:     date,
	}

	if note := cellValue(row, cols.note); note != "" {
		p.Note = &note
	}

	return p, nil
}

// parseAmount accepts plain decimals as well as display forms like "₹1,250.50".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(expense.CurrencySymbol, "", ",", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
