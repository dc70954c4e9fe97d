// Package importer reads entity spreadsheets for bulk directory loads.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
)

// Column indices for the spreadsheet (0-based).
const (
	colName        = 0 // Column A
	colCategories  = 1 // Column B
	colDescription = 2 // Column C
	colWebsite     = 3 // Column D
	colEmail       = 4 // Column E
	colPhone       = 5 // Column F
	colWhatsApp    = 6 // Column G
	colAddress     = 7 // Column H
	colActive      = 8 // Column I

	headerRowIndex = 1 // Excel rows are 1-based, header is row 1
)

// Headers is the expected first row, in column order.
var Headers = []string{
	"name", "categories", "description", "website", "email",
	"phone", "whatsapp", "address", "active",
}

// categorySeparator splits column B; commas occur inside category names.
const categorySeparator = ";"

// EntityRow is one parsed spreadsheet row.
type EntityRow struct {
	Row         int // Excel row number (for error reporting)
	Name        string
	Categories  []string
	Description string
	Website     string
	Email       string
	Phone       string
	WhatsApp    string
	Address     string
	Active      *bool
}

// ImportError reports a problem with one row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ValidateRow returns an error message, or "" for a usable row.
func ValidateRow(row EntityRow) string {
	if row.Name == "" {
		return "name is required"
	}
	if len(row.Categories) == 0 {
		return "at least one category is required"
	}
	if row.Website != "" && !strings.HasPrefix(row.Website, "http://") && !strings.HasPrefix(row.Website, "https://") {
		return "website must start with http:// or https://"
	}
	if row.Email != "" && !strings.Contains(row.Email, "@") {
		return "email is not valid"
	}
	return ""
}

// ParseExcelFile reads the first sheet of r. Blank rows are skipped;
// invalid rows are reported and left out of the result.
func ParseExcelFile(r io.Reader) ([]EntityRow, []ImportError) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, []ImportError{{Row: 0, Error: fmt.Sprintf("open spreadsheet: %v", err)}}
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, []ImportError{{Row: 0, Error: "spreadsheet has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, []ImportError{{Row: 0, Error: fmt.Sprintf("read rows: %v", err)}}
	}

	var (
		parsed []EntityRow
		errs   []ImportError
	)
	for i, cells := range rows {
		excelRow := i + 1
		if excelRow == headerRowIndex || blank(cells) {
			continue
		}

		row, parseErr := parseRow(excelRow, cells)
		if parseErr == "" {
			parseErr = ValidateRow(row)
		}
		if parseErr != "" {
			errs = append(errs, ImportError{Row: excelRow, Error: parseErr})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, errs
}

func parseRow(excelRow int, cells []string) (EntityRow, string) {
	row := EntityRow{
		Row:         excelRow,
		Name:        cell(cells, colName),
		Description: cell(cells, colDescription),
		Website:     cell(cells, colWebsite),
		Email:       cell(cells, colEmail),
		Phone:       cell(cells, colPhone),
		WhatsApp:    cell(cells, colWhatsApp),
		Address:     cell(cells, colAddress),
	}
	for _, c := range strings.Split(cell(cells, colCategories), categorySeparator) {
		if c = strings.TrimSpace(c); c != "" {
			row.Categories = append(row.Categories, c)
		}
	}

	if raw := cell(cells, colActive); raw != "" {
		active, ok := parseBool(raw)
		if !ok {
			return row, fmt.Sprintf("active must be sí/no, true/false or 1/0, got %q", raw)
		}
		row.Active = &active
	}
	return row, ""
}

// ToInput converts a row into the directory's create input.
func (r EntityRow) ToInput() directory.EntityInput {
	return directory.EntityInput{
		Name:        r.Name,
		Description: r.Description,
		Website:     r.Website,
		Email:       r.Email,
		Phone:       r.Phone,
		WhatsApp:    r.WhatsApp,
		Address:     r.Address,
		Categories:  r.Categories,
		Active:      r.Active,
	}
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "sí", "si", "verdadero":
		return true, true
	case "false", "0", "no", "falso":
		return false, true
	default:
		return false, false
	}
}
