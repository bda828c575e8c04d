// Package dealfile loads deals from YAML, CSV and XLSX files.
//
// YAML files hold either a single deal or a top-level "deals" list. CSV and
// XLSX files hold one deal per row under a header of snake_case column names
// (see Columns); unknown columns are ignored and empty cells keep the zero
// value.
package dealfile

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/deal-cli/internal/model"
)

// Load reads deals from path, picking the format from the file extension.
func Load(path string) ([]model.Deal, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "dealfile: read %s", path)
		}
		return ParseYAML(data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "dealfile: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return nil, eris.Errorf("dealfile: unsupported file type %q", ext)
	}
}

// ParseYAML decodes a single deal or a "deals" list.
func ParseYAML(data []byte) ([]model.Deal, error) {
	var wrapper struct {
		Deals []model.Deal `yaml:"deals"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "dealfile: parse yaml")
	}
	if len(wrapper.Deals) > 0 {
		return wrapper.Deals, nil
	}

	var d model.Deal
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, eris.Wrap(err, "dealfile: parse yaml")
	}
	if d.Property.Price == 0 && d.Name == "" {
		return nil, eris.New("dealfile: no deals found")
	}
	return []model.Deal{d}, nil
}

// ReadCSV decodes one deal per row after a header row.
func ReadCSV(r io.Reader) ([]model.Deal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dealfile: read csv")
	}
	return decodeRows(rows)
}

// ReadXLSX decodes one deal per row of the named sheet, or of the first sheet
// when sheetName is empty.
func ReadXLSX(path, sheetName string) ([]model.Deal, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dealfile: open xlsx")
	}
	return readWorkbook(f, sheetName)
}

// ReadXLSXBytes is ReadXLSX for an in-memory workbook.
func ReadXLSXBytes(data []byte, sheetName string) ([]model.Deal, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "dealfile: open xlsx")
	}
	return readWorkbook(f, sheetName)
}

func readWorkbook(f *xlsx.File, sheetName string) ([]model.Deal, error) {
	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("dealfile: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("dealfile: workbook has no sheets")
		}
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.Value
		}
		rows = append(rows, cells)
	}
	return decodeRows(rows)
}

func decodeRows(rows [][]string) ([]model.Deal, error) {
	if len(rows) == 0 {
		return nil, eris.New("dealfile: missing header row")
	}

	header := make([]string, len(rows[0]))
	known := 0
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if _, ok := columns[header[i]]; ok {
			known++
		}
	}
	if known == 0 {
		return nil, eris.New("dealfile: header has no known columns")
	}

	var deals []model.Deal
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var d model.Deal
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			set, ok := columns[header[i]]
			cell = strings.TrimSpace(cell)
			if !ok || cell == "" {
				continue
			}
			if err := set(&d, cell); err != nil {
				return nil, eris.Wrapf(err, "dealfile: row %d column %s", n+2, header[i])
			}
		}
		if d.Name == "" {
			d.Name = "row " + strconv.Itoa(n+2)
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
