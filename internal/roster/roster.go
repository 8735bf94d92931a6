// Package roster reads provider rosters from CSV and XLSX files for batch
// verification.
package roster

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// Column headers recognized in roster files, case-insensitive.
var columnAliases = map[string]string{
	"provider":      "provider",
	"provider_name": "provider",
	"name":          "provider",
	"practice":      "practice",
	"practice_name": "practice",
	"location":      "location",
	"city":          "location",
	"specialty":     "specialty",
	"speciality":    "specialty",
}

// Read loads a roster file, dispatching on extension. Supported formats are
// .csv and .xlsx.
func Read(path string) ([]verify.Context, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("roster: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV reads a roster from a CSV file. The first row must be a header
// containing at least a provider name column.
func ReadCSV(path string) ([]verify.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "roster: read csv")
	}
	return fromRows(rows)
}

// ReadXLSX reads a roster from the first sheet of an XLSX file.
func ReadXLSX(path string) ([]verify.Context, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("roster: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return fromRows(rows)
}

// fromRows maps header + data rows to contexts. Rows with an empty provider
// name are skipped rather than failing the whole file.
func fromRows(rows [][]string) ([]verify.Context, error) {
	if len(rows) == 0 {
		return nil, eris.New("roster: file is empty")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["provider"]; !ok {
		return nil, eris.New("roster: no provider name column (expected one of: provider, provider_name, name)")
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var contexts []verify.Context
	for _, row := range rows[1:] {
		vc := verify.Context{
			ProviderName: cell(row, "provider"),
			PracticeName: cell(row, "practice"),
			Location:     cell(row, "location"),
			Specialty:    cell(row, "specialty"),
		}
		if vc.ProviderName == "" {
			continue
		}
		contexts = append(contexts, vc)
	}
	return contexts, nil
}
