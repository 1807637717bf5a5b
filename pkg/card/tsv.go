package card

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
)

// Column headers the input table must carry.
const (
	ColumnName        = "Name"
	ColumnType        = "Type"
	ColumnEnergy      = "Energy"
	ColumnTrigger     = "Trigger"
	ColumnDescription = "Description"
)

// Columns lists the required header names.
var Columns = []string{ColumnName, ColumnType, ColumnEnergy, ColumnTrigger, ColumnDescription}

// LoadTSV reads all records from a tab-separated file.
func LoadTSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, cperrors.Wrap(cperrors.ErrCodeFileNotFound, err, "input table %s", path)
	}
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	recs, err := ReadTSV(f)
	if err != nil {
		if cperrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, cperrors.Wrap(cperrors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return recs, nil
}

// ReadTSV parses records from tab-separated data with a header row.
//
// Header names are matched exactly first, then case-insensitively. Extra
// columns are ignored and short rows yield empty fields. A header missing
// any of [Columns] is an INVALID_INPUT error.
func ReadTSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, cperrors.New(cperrors.ErrCodeInvalidInput, "input table has no header row")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	get := func(row []string, col string) string {
		if i := idx[col]; i < len(row) {
			return row[i]
		}
		return ""
	}

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			Name:        get(row, ColumnName),
			Type:        get(row, ColumnType),
			Energy:      get(row, ColumnEnergy),
			Trigger:     get(row, ColumnTrigger),
			Description: get(row, ColumnDescription),
		})
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	exact := make(map[string]int, len(header))
	folded := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := exact[h]; !ok {
			exact[h] = i
		}
		if _, ok := folded[strings.ToLower(h)]; !ok {
			folded[strings.ToLower(h)] = i
		}
	}

	idx := make(map[string]int, len(Columns))
	var missing []string
	for _, col := range Columns {
		if i, ok := exact[col]; ok {
			idx[col] = i
		} else if i, ok := folded[strings.ToLower(col)]; ok {
			idx[col] = i
		} else {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, cperrors.New(cperrors.ErrCodeInvalidInput, "input table is missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}
