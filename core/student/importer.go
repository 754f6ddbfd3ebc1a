package student

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/shulehub/shule/core"
)

var (
	rosterColumns = []string{"name", "email", "level"}

	// errors
	errUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	errMissingHeader     = errors.New("missing header row, expected: name, email, level")
	errEmptyFile         = errors.New("the file contains no students")
)

// rosterRow is a parsed line of an uploaded roster. Row is the 1-based
// position in the file, counting the header.
type rosterRow struct {
	Row   int
	Name  string
	Email string
	Level string
}

// parseRoster reads the uploaded roster into rows, dispatching on the file
// extension. The header row is required; column order is fixed.
func parseRoster(filename string, r io.Reader) ([]rosterRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseXLSX(r)
	default:
		return nil, core.NewValidationError(errUnsupportedFormat, core.FieldError{Field: "file", Error: errUnsupportedFormat.Error()})
	}
}

func parseCSV(r io.Reader) ([]rosterRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row length checked per row
	reader.TrimLeadingSpace = true

	var rows []rosterRow
	for i := 1; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewValidationError(pkgerrors.Wrap(err, "reading csv"), core.FieldError{Field: "file", Error: err.Error()})
		}
		if i == 1 {
			if err := checkHeader(record); err != nil {
				return nil, err
			}
			continue
		}
		rows = append(rows, newRosterRow(i, record))
	}
	if len(rows) == 0 {
		return nil, core.NewValidationError(errEmptyFile, core.FieldError{Field: "file", Error: errEmptyFile.Error()})
	}
	return rows, nil
}

func parseXLSX(r io.Reader) ([]rosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.NewValidationError(pkgerrors.Wrap(err, "opening xlsx"), core.FieldError{Field: "file", Error: err.Error()})
	}

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading xlsx rows")
	}

	var rows []rosterRow
	for i, record := range records {
		if i == 0 {
			if err := checkHeader(record); err != nil {
				return nil, err
			}
			continue
		}
		if isBlankRow(record) {
			continue
		}
		rows = append(rows, newRosterRow(i+1, record))
	}
	if len(rows) == 0 {
		return nil, core.NewValidationError(errEmptyFile, core.FieldError{Field: "file", Error: errEmptyFile.Error()})
	}
	return rows, nil
}

func checkHeader(record []string) error {
	if len(record) < len(rosterColumns) {
		return core.NewValidationError(errMissingHeader, core.FieldError{Field: "file", Error: errMissingHeader.Error()})
	}
	for i, col := range rosterColumns {
		if core.CleanString(record[i], true /* lower */) != col {
			return core.NewValidationError(errMissingHeader, core.FieldError{Field: "file", Error: errMissingHeader.Error()})
		}
	}
	return nil
}

func newRosterRow(row int, record []string) rosterRow {
	get := func(i int) string {
		if i < len(record) {
			return core.CleanString(record[i])
		}
		return ""
	}
	return rosterRow{
		Row:   row,
		Name:  get(0),
		Email: strings.ToLower(get(1)),
		Level: get(2),
	}
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
