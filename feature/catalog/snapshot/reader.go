package snapshot

import (
	"errors"
	"fmt"
	"io"

	"library-manager/core/reconcile"
	"library-manager/feature/catalog/models"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingSheet is returned when a workbook has no primary sheet.
	ErrMissingSheet = errors.New("snapshot has no " + PrimarySheet + " sheet")
	// ErrUnreadable is returned when the input is not an xlsx workbook.
	ErrUnreadable = errors.New("snapshot is not a readable workbook")
)

// Read parses every record row of the primary sheet, in row order.
// It stops at the first malformed cell.
func Read(r io.Reader) ([]reconcile.Row[*models.LibraryRecord], error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(PrimarySheet); err != nil || idx < 0 {
		return nil, ErrMissingSheet
	}

	// Raw values keep dates as serial numbers and integers unformatted.
	table, err := f.GetRows(PrimarySheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PrimarySheet, err)
	}

	var rows []reconcile.Row[*models.LibraryRecord]
	for i, cells := range table {
		rec, err := parseRow(i, cells, isTextCell(f, ColAcqDate.cell(i)))
		if errors.Is(err, ErrSkipRow) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, reconcile.Row[*models.LibraryRecord]{Index: i, Record: rec})
	}
	return rows, nil
}

func isTextCell(f *excelize.File, cell string) bool {
	typ, err := f.GetCellType(PrimarySheet, cell)
	if err != nil {
		return false
	}
	return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString
}

// ReadAudiobookKeys returns the keys listed on the audiobook sheet.
// A workbook without that sheet yields no keys.
func ReadAudiobookKeys(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(AudiobookSheet); err != nil || idx < 0 {
		return nil, nil
	}
	table, err := f.GetRows(AudiobookSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", AudiobookSheet, err)
	}

	var keys []string
	for _, cells := range table {
		if len(cells) > 0 && cells[0] != "" {
			keys = append(keys, cells[0])
		}
	}
	return keys, nil
}
