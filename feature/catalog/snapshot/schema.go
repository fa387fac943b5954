package snapshot

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	// PrimarySheet holds one row per record.
	PrimarySheet = "Media Assets"
	// AudiobookSheet lists orphan audiobook keys, one per row, without a header.
	AudiobookSheet = "New Audiobooks"

	// DateFormat is the number format of the acquisition date column.
	DateFormat = "m/d/yyyy"
	// dateLayout is DateFormat as a Go layout, accepted for text date cells.
	dateLayout = "1/2/2006"

	// ContentType is the MIME type of a snapshot workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Column is a 0-based column of the primary sheet.
type Column int

const (
	ColID Column = iota
	ColTitle
	ColAuthor
	ColAuthor2
	ColAuthor3
	ColPubYear
	ColSeries
	ColSeriesSequence
	ColAcqDate
	ColAltTitle1
	ColAltTitle2
	ColEpubObjectKey
	ColMobiObjectKey
	ColAudiobookObjectKey
	ColTags
	ColASIN

	columnCount
)

var headers = [columnCount]string{
	ColID:                 "dbid",
	ColTitle:              "Title",
	ColAuthor:             "Author",
	ColAuthor2:            "Author 2",
	ColAuthor3:            "Author 3",
	ColPubYear:            "Pub Year",
	ColSeries:             "Series",
	ColSeriesSequence:     "Num",
	ColAcqDate:            "Acq Date",
	ColAltTitle1:          "Alt Title 1",
	ColAltTitle2:          "Alt Title 2",
	ColEpubObjectKey:      "Epub Object Key",
	ColMobiObjectKey:      "Mobi Object Key",
	ColAudiobookObjectKey: "Audiobook Object Key",
	ColTags:               "Tags",
	ColASIN:               "ASIN",
}

// Columns returns every column in order.
func Columns() []Column {
	cols := make([]Column, columnCount)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// Headers returns the literal header labels in column order.
func Headers() []string {
	out := make([]string, columnCount)
	copy(out, headers[:])
	return out
}

// Header returns the literal header label of the column.
func (c Column) Header() string {
	if c < 0 || c >= columnCount {
		return fmt.Sprintf("column %d", int(c))
	}
	return headers[c]
}

// Letter returns the spreadsheet column letter (A for ColID).
func (c Column) Letter() string {
	name, _ := excelize.ColumnNumberToName(int(c) + 1)
	return name
}

// cell returns the cell reference for a 0-based row index.
func (c Column) cell(row int) string {
	name, _ := excelize.CoordinatesToCellName(int(c)+1, row+1)
	return name
}
