package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"library-manager/core/utils"
	"library-manager/feature/catalog/models"

	"github.com/xuri/excelize/v2"
)

// ParseRow converts one primary-sheet row into a record.
// Row 0 is the header and fully blank rows carry nothing; both return ErrSkipRow.
// A cell that cannot be coerced returns a *MalformedCellError.
func ParseRow(index int, cells []string) (*models.LibraryRecord, error) {
	return parseRow(index, cells, false)
}

// parseRow is ParseRow for a row whose date cell is known to hold text.
// Numeric text there is rejected rather than read as a serial date.
func parseRow(index int, cells []string, textDate bool) (*models.LibraryRecord, error) {
	if index == 0 || isBlankRow(cells) {
		return nil, ErrSkipRow
	}

	p := rowParser{index: index, cells: cells, textDate: textDate}
	rec := &models.LibraryRecord{
		ID:                 p.num(ColID),
		Title:              p.str(ColTitle),
		Author:             p.str(ColAuthor),
		Author2:            p.str(ColAuthor2),
		Author3:            p.str(ColAuthor3),
		PublicationYear:    p.num(ColPubYear),
		Series:             p.str(ColSeries),
		SeriesSequence:     p.num(ColSeriesSequence),
		AcquisitionDate:    p.date(ColAcqDate),
		AltTitle1:          p.str(ColAltTitle1),
		AltTitle2:          p.str(ColAltTitle2),
		EpubObjectKey:      p.str(ColEpubObjectKey),
		MobiObjectKey:      p.str(ColMobiObjectKey),
		AudiobookObjectKey: p.str(ColAudiobookObjectKey),
		Tags:               models.ParseTags(p.raw(ColTags)),
		ASIN:               p.str(ColASIN),
	}
	if p.err != nil {
		return nil, p.err
	}
	return rec, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if !utils.IsBlank(c) {
			return false
		}
	}
	return true
}

// rowParser keeps the first malformed cell; later cells are still read but ignored.
type rowParser struct {
	index    int
	cells    []string
	textDate bool
	err      error
}

func (p *rowParser) raw(c Column) string {
	if int(c) >= len(p.cells) {
		return ""
	}
	return p.cells[c]
}

func (p *rowParser) fail(c Column, err error) {
	if p.err == nil {
		p.err = &MalformedCellError{Row: p.index, Column: c, Value: p.raw(c), Err: err}
	}
}

func (p *rowParser) str(c Column) *string {
	return utils.NullIfBlank(p.raw(c))
}

func (p *rowParser) num(c Column) *int {
	v := p.raw(c)
	if utils.IsBlank(v) {
		return nil
	}
	n, err := utils.ParseWholeNumber(v)
	if err != nil {
		p.fail(c, err)
		return nil
	}
	return &n
}

func (p *rowParser) date(c Column) *time.Time {
	v := strings.TrimSpace(p.raw(c))
	if v == "" {
		return nil
	}
	t, err := parseDate(v, p.textDate)
	if err != nil {
		p.fail(c, err)
		return nil
	}
	t = models.DateOf(t)
	return &t
}

// ErrNumericDateText is returned for a text cell in the date column holding a bare number.
var ErrNumericDateText = errors.New("number typed as text, expected " + DateFormat)

// parseDate accepts a spreadsheet serial date or m/d/yyyy text.
// A serial is only trusted when it comes from a number cell.
func parseDate(v string, text bool) (time.Time, error) {
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if text {
			return time.Time{}, ErrNumericDateText
		}
		if serial <= 0 {
			return time.Time{}, errors.New("date serial must be positive")
		}
		return excelize.ExcelDateToTime(serial, false)
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s", DateFormat)
	}
	return t, nil
}
