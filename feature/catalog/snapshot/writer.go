package snapshot

import (
	"fmt"
	"time"
	"unicode/utf8"

	"library-manager/feature/catalog/models"

	"github.com/xuri/excelize/v2"
)

const (
	zoomScale = 150.0
	minWidth  = 8.0
	maxWidth  = 60.0
)

// Input is everything a snapshot is built from.
type Input struct {
	// Records are written in the given order, normally ascending id.
	Records []*models.LibraryRecord
	// NewEbooks are unreferenced primary e-book keys, written as synthetic rows.
	NewEbooks []string
	// NewAudiobooks are unreferenced audiobook keys, written to the second sheet.
	NewAudiobooks []string
}

// Writer serializes records into a snapshot workbook.
type Writer struct {
	// Now stamps the acquisition date of synthetic rows.
	Now func() time.Time
}

// NewWriter returns a Writer using the wall clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// Write builds the workbook and returns its bytes. Inputs are not modified.
func (w *Writer) Write(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PrimarySheet); err != nil {
		return nil, fmt.Errorf("failed to name primary sheet: %w", err)
	}
	if _, err := f.NewSheet(AudiobookSheet); err != nil {
		return nil, fmt.Errorf("failed to create audiobook sheet: %w", err)
	}

	sw := &sheetWriter{f: f}
	if err := sw.init(); err != nil {
		return nil, err
	}

	for c, h := range headers {
		sw.set(Column(c), 0, h)
	}

	row := 1
	for _, rec := range in.Records {
		sw.record(row, rec)
		row++
	}

	now := w.now()
	for _, key := range in.NewEbooks {
		acq := models.DateOf(now)
		sw.record(row, &models.LibraryRecord{EpubObjectKey: &key, AcquisitionDate: &acq})
		row++
	}

	for i, key := range in.NewAudiobooks {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		sw.check(f.SetCellValue(AudiobookSheet, cell, key))
	}

	sw.finish()
	if sw.err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", sw.err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// sheetWriter keeps the first error so cell writes can be chained.
type sheetWriter struct {
	f         *excelize.File
	err       error
	boldStyle int
	dateStyle int
	widths    [columnCount]float64
}

func (sw *sheetWriter) check(err error) {
	if sw.err == nil && err != nil {
		sw.err = err
	}
}

func (sw *sheetWriter) init() error {
	var err error
	if sw.boldStyle, err = sw.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateFmt := DateFormat
	if sw.dateStyle, err = sw.f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	return nil
}

func (sw *sheetWriter) set(c Column, row int, value any) {
	sw.check(sw.f.SetCellValue(PrimarySheet, c.cell(row), value))
	sw.track(c, fmt.Sprint(value))
}

func (sw *sheetWriter) track(c Column, text string) {
	if w := float64(utf8.RuneCountInString(text)) + 2; w > sw.widths[c] {
		sw.widths[c] = w
	}
}

func (sw *sheetWriter) str(c Column, row int, v *string) {
	if v != nil {
		sw.set(c, row, *v)
	}
}

func (sw *sheetWriter) num(c Column, row int, v *int) {
	if v != nil {
		sw.set(c, row, *v)
	}
}

// serialDateFloor is the first date whose spreadsheet serial is unambiguous.
// Earlier dates fall before the epoch or inside the 1900 leap-year bug.
var serialDateFloor = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)

func (sw *sheetWriter) date(row int, d time.Time) {
	cell := ColAcqDate.cell(row)
	if d.Before(serialDateFloor) {
		sw.check(sw.f.SetCellStr(PrimarySheet, cell, d.Format(dateLayout)))
	} else {
		sw.check(sw.f.SetCellValue(PrimarySheet, cell, d))
		sw.check(sw.f.SetCellStyle(PrimarySheet, cell, cell, sw.dateStyle))
	}
	sw.track(ColAcqDate, "00/00/0000")
}

func (sw *sheetWriter) record(row int, r *models.LibraryRecord) {
	sw.num(ColID, row, r.ID)
	sw.str(ColTitle, row, r.Title)
	sw.str(ColAuthor, row, r.Author)
	sw.str(ColAuthor2, row, r.Author2)
	sw.str(ColAuthor3, row, r.Author3)
	sw.num(ColPubYear, row, r.PublicationYear)
	// Series and sequence are written independently so inconsistent pairs survive a round trip.
	sw.str(ColSeries, row, r.Series)
	sw.num(ColSeriesSequence, row, r.SeriesSequence)
	if r.AcquisitionDate != nil {
		sw.date(row, models.DateOf(*r.AcquisitionDate))
	}
	sw.str(ColAltTitle1, row, r.AltTitle1)
	sw.str(ColAltTitle2, row, r.AltTitle2)
	sw.str(ColEpubObjectKey, row, r.EpubObjectKey)
	sw.str(ColMobiObjectKey, row, r.MobiObjectKey)
	sw.str(ColAudiobookObjectKey, row, r.AudiobookObjectKey)
	if len(r.Tags) > 0 {
		sw.set(ColTags, row, r.Tags.String())
	}
	sw.str(ColASIN, row, r.ASIN)
}

func (sw *sheetWriter) finish() {
	f := sw.f
	last := Column(columnCount - 1)
	sw.check(f.SetCellStyle(PrimarySheet, ColID.cell(0), last.cell(0), sw.boldStyle))
	sw.check(f.SetPanes(PrimarySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}))

	for _, c := range Columns() {
		w := min(max(sw.widths[c], minWidth), maxWidth)
		sw.check(f.SetColWidth(PrimarySheet, c.Letter(), c.Letter(), w))
	}
	sw.check(f.SetColWidth(AudiobookSheet, "A", "A", maxWidth))

	zoom := zoomScale
	for _, sheet := range []string{PrimarySheet, AudiobookSheet} {
		sw.check(f.SetSheetView(sheet, 0, &excelize.ViewOptions{ZoomScale: &zoom}))
	}
}
