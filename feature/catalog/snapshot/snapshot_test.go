package snapshot

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"library-manager/core/reconcile"
	"library-manager/core/utils"
	"library-manager/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 6, 15, 4, 5, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixtureRecords() []*models.LibraryRecord {
	return []*models.LibraryRecord{
		{
			ID:                 utils.Ptr(1),
			Title:              utils.Ptr("Dune"),
			Author:             utils.Ptr("Frank Herbert"),
			PublicationYear:    utils.Ptr(1965),
			Series:             utils.Ptr("Dune"),
			SeriesSequence:     utils.Ptr(1),
			AcquisitionDate:    date(2020, 1, 1),
			EpubObjectKey:      utils.Ptr("dune.epub"),
			AudiobookObjectKey: utils.Ptr("dune.m4b"),
			ASIN:               utils.Ptr("B00B7NPRY8"),
			Tags:               models.NewTagSet("sci-fi", "classic"),
		},
		{
			ID:              utils.Ptr(2),
			Title:           utils.Ptr("1984"),
			Author:          utils.Ptr("George Orwell"),
			Author2:         utils.Ptr("Second"),
			Author3:         utils.Ptr("Third"),
			AltTitle1:       utils.Ptr("Nineteen Eighty-Four"),
			AltTitle2:       utils.Ptr("Mil novecientos ochenta y cuatro"),
			AcquisitionDate: date(2019, 12, 31),
			MobiObjectKey:   utils.Ptr("1984.mobi"),
			ASIN:            utils.Ptr("0451524934"),
			Tags:            models.NewTagSet(),
		},
		{
			// Series without a sequence survives the round trip unchanged.
			ID:     utils.Ptr(5),
			Title:  utils.Ptr("Loose"),
			Author: utils.Ptr("A"),
			Series: utils.Ptr("Orphan Series"),
			Tags:   models.NewTagSet("x"),
		},
	}
}

func writeSnapshot(t *testing.T, in Input) []byte {
	t.Helper()
	w := &Writer{Now: func() time.Time { return fixedNow }}
	data, err := w.Write(in)
	require.NoError(t, err)
	return data
}

func TestRoundTrip(t *testing.T) {
	records := append(fixtureRecords(),
		&models.LibraryRecord{
			ID:              utils.Ptr(8),
			Title:           utils.Ptr("Old Stock"),
			AcquisitionDate: date(1899, 6, 1),
			Tags:            models.NewTagSet(),
		},
		&models.LibraryRecord{
			ID:              utils.Ptr(9),
			Title:           utils.Ptr("Leap Bug"),
			AcquisitionDate: date(1900, 2, 28),
			Tags:            models.NewTagSet(),
		},
	)
	data := writeSnapshot(t, Input{Records: records})

	rows, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, len(records))

	for i, row := range rows {
		assert.Equal(t, i+1, row.Index)
		assert.True(t, records[i].Equal(row.Record), "row %d: %+v", i+1, row.Record)
	}
}

func TestIdempotentImport(t *testing.T) {
	records := fixtureRecords()
	data := writeSnapshot(t, Input{
		Records:       records,
		NewEbooks:     []string{"new.epub"},
		NewAudiobooks: []string{"new.m4b"},
	})

	rows, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	// Drop the synthetic row, which has no id.
	var persisted []reconcile.Row[*models.LibraryRecord]
	for _, r := range rows {
		if r.Record.ID != nil {
			persisted = append(persisted, r)
		}
	}

	plan, err := reconcile.BuildPlan(persisted, reconcile.IndexByID(records))
	require.NoError(t, err)
	assert.Equal(t, len(records), plan.Summary.NoOps)
	assert.Zero(t, plan.Summary.Writes())
}

func TestWrite_Layout(t *testing.T) {
	records := fixtureRecords()
	data := writeSnapshot(t, Input{
		Records:       records,
		NewEbooks:     []string{"a.epub", "b.epub"},
		NewAudiobooks: []string{"c.m4b", "d.mp3"},
	})

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PrimarySheet, AudiobookSheet}, f.GetSheetList())

	table, err := f.GetRows(PrimarySheet)
	require.NoError(t, err)
	require.Len(t, table, 1+len(records)+2)
	assert.Equal(t, Headers(), table[0])

	// Synthetic rows follow the persisted ones, in input order.
	for i, key := range []string{"a.epub", "b.epub"} {
		row := table[1+len(records)+i]
		assert.Empty(t, row[ColID])
		assert.Empty(t, row[ColTitle])
		assert.Equal(t, key, row[ColEpubObjectKey])
		assert.Equal(t, "5/6/2024", row[ColAcqDate])
	}

	// Tags are written in sorted order.
	assert.Equal(t, "classic, sci-fi", table[1][ColTags])
	assert.Equal(t, "1/1/2020", table[1][ColAcqDate])

	audio, err := f.GetRows(AudiobookSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"c.m4b"}, {"d.mp3"}}, audio)

	panes, err := f.GetPanes(PrimarySheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	styleID, err := f.GetCellStyle(PrimarySheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	view, err := f.GetSheetView(PrimarySheet, 0)
	require.NoError(t, err)
	require.NotNil(t, view.ZoomScale)
	assert.Equal(t, 150.0, *view.ZoomScale)
}

func TestWrite_DoesNotModifyInput(t *testing.T) {
	records := fixtureRecords()
	before := make([]*models.LibraryRecord, len(records))
	for i, r := range records {
		before[i] = r.Clone()
	}

	writeSnapshot(t, Input{Records: records, NewEbooks: []string{"x.epub"}})

	for i := range records {
		assert.True(t, before[i].Equal(records[i]))
	}
}

func TestReadAudiobookKeys(t *testing.T) {
	data := writeSnapshot(t, Input{NewAudiobooks: []string{"c.m4b"}})
	keys, err := ReadAudiobookKeys(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"c.m4b"}, keys)
}

func TestParseRow_Skip(t *testing.T) {
	_, err := ParseRow(0, Headers())
	assert.ErrorIs(t, err, ErrSkipRow)

	_, err = ParseRow(4, []string{"", "  ", "\t"})
	assert.ErrorIs(t, err, ErrSkipRow)

	_, err = ParseRow(5, nil)
	assert.ErrorIs(t, err, ErrSkipRow)
}

func TestParseRow_Values(t *testing.T) {
	cells := make([]string, columnCount)
	cells[ColID] = ""
	cells[ColTitle] = "Bar"
	cells[ColAuthor] = "X"
	cells[ColAuthor2] = "   "
	cells[ColPubYear] = "2020"
	cells[ColSeriesSequence] = "3.0"
	cells[ColAcqDate] = "01/01/2020"
	cells[ColEpubObjectKey] = "bar.epub"
	cells[ColTags] = " b, a ,, a "

	rec, err := ParseRow(3, cells)
	require.NoError(t, err)

	assert.Nil(t, rec.ID)
	assert.Equal(t, "Bar", *rec.Title)
	assert.Nil(t, rec.Author2)
	assert.Equal(t, 2020, *rec.PublicationYear)
	assert.Equal(t, 3, *rec.SeriesSequence)
	assert.Nil(t, rec.Series)
	assert.Equal(t, *date(2020, 1, 1), *rec.AcquisitionDate)
	assert.Equal(t, []string{"a", "b"}, rec.Tags.Sorted())
	assert.Nil(t, rec.ASIN)
}

func TestParseRow_ShortRow(t *testing.T) {
	// Trailing empty cells are trimmed by the reader.
	rec, err := ParseRow(1, []string{"7", "Short"})
	require.NoError(t, err)
	assert.Equal(t, 7, *rec.ID)
	assert.Equal(t, "Short", *rec.Title)
	assert.Empty(t, rec.Tags)
}

func TestParseRow_Dates(t *testing.T) {
	tests := []struct {
		value string
		want  *time.Time
	}{
		{"43831", date(2020, 1, 1)},
		{"1/2/2021", date(2021, 1, 2)},
		{"12/31/1999", date(1999, 12, 31)},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cells := make([]string, columnCount)
			cells[ColTitle] = "T"
			cells[ColAcqDate] = tt.value
			rec, err := ParseRow(1, cells)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.AcquisitionDate)
		})
	}
}

func TestParseRow_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		column Column
		value  string
	}{
		{"TextID", ColID, "abc"},
		{"FractionalYear", ColPubYear, "2020.5"},
		{"TextSequence", ColSeriesSequence, "one"},
		{"IsoDate", ColAcqDate, "2020-01-01"},
		{"GarbageDate", ColAcqDate, "soon"},
		{"NegativeSerial", ColAcqDate, "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := make([]string, columnCount)
			cells[ColTitle] = "T"
			cells[tt.column] = tt.value

			rec, err := ParseRow(9, cells)
			assert.Nil(t, rec)

			var cellErr *MalformedCellError
			require.ErrorAs(t, err, &cellErr)
			assert.Equal(t, 9, cellErr.Row)
			assert.Equal(t, tt.column, cellErr.Column)
			assert.Equal(t, tt.value, cellErr.Value)
			assert.Equal(t, tt.column.Header(), cellErr.Header())
			assert.Contains(t, err.Error(), tt.column.Header())
		})
	}
}

func TestRead_StopsAtMalformedCell(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", PrimarySheet))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A1", &[]any{"dbid", "Title"}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A2", &[]any{1, "Good"}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A4", &[]any{"x", "Bad"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader(buf.Bytes()))
	assert.Nil(t, rows)

	var cellErr *MalformedCellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 3, cellErr.Row)
	assert.Equal(t, ColID, cellErr.Column)
}

func TestWrite_EarlyDatesAsText(t *testing.T) {
	data := writeSnapshot(t, Input{Records: []*models.LibraryRecord{
		{ID: utils.Ptr(1), AcquisitionDate: date(1899, 6, 1)},
		{ID: utils.Ptr(2), AcquisitionDate: date(1900, 3, 1)},
	}})

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(PrimarySheet, ColAcqDate.cell(1))
	require.NoError(t, err)
	assert.Equal(t, "6/1/1899", v)
	assert.True(t, isTextCell(f, ColAcqDate.cell(1)))
	assert.False(t, isTextCell(f, ColAcqDate.cell(2)))
}

func TestRead_DateCellTypes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", PrimarySheet))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A1", &[]any{"dbid", "Title"}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A2", &[]any{1, "Serial"}))
	require.NoError(t, f.SetCellValue(PrimarySheet, ColAcqDate.cell(1), 43831))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A3", &[]any{2, "Text"}))
	require.NoError(t, f.SetCellStr(PrimarySheet, ColAcqDate.cell(2), "1/2/2021"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date(2020, 1, 1), rows[0].Record.AcquisitionDate)
	assert.Equal(t, date(2021, 1, 2), rows[1].Record.AcquisitionDate)

	// A year typed into a text cell is not a serial date.
	require.NoError(t, f.SetCellStr(PrimarySheet, ColAcqDate.cell(2), "2020"))
	buf, err = f.WriteToBuffer()
	require.NoError(t, err)

	rows, err = Read(bytes.NewReader(buf.Bytes()))
	assert.Nil(t, rows)

	var cellErr *MalformedCellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 2, cellErr.Row)
	assert.Equal(t, ColAcqDate, cellErr.Column)
	assert.Equal(t, "2020", cellErr.Value)
	assert.ErrorIs(t, err, ErrNumericDateText)
}

func TestRead_SkipsBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", PrimarySheet))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A1", &[]any{"dbid", "Title"}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A2", &[]any{1, "One"}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A3", &[]any{"  ", ""}))
	require.NoError(t, f.SetSheetRow(PrimarySheet, "A5", &[]any{nil, "Two"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 4, rows[1].Index)
	assert.Nil(t, rows[1].Record.ID)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, ErrUnreadable)

	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Read(bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.Is(err, ErrMissingSheet))
}
