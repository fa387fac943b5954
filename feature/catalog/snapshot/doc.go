// Package snapshot reads and writes the catalog spreadsheet.
//
// A snapshot is an xlsx workbook with two sheets. "Media Assets" has a bold,
// frozen header row followed by one row per record and then one synthetic row
// per unreferenced primary e-book key. "New Audiobooks" lists unreferenced
// audiobook keys in column A without a header.
//
// # Cell formats
//
//   - Integers (dbid, Pub Year, Num): numeric cells. Text must denote a whole number.
//   - Acq Date: a date cell formatted m/d/yyyy. Text in the same form is accepted on import.
//   - Tags: comma-separated, written sorted. Order is ignored on import.
//   - Everything else: text. Blank cells mean the value is absent.
//
// Any cell that cannot be coerced aborts the read with a *MalformedCellError
// naming the row, column and raw value.
package snapshot
