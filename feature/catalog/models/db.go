package models

import (
	"time"
)

// Book represents the 'books' table.
type Book struct {
	ID                 int        `gorm:"column:id;primaryKey;autoIncrement"`
	Title              *string    `gorm:"column:title;size:512"`
	Author             *string    `gorm:"column:author;size:255"`
	Author2            *string    `gorm:"column:author2;size:255"`
	Author3            *string    `gorm:"column:author3;size:255"`
	PubYear            *int       `gorm:"column:pub_year"`
	Series             *string    `gorm:"column:series;size:255"`
	SeriesSequence     *int       `gorm:"column:series_sequence"`
	AcqDate            *time.Time `gorm:"column:acq_date;type:date"`
	AltTitle1          *string    `gorm:"column:alt_title1;size:512"`
	AltTitle2          *string    `gorm:"column:alt_title2;size:512"`
	EpubObjectKey      *string    `gorm:"column:epub_object_key;size:1024"`
	MobiObjectKey      *string    `gorm:"column:mobi_object_key;size:1024"`
	AudiobookObjectKey *string    `gorm:"column:audiobook_object_key;size:1024"`
	ASIN               *string    `gorm:"column:asin;size:32"`
	Tags               []Tag      `gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name.
func (Book) TableName() string {
	return "books"
}

// Tag represents one row of the 'tags' table.
type Tag struct {
	BookID int    `gorm:"column:book_id;primaryKey;autoIncrement:false"`
	Tag    string `gorm:"column:tag;primaryKey;size:191"`
}

// TableName overrides the table name.
func (Tag) TableName() string {
	return "tags"
}

// BookColumns lists the expected 'books' columns in schema order.
var BookColumns = []string{
	"id", "title", "author", "author2", "author3", "pub_year", "series", "series_sequence",
	"acq_date", "alt_title1", "alt_title2", "epub_object_key", "mobi_object_key",
	"audiobook_object_key", "asin",
}

// TagColumns lists the expected 'tags' columns.
var TagColumns = []string{"book_id", "tag"}

// ToRecord converts the table row (with preloaded tags) to a normalized record.
func (b Book) ToRecord() *LibraryRecord {
	id := b.ID
	tags := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		tags[i] = t.Tag
	}
	rec := &LibraryRecord{
		ID:                 &id,
		Title:              clonePtr(b.Title),
		Author:             clonePtr(b.Author),
		Author2:            clonePtr(b.Author2),
		Author3:            clonePtr(b.Author3),
		PublicationYear:    clonePtr(b.PubYear),
		Series:             clonePtr(b.Series),
		SeriesSequence:     clonePtr(b.SeriesSequence),
		AcquisitionDate:    clonePtr(b.AcqDate),
		AltTitle1:          clonePtr(b.AltTitle1),
		AltTitle2:          clonePtr(b.AltTitle2),
		EpubObjectKey:      clonePtr(b.EpubObjectKey),
		MobiObjectKey:      clonePtr(b.MobiObjectKey),
		AudiobookObjectKey: clonePtr(b.AudiobookObjectKey),
		ASIN:               clonePtr(b.ASIN),
		Tags:               NewTagSet(tags...),
	}
	return rec.Normalize()
}

// BookFromRecord converts a record to a table row. Tags are not included;
// use TagRows for those.
func BookFromRecord(r *LibraryRecord) Book {
	n := r.Clone().Normalize()
	b := Book{
		Title:              n.Title,
		Author:             n.Author,
		Author2:            n.Author2,
		Author3:            n.Author3,
		PubYear:            n.PublicationYear,
		Series:             n.Series,
		SeriesSequence:     n.SeriesSequence,
		AcqDate:            n.AcquisitionDate,
		AltTitle1:          n.AltTitle1,
		AltTitle2:          n.AltTitle2,
		EpubObjectKey:      n.EpubObjectKey,
		MobiObjectKey:      n.MobiObjectKey,
		AudiobookObjectKey: n.AudiobookObjectKey,
		ASIN:               n.ASIN,
	}
	if n.ID != nil {
		b.ID = *n.ID
	}
	return b
}

// UpdateColumns returns every scalar column of the row keyed by column name.
// Nil values are kept so an update clears them.
func (b Book) UpdateColumns() map[string]any {
	return map[string]any{
		"title":                b.Title,
		"author":               b.Author,
		"author2":              b.Author2,
		"author3":              b.Author3,
		"pub_year":             b.PubYear,
		"series":               b.Series,
		"series_sequence":      b.SeriesSequence,
		"acq_date":             b.AcqDate,
		"alt_title1":           b.AltTitle1,
		"alt_title2":           b.AltTitle2,
		"epub_object_key":      b.EpubObjectKey,
		"mobi_object_key":      b.MobiObjectKey,
		"audiobook_object_key": b.AudiobookObjectKey,
		"asin":                 b.ASIN,
	}
}

// TagRows returns the 'tags' rows for a book, in sorted order.
func TagRows(bookID int, tags TagSet) []Tag {
	rows := make([]Tag, 0, len(tags))
	for _, t := range tags.Sorted() {
		rows = append(rows, Tag{BookID: bookID, Tag: t})
	}
	return rows
}
