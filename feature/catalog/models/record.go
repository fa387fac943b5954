package models

import (
	"time"

	"library-manager/core/utils"
)

// AssetField names one of the object-key fields of a record.
type AssetField string

const (
	// FieldEpub is the primary e-book key.
	FieldEpub AssetField = "epub_object_key"
	// FieldMobi is the secondary e-book key.
	FieldMobi AssetField = "mobi_object_key"
	// FieldAudiobook is the audiobook key.
	FieldAudiobook AssetField = "audiobook_object_key"
)

// AssetFields lists the asset-key fields in column order.
var AssetFields = []AssetField{FieldEpub, FieldMobi, FieldAudiobook}

// LibraryRecord is one catalog entry. Nil pointers mean the value is absent.
type LibraryRecord struct {
	ID                 *int       `json:"id,omitempty"`
	Title              *string    `json:"title" validate:"required"`
	Author             *string    `json:"author" validate:"required"`
	Author2            *string    `json:"author2,omitempty"`
	Author3            *string    `json:"author3,omitempty"`
	PublicationYear    *int       `json:"publication_year,omitempty"`
	Series             *string    `json:"series,omitempty" validate:"required_with=SeriesSequence"`
	SeriesSequence     *int       `json:"series_sequence,omitempty" validate:"required_with=Series"`
	AcquisitionDate    *time.Time `json:"acquisition_date,omitempty"`
	AltTitle1          *string    `json:"alt_title1,omitempty"`
	AltTitle2          *string    `json:"alt_title2,omitempty"`
	EpubObjectKey      *string    `json:"epub_object_key,omitempty"`
	MobiObjectKey      *string    `json:"mobi_object_key,omitempty"`
	AudiobookObjectKey *string    `json:"audiobook_object_key,omitempty"`
	ASIN               *string    `json:"asin,omitempty"`
	Tags               TagSet     `json:"tags"`
}

// RecordID returns the persisted id.
func (r *LibraryRecord) RecordID() (int, bool) {
	if r.ID == nil {
		return 0, false
	}
	return *r.ID, true
}

// SetRecordID stores an id assigned by the database.
func (r *LibraryRecord) SetRecordID(id int) {
	r.ID = &id
}

// Equal reports whether every scalar field matches and the tag sets are equal.
func (r *LibraryRecord) Equal(other *LibraryRecord) bool {
	return r.MetadataEqual(other) && r.TagsEqual(other)
}

// TagsEqual compares tag sets only.
func (r *LibraryRecord) TagsEqual(other *LibraryRecord) bool {
	return r.Tags.Equal(other.Tags)
}

// MetadataEqual compares every scalar field, ignoring tags.
func (r *LibraryRecord) MetadataEqual(other *LibraryRecord) bool {
	return eqPtr(r.ID, other.ID) &&
		eqPtr(r.Title, other.Title) &&
		eqPtr(r.Author, other.Author) &&
		eqPtr(r.Author2, other.Author2) &&
		eqPtr(r.Author3, other.Author3) &&
		eqPtr(r.PublicationYear, other.PublicationYear) &&
		eqPtr(r.Series, other.Series) &&
		eqPtr(r.SeriesSequence, other.SeriesSequence) &&
		eqDate(r.AcquisitionDate, other.AcquisitionDate) &&
		eqPtr(r.AltTitle1, other.AltTitle1) &&
		eqPtr(r.AltTitle2, other.AltTitle2) &&
		eqPtr(r.EpubObjectKey, other.EpubObjectKey) &&
		eqPtr(r.MobiObjectKey, other.MobiObjectKey) &&
		eqPtr(r.AudiobookObjectKey, other.AudiobookObjectKey) &&
		eqPtr(r.ASIN, other.ASIN)
}

// WithTagsOf returns a copy of r carrying other's tags. r is not modified.
func (r *LibraryRecord) WithTagsOf(other *LibraryRecord) *LibraryRecord {
	c := r.Clone()
	c.Tags = other.Tags.Clone()
	return c
}

// Clone returns a deep copy.
func (r *LibraryRecord) Clone() *LibraryRecord {
	return &LibraryRecord{
		ID:                 clonePtr(r.ID),
		Title:              clonePtr(r.Title),
		Author:             clonePtr(r.Author),
		Author2:            clonePtr(r.Author2),
		Author3:            clonePtr(r.Author3),
		PublicationYear:    clonePtr(r.PublicationYear),
		Series:             clonePtr(r.Series),
		SeriesSequence:     clonePtr(r.SeriesSequence),
		AcquisitionDate:    clonePtr(r.AcquisitionDate),
		AltTitle1:          clonePtr(r.AltTitle1),
		AltTitle2:          clonePtr(r.AltTitle2),
		EpubObjectKey:      clonePtr(r.EpubObjectKey),
		MobiObjectKey:      clonePtr(r.MobiObjectKey),
		AudiobookObjectKey: clonePtr(r.AudiobookObjectKey),
		ASIN:               clonePtr(r.ASIN),
		Tags:               r.Tags.Clone(),
	}
}

// Normalize turns blank strings into nil, truncates the acquisition date to
// midnight UTC and cleans the tag set. It returns r for chaining.
func (r *LibraryRecord) Normalize() *LibraryRecord {
	r.Title = blankToNil(r.Title)
	r.Author = blankToNil(r.Author)
	r.Author2 = blankToNil(r.Author2)
	r.Author3 = blankToNil(r.Author3)
	r.Series = blankToNil(r.Series)
	r.AltTitle1 = blankToNil(r.AltTitle1)
	r.AltTitle2 = blankToNil(r.AltTitle2)
	r.EpubObjectKey = blankToNil(r.EpubObjectKey)
	r.MobiObjectKey = blankToNil(r.MobiObjectKey)
	r.AudiobookObjectKey = blankToNil(r.AudiobookObjectKey)
	r.ASIN = blankToNil(r.ASIN)
	if r.AcquisitionDate != nil {
		d := DateOf(*r.AcquisitionDate)
		r.AcquisitionDate = &d
	}
	tags := make([]string, 0, len(r.Tags))
	for t := range r.Tags {
		tags = append(tags, t)
	}
	r.Tags = NewTagSet(tags...)
	return r
}

// AssetKey returns the key stored in field, or nil.
func (r *LibraryRecord) AssetKey(field AssetField) *string {
	switch field {
	case FieldEpub:
		return r.EpubObjectKey
	case FieldMobi:
		return r.MobiObjectKey
	case FieldAudiobook:
		return r.AudiobookObjectKey
	}
	return nil
}

// AssetKeys returns the non-empty asset keys of the record by field.
func (r *LibraryRecord) AssetKeys() map[AssetField]string {
	keys := make(map[AssetField]string, len(AssetFields))
	for _, f := range AssetFields {
		if k := r.AssetKey(f); k != nil && *k != "" {
			keys[f] = *k
		}
	}
	return keys
}

// DisplayTitle returns the title or a placeholder, for reports.
func (r *LibraryRecord) DisplayTitle() string {
	if r.Title == nil {
		if k := r.EpubObjectKey; k != nil {
			return *k
		}
		return "(untitled)"
	}
	return *r.Title
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return DateOf(*a).Equal(DateOf(*b))
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NullIfBlank(*s)
}
