package checks

import (
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/orphans"
)

// fieldKinds maps each asset field to the kind its keys must have.
var fieldKinds = map[models.AssetField]orphans.Kind{
	models.FieldEpub:      orphans.KindPrimaryEbook,
	models.FieldMobi:      orphans.KindSecondaryEbook,
	models.FieldAudiobook: orphans.KindAudiobook,
}

// Misfiled is a key stored in a field that does not match its extension.
type Misfiled struct {
	RecordID int               `json:"record_id"`
	Field    models.AssetField `json:"field"`
	Key      string            `json:"key"`
	Kind     orphans.Kind      `json:"kind"`
}

// InvalidRecord is a record that fails the catalog data-quality rules.
type InvalidRecord struct {
	RecordID int      `json:"record_id"`
	Title    string   `json:"title"`
	Warnings []string `json:"warnings"`
}

// AssetReport is the result of checking every record's asset references.
type AssetReport struct {
	Records    int                    `json:"records"`
	Missing    []orphans.MissingAsset `json:"missing"`
	Duplicates []orphans.Duplicate    `json:"duplicates"`
	Misfiled   []Misfiled             `json:"misfiled"`
	Invalid    []InvalidRecord        `json:"invalid"`
}

// Healthy reports whether nothing was found.
func (r *AssetReport) Healthy() bool {
	return len(r.Missing) == 0 && len(r.Duplicates) == 0 && len(r.Misfiled) == 0 && len(r.Invalid) == 0
}

// CheckAssets cross-checks the records against the store listing.
func CheckAssets(keys []string, records []*models.LibraryRecord, scanner *orphans.Scanner) *AssetReport {
	scan := scanner.Scan(keys, records)
	report := &AssetReport{
		Records:    len(records),
		Missing:    scan.Missing,
		Duplicates: scan.Duplicates,
		Misfiled:   []Misfiled{},
		Invalid:    []InvalidRecord{},
	}

	classifier := scanner.Classifier()
	for _, rec := range records {
		id, _ := rec.RecordID()
		for _, field := range models.AssetFields {
			k := rec.AssetKey(field)
			if k == nil || *k == "" {
				continue
			}
			if kind := classifier.Classify(*k); kind != fieldKinds[field] {
				report.Misfiled = append(report.Misfiled, Misfiled{RecordID: id, Field: field, Key: *k, Kind: kind})
			}
		}
		if warnings := rec.Check(); len(warnings) > 0 {
			report.Invalid = append(report.Invalid, InvalidRecord{RecordID: id, Title: rec.DisplayTitle(), Warnings: warnings})
		}
	}
	return report
}
