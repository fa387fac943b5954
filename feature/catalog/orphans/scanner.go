package orphans

import (
	"fmt"
	"strings"

	"library-manager/feature/catalog/models"

	"go.uber.org/zap"
)

// UnknownAssetKindError reports an unreferenced key with an unrecognized extension.
// It is logged, never returned from Scan.
type UnknownAssetKindError struct {
	Key string
}

func (e *UnknownAssetKindError) Error() string {
	return fmt.Sprintf("unrecognized asset kind for key %q", e.Key)
}

// Duplicate is a key referenced by the same asset field of more than one record.
type Duplicate struct {
	Key       string            `json:"key"`
	Field     models.AssetField `json:"field"`
	RecordIDs []int             `json:"record_ids"`
}

// MissingAsset is a key referenced by a record but absent from the store.
type MissingAsset struct {
	RecordID int               `json:"record_id"`
	Field    models.AssetField `json:"field"`
	Key      string            `json:"key"`
}

// SecondaryMatch pairs a record lacking a secondary e-book with an unreferenced
// secondary e-book sharing its primary e-book's name.
type SecondaryMatch struct {
	RecordID   int    `json:"record_id"`
	PrimaryKey string `json:"primary_key"`
	Key        string `json:"key"`
}

// Report is the result of one scan. Key lists keep store listing order.
type Report struct {
	PrimaryEbooks   []string         `json:"primary_ebooks"`
	SecondaryEbooks []string         `json:"secondary_ebooks"`
	Audiobooks      []string         `json:"audiobooks"`
	Unrecognized    []string         `json:"unrecognized"`
	Duplicates      []Duplicate      `json:"duplicates"`
	Missing         []MissingAsset   `json:"missing"`
	Matches         []SecondaryMatch `json:"secondary_matches"`
}

// Orphans returns every unreferenced key of the given kind.
func (r *Report) Orphans(kind Kind) []string {
	switch kind {
	case KindPrimaryEbook:
		return r.PrimaryEbooks
	case KindSecondaryEbook:
		return r.SecondaryEbooks
	case KindAudiobook:
		return r.Audiobooks
	default:
		return r.Unrecognized
	}
}

// Clean reports whether the scan found nothing to triage.
func (r *Report) Clean() bool {
	return len(r.PrimaryEbooks)+len(r.SecondaryEbooks)+len(r.Audiobooks)+
		len(r.Unrecognized)+len(r.Duplicates)+len(r.Missing) == 0
}

// Scanner compares a store listing with the catalog.
type Scanner struct {
	classifier *Classifier
	logger     *zap.Logger
}

// NewScanner creates a scanner. A nil classifier uses DefaultClassifier.
func NewScanner(classifier *Classifier, logger *zap.Logger) *Scanner {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{classifier: classifier, logger: logger}
}

// Classifier returns the scanner's classifier.
func (s *Scanner) Classifier() *Classifier {
	return s.classifier
}

// Scan partitions unreferenced keys by kind and reports duplicate and missing references.
// Folder placeholder keys (ending in "/") are ignored. It is read only over its inputs.
func (s *Scanner) Scan(keys []string, records []*models.LibraryRecord) *Report {
	report := &Report{
		PrimaryEbooks:   []string{},
		SecondaryEbooks: []string{},
		Audiobooks:      []string{},
		Unrecognized:    []string{},
		Duplicates:      []Duplicate{},
		Missing:         []MissingAsset{},
		Matches:         []SecondaryMatch{},
	}

	referenced := make(map[string]struct{})
	type fieldKey struct {
		field models.AssetField
		key   string
	}
	refs := make(map[fieldKey][]int)
	var refOrder []fieldKey

	for _, rec := range records {
		id, _ := rec.RecordID()
		for _, field := range models.AssetFields {
			k := rec.AssetKey(field)
			if k == nil || *k == "" {
				continue
			}
			referenced[*k] = struct{}{}
			fk := fieldKey{field: field, key: *k}
			if _, seen := refs[fk]; !seen {
				refOrder = append(refOrder, fk)
			}
			refs[fk] = append(refs[fk], id)
		}
	}

	for _, fk := range refOrder {
		if ids := refs[fk]; len(ids) > 1 {
			report.Duplicates = append(report.Duplicates, Duplicate{Key: fk.key, Field: fk.field, RecordIDs: ids})
		}
	}

	inStore := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		if _, dup := inStore[key]; dup {
			continue
		}
		inStore[key] = struct{}{}

		if _, ok := referenced[key]; ok {
			continue
		}
		switch kind := s.classifier.Classify(key); kind {
		case KindPrimaryEbook:
			report.PrimaryEbooks = append(report.PrimaryEbooks, key)
		case KindSecondaryEbook:
			report.SecondaryEbooks = append(report.SecondaryEbooks, key)
		case KindAudiobook:
			report.Audiobooks = append(report.Audiobooks, key)
		default:
			report.Unrecognized = append(report.Unrecognized, key)
			s.logger.Warn("Skipping unreferenced object", zap.Error(&UnknownAssetKindError{Key: key}))
		}
	}

	for _, rec := range records {
		id, _ := rec.RecordID()
		for _, field := range models.AssetFields {
			k := rec.AssetKey(field)
			if k == nil || *k == "" {
				continue
			}
			if _, ok := inStore[*k]; !ok {
				report.Missing = append(report.Missing, MissingAsset{RecordID: id, Field: field, Key: *k})
			}
		}
	}

	report.Matches = s.matchSecondary(report.SecondaryEbooks, records)
	return report
}

// matchSecondary pairs each record that has a primary but no secondary e-book
// with an orphan of the same stem. The stem comparison is exact; only the
// extension is case-insensitive. Each orphan is offered to one record at most.
func (s *Scanner) matchSecondary(candidates []string, records []*models.LibraryRecord) []SecondaryMatch {
	byStem := make(map[string]string, len(candidates))
	for _, key := range candidates {
		stem, _ := s.classifier.Split(key)
		if _, taken := byStem[stem]; !taken {
			byStem[stem] = key
		}
	}

	matches := []SecondaryMatch{}
	for _, rec := range records {
		id, ok := rec.RecordID()
		if !ok || !isBlankKey(rec.MobiObjectKey) || isBlankKey(rec.EpubObjectKey) {
			continue
		}
		stem, kind := s.classifier.Split(*rec.EpubObjectKey)
		if kind != KindPrimaryEbook {
			continue
		}
		key, found := byStem[stem]
		if !found {
			continue
		}
		delete(byStem, stem)
		matches = append(matches, SecondaryMatch{RecordID: id, PrimaryKey: *rec.EpubObjectKey, Key: key})
	}
	return matches
}

func isBlankKey(k *string) bool {
	return k == nil || *k == ""
}
