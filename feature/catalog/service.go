package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"library-manager/core/config"
	"library-manager/core/reconcile"
	"library-manager/core/storage"
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/orphans"
	catalogReconcile "library-manager/feature/catalog/reconcile"
	"library-manager/feature/catalog/snapshot"
	"library-manager/feature/catalog/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned when the service runs without a database connection.
var ErrNoDatabase = errors.New("database not connected")

// Store is the catalog database the service reads and writes.
type Store interface {
	catalogReconcile.Writer
	ListRecords(ctx context.Context) ([]*models.LibraryRecord, error)
	RecordByID(ctx context.Context, id int) (*models.LibraryRecord, error)
}

// ImportResult describes one import run.
type ImportResult struct {
	Plan *catalogReconcile.Plan `json:"plan"`
	// Executed is the number of entries written before the run ended.
	Executed int `json:"executed"`
	// Applied is false for dry runs.
	Applied bool `json:"applied"`
}

// Service handles catalog export, import and scanning.
type Service struct {
	client  storage.Client
	bucket  string
	prefix  string
	logger  *zap.Logger
	store   Store
	scanner *orphans.Scanner
	writer  *snapshot.Writer
	exports singleflight.Group
}

// NewService creates a new catalog service. A nil db leaves the service without a
// database; every operation then fails with ErrNoDatabase.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg config.CatalogConfig) *Service {
	var st Store
	if db != nil {
		st = store.New(db)
	}
	return NewServiceWithStore(client, bucket, logger, st, cfg)
}

// NewServiceWithStore creates a service over an explicit store.
func NewServiceWithStore(client storage.Client, bucket string, logger *zap.Logger, st Store, cfg config.CatalogConfig) *Service {
	classifier := orphans.NewClassifier(cfg.EpubExtensions, cfg.MobiExtensions, cfg.AudiobookExtensions)
	return &Service{
		client:  client,
		bucket:  bucket,
		prefix:  cfg.Prefix,
		logger:  logger,
		store:   st,
		scanner: orphans.NewScanner(classifier, logger),
		writer:  snapshot.NewWriter(),
	}
}

// Scan compares the store listing with the catalog.
func (s *Service) Scan(ctx context.Context) (*orphans.Report, error) {
	records, keys, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(keys, records), nil
}

// Export builds a snapshot of the whole catalog. Concurrent callers share one
// in-flight build; every build reads fresh state. The build is detached from
// the caller's cancellation so one caller leaving does not fail the others.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	ch := s.exports.DoChan("export", func() (any, error) {
		return s.export(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Shared in-flight snapshot export")
		}
		return res.Val.([]byte), nil
	}
}

func (s *Service) export(ctx context.Context) ([]byte, error) {
	records, keys, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := s.scanner.Scan(keys, records)
	if len(report.Duplicates) > 0 {
		s.logger.Warn("Catalog has keys referenced by more than one record", zap.Int("duplicates", len(report.Duplicates)))
	}

	data, err := s.writer.Write(snapshot.Input{
		Records:       records,
		NewEbooks:     report.PrimaryEbooks,
		NewAudiobooks: report.Audiobooks,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exported snapshot",
		zap.Int("records", len(records)),
		zap.Int("new_ebooks", len(report.PrimaryEbooks)),
		zap.Int("new_audiobooks", len(report.Audiobooks)),
	)
	return data, nil
}

// PlanImport parses a snapshot and plans it against the current catalog.
// Nothing is written.
func (s *Service) PlanImport(ctx context.Context, r io.Reader) (*catalogReconcile.Plan, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}

	rows, err := snapshot.Read(r)
	if err != nil {
		return nil, err
	}

	// The index is captured once and never refreshed during the run.
	current, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	return catalogReconcile.BuildPlan(rows, current)
}

// Import plans a snapshot and applies it unless opts says otherwise.
// A write failure stops the run; the result still reports the plan and how
// many entries were written before it.
func (s *Service) Import(ctx context.Context, r io.Reader, opts reconcile.Options) (*ImportResult, error) {
	plan, err := s.PlanImport(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, plan, opts)
}

// Apply writes a plan built by PlanImport, entry by entry, in row order.
// Nothing is written unless opts is confirmed and not a dry run.
func (s *Service) Apply(ctx context.Context, plan *catalogReconcile.Plan, opts reconcile.Options) (*ImportResult, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}

	fields := []zap.Field{
		zap.Int("rows", plan.Summary.TotalRows),
		zap.Int("inserts", plan.Summary.Inserts),
		zap.Int("update_tags", plan.Summary.UpdateTags),
		zap.Int("update_metadata", plan.Summary.UpdateMetadata),
		zap.Int("update_tags_and_metadata", plan.Summary.UpdateTagsAndMetadata),
		zap.Int("no_ops", plan.Summary.NoOps),
	}

	result := &ImportResult{Plan: plan, Applied: opts.Confirmed && !opts.DryRun}
	if !result.Applied {
		s.logger.Info("Planned snapshot import", fields...)
		return result, nil
	}

	var err error
	result.Executed, err = reconcile.ApplyPlan(ctx, catalogReconcile.NewMutator(s.store), plan, opts)
	if err != nil {
		s.logger.Error("Snapshot import stopped", append(fields, zap.Int("executed", result.Executed), zap.Error(err))...)
		return result, err
	}

	s.logger.Info("Applied snapshot import", append(fields, zap.Int("executed", result.Executed))...)
	return result, nil
}

// LinkResult describes one secondary e-book linking run.
type LinkResult struct {
	Matches []orphans.SecondaryMatch `json:"matches"`
	// Linked is the number of records updated.
	Linked int `json:"linked"`
	// Skipped lists the record ids whose secondary e-book was set since the scan.
	Skipped []int `json:"skipped"`
	Applied bool  `json:"applied"`
}

// LinkSecondary sets the secondary e-book key of each matched record.
// Records are re-read first; one that is gone or already has a key is skipped.
// The first write failure stops the run and earlier updates stay committed.
func (s *Service) LinkSecondary(ctx context.Context, matches []orphans.SecondaryMatch, opts reconcile.Options) (*LinkResult, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}

	result := &LinkResult{Matches: matches, Skipped: []int{}, Applied: opts.Confirmed && !opts.DryRun}
	if !result.Applied {
		s.logger.Info("Planned secondary e-book links", zap.Int("matches", len(matches)))
		return result, nil
	}

	for _, m := range matches {
		rec, err := s.store.RecordByID(ctx, m.RecordID)
		if err != nil {
			return result, err
		}
		if rec == nil || rec.MobiObjectKey != nil {
			result.Skipped = append(result.Skipped, m.RecordID)
			continue
		}

		key := m.Key
		rec.MobiObjectKey = &key
		if err := s.store.Update(ctx, rec); err != nil {
			s.logger.Error("Secondary e-book linking stopped",
				zap.Int("record_id", m.RecordID), zap.String("key", m.Key), zap.Int("linked", result.Linked), zap.Error(err))
			return result, err
		}
		result.Linked++
		s.logger.Debug("Linked secondary e-book", zap.Int("record_id", m.RecordID), zap.String("key", m.Key))
	}

	s.logger.Info("Linked secondary e-books", zap.Int("linked", result.Linked), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *Service) load(ctx context.Context) ([]*models.LibraryRecord, []string, error) {
	if s.store == nil {
		return nil, nil, ErrNoDatabase
	}
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	keys, err := storage.ListKeys(ctx, s.client, s.bucket, s.prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return records, keys, nil
}
