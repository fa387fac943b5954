package integrity

import (
	"context"
	"sync"

	"library-manager/core/config"
	"library-manager/core/storage"
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/orphans"
	"library-manager/feature/catalog/store"
	"library-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Report combines every check. A failed check leaves its section nil and
// records the error under the check's name.
type Report struct {
	Healthy bool                  `json:"healthy"`
	Storage *checks.StorageReport `json:"storage,omitempty"`
	Schema  *checks.SchemaReport  `json:"schema,omitempty"`
	Assets  *checks.AssetReport   `json:"assets,omitempty"`
	Errors  map[string]string     `json:"errors"`
}

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	prefix  string
	logger  *zap.Logger
	db      *gorm.DB
	store   *store.Store
	scanner *orphans.Scanner
}

// NewService creates a new integrity service. db may be nil; the schema and
// asset checks then fail with checks.ErrNoDatabase.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg config.CatalogConfig) *Service {
	var st *store.Store
	if db != nil {
		st = store.New(db)
	}
	classifier := orphans.NewClassifier(cfg.EpubExtensions, cfg.MobiExtensions, cfg.AudiobookExtensions)
	return &Service{
		client:  client,
		bucket:  bucket,
		prefix:  cfg.Prefix,
		logger:  logger,
		db:      db,
		store:   st,
		scanner: orphans.NewScanner(classifier, logger),
	}
}

// CheckStorage verifies the bucket and counts its objects.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, s.prefix, s.scanner.Classifier())
}

// CheckSchema verifies the catalog tables.
func (s *Service) CheckSchema(ctx context.Context) (*checks.SchemaReport, error) {
	return checks.CheckSchema(ctx, s.db)
}

// CheckAssets cross-checks every record's asset keys against the bucket.
func (s *Service) CheckAssets(ctx context.Context) (*checks.AssetReport, error) {
	if s.store == nil {
		return nil, checks.ErrNoDatabase
	}

	var (
		keys    []string
		records []*models.LibraryRecord
	)
	g, ctxGroup := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keys, err = storage.ListKeys(ctxGroup, s.client, s.bucket, s.prefix)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.store.ListRecords(ctxGroup)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return checks.CheckAssets(keys, records, s.scanner), nil
}

// CheckAll runs every check concurrently. Individual failures are reported,
// not returned.
func (s *Service) CheckAll(ctx context.Context) *Report {
	report := &Report{Errors: make(map[string]string)}
	var mu sync.Mutex
	fail := func(name string, err error) {
		s.logger.Warn("Integrity check failed", zap.String("check", name), zap.Error(err))
		mu.Lock()
		report.Errors[name] = err.Error()
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		r, err := s.CheckStorage(ctx)
		if err != nil {
			fail("storage", err)
			return nil
		}
		report.Storage = r
		return nil
	})
	g.Go(func() error {
		r, err := s.CheckSchema(ctx)
		if err != nil {
			fail("schema", err)
			return nil
		}
		report.Schema = r
		return nil
	})
	g.Go(func() error {
		r, err := s.CheckAssets(ctx)
		if err != nil {
			fail("assets", err)
			return nil
		}
		report.Assets = r
		return nil
	})
	_ = g.Wait()

	report.Healthy = len(report.Errors) == 0 &&
		report.Schema.Matched &&
		report.Assets.Healthy()
	return report
}
