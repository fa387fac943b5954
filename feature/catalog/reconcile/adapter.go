package reconcile

import (
	"context"

	"library-manager/core/reconcile"
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/store"
)

// Writer is the subset of the catalog store the applier writes through.
type Writer interface {
	Insert(ctx context.Context, rec *models.LibraryRecord) (int, error)
	Update(ctx context.Context, rec *models.LibraryRecord) error
	SetTags(ctx context.Context, id int, tags models.TagSet) error
}

var _ Writer = (*store.Store)(nil)

// CatalogMutator binds the generic applier to the catalog store.
type CatalogMutator struct {
	writer Writer
}

var _ reconcile.Mutator[*models.LibraryRecord] = (*CatalogMutator)(nil)

// NewMutator creates a mutator writing through w.
func NewMutator(w Writer) *CatalogMutator {
	return &CatalogMutator{writer: w}
}

// Insert creates the record.
func (m *CatalogMutator) Insert(ctx context.Context, rec *models.LibraryRecord) (int, error) {
	return m.writer.Insert(ctx, rec)
}

// SetTags replaces the persisted tags with rec's tags.
func (m *CatalogMutator) SetTags(ctx context.Context, rec *models.LibraryRecord) error {
	id, ok := rec.RecordID()
	if !ok {
		return store.ErrNoID
	}
	return m.writer.SetTags(ctx, id, rec.Tags)
}

// Update rewrites the persisted scalar fields.
func (m *CatalogMutator) Update(ctx context.Context, rec *models.LibraryRecord) error {
	return m.writer.Update(ctx, rec)
}

// Rows are parsed snapshot rows.
type Rows = []reconcile.Row[*models.LibraryRecord]

// Plan is a catalog reconciliation plan.
type Plan = reconcile.Plan[*models.LibraryRecord]

// BuildPlan indexes the current database records and plans the rows against them.
func BuildPlan(rows Rows, current []*models.LibraryRecord) (*Plan, error) {
	return reconcile.BuildPlan(rows, reconcile.IndexByID(current))
}
