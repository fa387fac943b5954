// Package reconcile adapts the generic planner and applier to the catalog.
//
// CatalogMutator implements the core reconcile.Mutator for *models.LibraryRecord
// on top of the catalog store.
package reconcile
