package reconcile

import (
	"context"
	"sort"
)

// BuildPlan classifies every row against the database index.
// It does NOT execute anything; use ApplyPlan for that.
// Rows sharing an id are rejected with a DuplicateIDError before any entry is planned.
func BuildPlan[T Record[T]](rows []Row[T], index map[int]T) (*Plan[T], error) {
	if err := checkDuplicateIDs(rows); err != nil {
		return nil, err
	}

	plan := &Plan[T]{Entries: make([]Entry[T], 0, len(rows))}
	for _, row := range rows {
		action, matched, reason := Classify(row.Record, index)

		entry := Entry[T]{
			Row:     row.Index,
			Record:  row.Record,
			Matched: matched,
			Action:  action,
			Reason:  reason,
		}
		if c, ok := any(row.Record).(Checker); ok {
			entry.Warnings = c.Check()
		}

		plan.Summary.TotalRows++
		plan.Summary.count(action)
		if len(entry.Warnings) > 0 {
			plan.Summary.Warnings++
		}
		plan.Entries = append(plan.Entries, entry)
	}
	return plan, nil
}

// ApplyPlan executes the plan entries in order through the mutator.
// Returns the number of entries written and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
//
// The first failure aborts the run with a *DatabaseWriteError. Entries applied
// before it are not rolled back.
func ApplyPlan[T Record[T]](ctx context.Context, m Mutator[T], plan *Plan[T], opts Options) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	for i := range plan.Entries {
		entry := &plan.Entries[i]
		if entry.Action == ActionNoOp {
			continue
		}
		if err := applyEntry(ctx, m, entry); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

func applyEntry[T Record[T]](ctx context.Context, m Mutator[T], entry *Entry[T]) error {
	fail := func(err error) error {
		id, _ := entry.Record.RecordID()
		if entry.Action == ActionInsert {
			id = 0
		}
		return &DatabaseWriteError{Row: entry.Row, RecordID: id, Action: entry.Action, Err: err}
	}

	switch entry.Action {
	case ActionInsert:
		id, err := m.Insert(ctx, entry.Record)
		if err != nil {
			return fail(err)
		}
		entry.Record.SetRecordID(id)
	case ActionUpdateTags:
		if err := m.SetTags(ctx, entry.Record); err != nil {
			return fail(err)
		}
	case ActionUpdateMetadata:
		if err := m.Update(ctx, entry.Record); err != nil {
			return fail(err)
		}
	case ActionUpdateTagsAndMetadata:
		// Tags first so a tag failure stops before the metadata write.
		if err := m.SetTags(ctx, entry.Record); err != nil {
			return fail(err)
		}
		if err := m.Update(ctx, entry.Record); err != nil {
			return fail(err)
		}
	}
	return nil
}

// PlanAndApply is a convenience wrapper that plans and optionally applies.
// It returns the plan, number of entries executed, and any error.
func PlanAndApply[T Record[T]](ctx context.Context, m Mutator[T], rows []Row[T], index map[int]T, opts Options) (*Plan[T], int, error) {
	plan, err := BuildPlan(rows, index)
	if err != nil {
		return nil, 0, err
	}
	executed, err := ApplyPlan(ctx, m, plan, opts)
	return plan, executed, err
}

func checkDuplicateIDs[T Record[T]](rows []Row[T]) error {
	seen := make(map[int][]int)
	for _, row := range rows {
		if id, ok := row.Record.RecordID(); ok {
			seen[id] = append(seen[id], row.Index)
		}
	}

	var dupIDs []int
	for id, idxs := range seen {
		if len(idxs) > 1 {
			dupIDs = append(dupIDs, id)
		}
	}
	if len(dupIDs) == 0 {
		return nil
	}
	// Report the duplicate that appears first in the snapshot.
	sort.Slice(dupIDs, func(i, j int) bool {
		return seen[dupIDs[i]][0] < seen[dupIDs[j]][0]
	})
	return &DuplicateIDError{ID: dupIDs[0], Rows: seen[dupIDs[0]]}
}
