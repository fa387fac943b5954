package reconcile

// ActionType represents the database write a plan entry requires.
type ActionType string

const (
	// ActionInsert creates a new record.
	ActionInsert ActionType = "insert"
	// ActionUpdateTags replaces the tag set only.
	ActionUpdateTags ActionType = "update_tags"
	// ActionUpdateMetadata rewrites scalar fields only.
	ActionUpdateMetadata ActionType = "update_metadata"
	// ActionUpdateTagsAndMetadata replaces the tag set, then rewrites scalar fields.
	ActionUpdateTagsAndMetadata ActionType = "update_tags_and_metadata"
	// ActionNoOp requires no write.
	ActionNoOp ActionType = "no_op"
)

// Row is one parsed snapshot row. Index is the 0-based position in the source table.
type Row[T any] struct {
	Index  int
	Record T
}

// Entry is one planned action.
type Entry[T any] struct {
	// Row is the 0-based source row index.
	Row int `json:"row"`

	// Record is the incoming record. After an insert is applied it carries the new id.
	Record T `json:"record"`

	// Matched is the database record with the same id, or the zero value for inserts.
	Matched T `json:"matched,omitempty"`

	// Action is the classified write.
	Action ActionType `json:"action"`

	// Reason explains the classification.
	Reason string `json:"reason"`

	// Warnings are data-quality notes that do not block the write.
	Warnings []string `json:"warnings,omitempty"`
}

// Plan contains the classified entries of one import run, in row order.
type Plan[T any] struct {
	Entries []Entry[T]  `json:"entries"`
	Summary PlanSummary `json:"summary"`
}

// Pending returns the entries that require a database write.
func (p *Plan[T]) Pending() []Entry[T] {
	var out []Entry[T]
	for _, e := range p.Entries {
		if e.Action != ActionNoOp {
			out = append(out, e)
		}
	}
	return out
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// TotalRows is the number of planned rows (header and blank rows excluded).
	TotalRows int `json:"total_rows"`

	Inserts               int `json:"inserts"`
	UpdateTags            int `json:"update_tags"`
	UpdateMetadata        int `json:"update_metadata"`
	UpdateTagsAndMetadata int `json:"update_tags_and_metadata"`
	NoOps                 int `json:"no_ops"`

	// Warnings counts entries carrying at least one warning.
	Warnings int `json:"warnings"`
}

// Writes returns the number of entries that require a database write.
func (s PlanSummary) Writes() int {
	return s.Inserts + s.UpdateTags + s.UpdateMetadata + s.UpdateTagsAndMetadata
}

func (s *PlanSummary) count(a ActionType) {
	switch a {
	case ActionInsert:
		s.Inserts++
	case ActionUpdateTags:
		s.UpdateTags++
	case ActionUpdateMetadata:
		s.UpdateMetadata++
	case ActionUpdateTagsAndMetadata:
		s.UpdateTagsAndMetadata++
	case ActionNoOp:
		s.NoOps++
	}
}

// Options controls plan application.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the operator has confirmed the writes.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
