package reconcile

import (
	"context"
	"maps"
	"sort"

	"github.com/stretchr/testify/mock"
)

// book is a minimal Record used to exercise the generic planner.
type book struct {
	id    *int
	title string
	tags  map[string]struct{}
	warn  []string
}

func newBook(id int, title string, tags ...string) *book {
	b := &book{title: title, tags: map[string]struct{}{}}
	if id > 0 {
		b.id = &id
	}
	for _, t := range tags {
		b.tags[t] = struct{}{}
	}
	return b
}

func (b *book) RecordID() (int, bool) {
	if b.id == nil {
		return 0, false
	}
	return *b.id, true
}

func (b *book) SetRecordID(id int) { b.id = &id }

func (b *book) Equal(o *book) bool {
	return b.title == o.title && b.TagsEqual(o) && sameID(b.id, o.id)
}

func (b *book) TagsEqual(o *book) bool {
	return maps.Equal(b.tags, o.tags)
}

func (b *book) WithTagsOf(o *book) *book {
	c := *b
	c.tags = maps.Clone(o.tags)
	return &c
}

func (b *book) Check() []string { return b.warn }

func (b *book) sortedTags() []string {
	out := make([]string, 0, len(b.tags))
	for t := range b.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func sameID(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func rowsOf(recs ...*book) []Row[*book] {
	rows := make([]Row[*book], len(recs))
	for i, r := range recs {
		rows[i] = Row[*book]{Index: i + 1, Record: r}
	}
	return rows
}

// mockMutator records calls through testify so tests can assert order.
type mockMutator struct {
	mock.Mock
}

func (m *mockMutator) Insert(ctx context.Context, rec *book) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *mockMutator) SetTags(ctx context.Context, rec *book) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockMutator) Update(ctx context.Context, rec *book) error {
	return m.Called(ctx, rec).Error(0)
}
