package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"library-manager/core/database"
	"library-manager/core/utils"
	"library-manager/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return New(db), mock
}

func newRecord(title string, tags ...string) *models.LibraryRecord {
	acq := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.LibraryRecord{
		Title:           utils.Ptr(title),
		Author:          utils.Ptr("X"),
		PublicationYear: utils.Ptr(2020),
		AcquisitionDate: &acq,
		EpubObjectKey:   utils.Ptr(title + ".epub"),
		Tags:            models.NewTagSet(tags...),
	}
}

func TestStore_InsertAndFetch(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	rec := newRecord("Bar", "b", "a")
	id, err := s.Insert(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.RecordByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	rec.SetRecordID(id)
	assert.True(t, rec.Equal(got), "got %+v", got)
	assert.Equal(t, []string{"a", "b"}, got.Tags.Sorted())
}

func TestStore_InsertIgnoresStaleID(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	first, err := s.Insert(ctx, newRecord("One"))
	require.NoError(t, err)

	stale := newRecord("Stale")
	stale.SetRecordID(first)
	id, err := s.Insert(ctx, stale)
	require.NoError(t, err)
	assert.NotEqual(t, first, id)

	one, err := s.RecordByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "One", *one.Title)
}

func TestStore_RecordByIDMissing(t *testing.T) {
	s := setupStore(t)
	got, err := s.RecordByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListRecordsOrdered(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, title := range []string{"c", "a", "b"} {
		_, err := s.Insert(ctx, newRecord(title, title))
		require.NoError(t, err)
	}

	records, err := s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i+1, *r.ID)
	}
	assert.Equal(t, "c", *records[0].Title)
	assert.True(t, records[0].Tags.Has("c"))
}

func TestStore_UpdateClearsFields(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Insert(ctx, newRecord("Foo", "x"))
	require.NoError(t, err)

	rec, err := s.RecordByID(ctx, id)
	require.NoError(t, err)
	rec.Title = utils.Ptr("Foo (Revised)")
	rec.PublicationYear = nil
	rec.Series = utils.Ptr("Saga")
	rec.SeriesSequence = utils.Ptr(2)
	rec.Tags = models.NewTagSet("ignored")
	require.NoError(t, s.Update(ctx, rec))

	got, err := s.RecordByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.MetadataEqual(got))
	assert.Nil(t, got.PublicationYear)
	assert.Equal(t, []string{"x"}, got.Tags.Sorted(), "update must not touch tags")
}

func TestStore_UpdateWithoutID(t *testing.T) {
	s := setupStore(t)
	err := s.Update(context.Background(), newRecord("NoID"))
	assert.ErrorIs(t, err, ErrNoID)
}

func TestStore_SetTags(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Insert(ctx, newRecord("Foo", "x", "y"))
	require.NoError(t, err)

	require.NoError(t, s.SetTags(ctx, id, models.NewTagSet("y", "z")))
	got, err := s.RecordByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, got.Tags.Sorted())

	require.NoError(t, s.SetTags(ctx, id, models.NewTagSet()))
	got, err = s.RecordByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "Foo", *got.Title)
}

func TestStore_VerifySchema(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	missing, err := s.VerifySchema(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, s.db.Migrator().DropColumn(&models.Book{}, "asin"))
	missing, err = s.VerifySchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"books": {"asin"}}, missing)
}

func TestStore_InsertFailureRollsBackCall(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `books`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	id, err := s.Insert(context.Background(), newRecord("Bar", "a"))
	assert.Zero(t, id)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetTagsFailure(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `tags`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `tags`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SetTags(context.Background(), 3, models.NewTagSet("a"))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "book 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TagsAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Insert(ctx, newRecord("Case", "SciFi", "scifi"))
	require.NoError(t, err)
	require.NoError(t, s.SetTags(ctx, id, models.NewTagSet("Café", "cafe", "SciFi", "scifi")))

	got, err := s.RecordByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Café", "SciFi", "cafe", "scifi"}, got.Tags.Sorted())
}

func TestStore_CollateTagsOnMySQL(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"ALTER TABLE `tags` MODIFY `tag` VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.collateTags(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CollateTagsFailure(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectExec("ALTER TABLE `tags`").WillReturnError(assert.AnError)

	err := s.collateTags(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CollateTagsSkipsSQLite(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.collateTags(context.Background()))
}
