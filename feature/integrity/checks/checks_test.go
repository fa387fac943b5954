package checks

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"library-manager/core/database"
	"library-manager/core/storage/mocks"
	"library-manager/core/utils"
	"library-manager/feature/catalog/models"
	"library-manager/feature/catalog/orphans"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func showColumns(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, n := range names {
		typ := "varchar(255)"
		if n == "acq_date" {
			typ = "date"
		}
		rows.AddRow(n, typ, "YES", "", nil, "")
	}
	return rows
}

func TestCheckStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("counts by kind", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "library").Return(true, nil)
		client.On("ListObjects", mock.Anything, "library", mock.Anything).
			Return(mocks.Keys("a.epub", "B.EPUB", "c.mobi", "d.m4b", "covers/", "notes.txt"))

		report, err := CheckStorage(ctx, client, "library", "", orphans.DefaultClassifier())
		require.NoError(t, err)
		assert.Equal(t, 5, report.Objects)
		assert.Equal(t, 2, report.ByKind[orphans.KindPrimaryEbook])
		assert.Equal(t, 1, report.ByKind[orphans.KindSecondaryEbook])
		assert.Equal(t, 1, report.ByKind[orphans.KindAudiobook])
		assert.Equal(t, 1, report.ByKind[orphans.KindUnrecognized])
	})

	t.Run("missing bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "library").Return(false, nil)

		_, err := CheckStorage(ctx, client, "library", "", orphans.DefaultClassifier())
		assert.ErrorIs(t, err, ErrBucketMissing)
	})

	t.Run("bucket lookup fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "library").Return(false, errors.New("unreachable"))

		_, err := CheckStorage(ctx, client, "library", "", orphans.DefaultClassifier())
		assert.ErrorContains(t, err, "unreachable")
	})

	t.Run("listing fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "library").Return(true, nil)
		client.On("ListObjects", mock.Anything, "library", mock.Anything).
			Return(mocks.Objects(minio.ObjectInfo{Err: errors.New("denied")}))

		_, err := CheckStorage(ctx, client, "library", "", orphans.DefaultClassifier())
		assert.ErrorContains(t, err, "denied")
	})
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.Nil(t, report)
}

func TestCheckSchema_Matched(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `books`")).WillReturnRows(showColumns(models.BookColumns...))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `tags`")).WillReturnRows(showColumns(models.TagColumns...))

	report, err := CheckSchema(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["books"].Status)
	assert.Equal(t, "ok", report.Tables["tags"].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_MissingAndMismatched(t *testing.T) {
	db, mock := setupMockDB(t)

	books := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, c := range models.BookColumns {
		switch c {
		case "asin":
			continue
		case "acq_date":
			books.AddRow(c, "varchar(10)", "YES", "", nil, "")
		default:
			books.AddRow(c, "varchar(255)", "YES", "", nil, "")
		}
	}
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `books`")).WillReturnRows(books)
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `tags`")).WillReturnError(errors.New("table missing"))

	report, err := CheckSchema(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["books"]
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"asin"}, tbl.MissingColumns)
	assert.Equal(t, []string{"acq_date: expected date, got varchar(10)"}, tbl.TypeMismatches)

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "tags")
}

func TestCheckSchema_SQLiteAfterMigrate(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Book{}, &models.Tag{}))

	report, err := CheckSchema(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
}

func TestCheckAssets(t *testing.T) {
	rec := func(id int, title string, field models.AssetField, key string) *models.LibraryRecord {
		r := &models.LibraryRecord{ID: utils.Ptr(id), Author: utils.Ptr("Author"), Tags: models.NewTagSet()}
		if title != "" {
			r.Title = utils.Ptr(title)
		}
		switch field {
		case models.FieldEpub:
			r.EpubObjectKey = utils.Ptr(key)
		case models.FieldMobi:
			r.MobiObjectKey = utils.Ptr(key)
		case models.FieldAudiobook:
			r.AudiobookObjectKey = utils.Ptr(key)
		}
		return r
	}

	records := []*models.LibraryRecord{
		rec(1, "Fine", models.FieldEpub, "fine.epub"),
		rec(2, "Gone", models.FieldEpub, "gone.epub"),
		rec(3, "Dup", models.FieldEpub, "dup.epub"),
		rec(4, "Dup again", models.FieldEpub, "dup.epub"),
		rec(5, "Wrong slot", models.FieldAudiobook, "talk.epub"),
		rec(6, "", models.FieldMobi, "untitled.mobi"),
	}
	keys := []string{"fine.epub", "dup.epub", "talk.epub", "untitled.mobi"}

	report := CheckAssets(keys, records, orphans.NewScanner(orphans.DefaultClassifier(), zap.NewNop()))

	assert.False(t, report.Healthy())
	assert.Equal(t, 6, report.Records)
	assert.Equal(t, []orphans.MissingAsset{{RecordID: 2, Field: models.FieldEpub, Key: "gone.epub"}}, report.Missing)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "dup.epub", report.Duplicates[0].Key)
	assert.Equal(t, []int{3, 4}, report.Duplicates[0].RecordIDs)
	assert.Equal(t, []Misfiled{{RecordID: 5, Field: models.FieldAudiobook, Key: "talk.epub", Kind: orphans.KindPrimaryEbook}}, report.Misfiled)
	require.Len(t, report.Invalid, 1)
	assert.Equal(t, 6, report.Invalid[0].RecordID)
	assert.Equal(t, []string{"title is required"}, report.Invalid[0].Warnings)
}

func TestCheckAssets_Healthy(t *testing.T) {
	r := &models.LibraryRecord{ID: utils.Ptr(1), Title: utils.Ptr("T"), Author: utils.Ptr("A"), EpubObjectKey: utils.Ptr("t.epub")}
	report := CheckAssets([]string{"t.epub"}, []*models.LibraryRecord{r}, orphans.NewScanner(orphans.DefaultClassifier(), zap.NewNop()))
	assert.True(t, report.Healthy())
}
