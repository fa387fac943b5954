package store

import (
	"context"
	"errors"
	"fmt"

	"library-manager/core/database"
	"library-manager/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoID is returned when an update targets a record that has no id.
var ErrNoID = errors.New("record has no id")

// Store is the gorm-backed catalog database.
// Each call commits on its own; multi-statement calls use their own transaction.
type Store struct {
	db *gorm.DB
}

// New creates a store over an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// tagColumnDDL gives the MySQL tag column a binary collation. The default
// collation folds case and accents, which would collide "SciFi" and "scifi"
// in the (book_id, tag) primary key.
const tagColumnDDL = "ALTER TABLE `tags` MODIFY `tag` VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

// Migrate creates or updates the 'books' and 'tags' tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Book{}, &models.Tag{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return s.collateTags(ctx)
}

// collateTags makes tag comparison case-sensitive. SQLite already compares bytes.
func (s *Store) collateTags(ctx context.Context) error {
	if s.db.Dialector.Name() != "mysql" {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(tagColumnDDL).Error; err != nil {
		return fmt.Errorf("failed to set tag collation: %w", err)
	}
	return nil
}

// VerifySchema returns the expected columns missing from each catalog table.
// Tables with nothing missing are omitted.
func (s *Store) VerifySchema(ctx context.Context) (map[string][]string, error) {
	expected := map[string][]string{
		models.Book{}.TableName(): models.BookColumns,
		models.Tag{}.TableName():  models.TagColumns,
	}

	missing := make(map[string][]string)
	for table, cols := range expected {
		m, err := database.MissingColumns(ctx, s.db, table, cols)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
		}
		if len(m) > 0 {
			missing[table] = m
		}
	}
	return missing, nil
}

// ListRecords returns every record in ascending id order.
func (s *Store) ListRecords(ctx context.Context) ([]*models.LibraryRecord, error) {
	var books []models.Book
	if err := s.db.WithContext(ctx).Preload("Tags").Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	records := make([]*models.LibraryRecord, len(books))
	for i, b := range books {
		records[i] = b.ToRecord()
	}
	return records, nil
}

// RecordByID returns the record with the given id, or nil if there is none.
func (s *Store) RecordByID(ctx context.Context, id int) (*models.LibraryRecord, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book %d: %w", id, err)
	}
	return book.ToRecord(), nil
}

// Insert creates the record and its tags, returning the id assigned by the database.
// Any id carried by the record is ignored.
func (s *Store) Insert(ctx context.Context, rec *models.LibraryRecord) (int, error) {
	book := models.BookFromRecord(rec)
	book.ID = 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&book).Error; err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}
		if tags := models.TagRows(book.ID, rec.Tags); len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return fmt.Errorf("failed to insert tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return book.ID, nil
}

// Update overwrites every scalar column of the record. Tags are left untouched.
func (s *Store) Update(ctx context.Context, rec *models.LibraryRecord) error {
	id, ok := rec.RecordID()
	if !ok {
		return ErrNoID
	}
	book := models.BookFromRecord(rec)
	err := s.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(book.UpdateColumns()).Error
	if err != nil {
		return fmt.Errorf("failed to update book %d: %w", id, err)
	}
	return nil
}

// SetTags replaces the tag set of a record.
func (s *Store) SetTags(ctx context.Context, id int, tags models.TagSet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return fmt.Errorf("failed to clear tags of book %d: %w", id, err)
		}
		if rows := models.TagRows(id, tags); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to set tags of book %d: %w", id, err)
			}
		}
		return nil
	})
}
