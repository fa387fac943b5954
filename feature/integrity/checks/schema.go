package checks

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"library-manager/core/database"
	"library-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// ErrNoDatabase is returned by checks that need a database when none is connected.
var ErrNoDatabase = errors.New("database connection is nil")

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

type tabler interface {
	TableName() string
}

// catalogModels are the source of truth for the expected schema.
var catalogModels = []tabler{models.Book{}, models.Tag{}}

// CheckSchema verifies the catalog tables against the gorm models.
// A table that cannot be inspected is recorded in Errors and the rest are still checked.
func CheckSchema(ctx context.Context, db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range catalogModels {
		table := model.TableName()
		actual, err := database.GetTableColumns(ctx, db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := compareTable(reflect.TypeOf(model), actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func compareTable(model reflect.Type, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	byName := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		byName[col.Field] = col
	}

	for i := 0; i < model.NumField(); i++ {
		tag := model.Field(i).Tag.Get("gorm")
		name := parseGormColumn(tag)
		if name == "" {
			// Associations carry no column.
			continue
		}

		col, ok := byName[name]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, name)
			tbl.Status = "error"
			continue
		}

		// Only columns with an explicit type are type-checked.
		if want := strings.ToLower(parseGormType(tag)); want != "" && !strings.Contains(col.Type, want) {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", name, want, col.Type))
			tbl.Status = "error"
		}
	}
	return tbl
}

func parseGormColumn(tag string) string {
	return gormSetting(tag, "column:")
}

func parseGormType(tag string) string {
	return gormSetting(tag, "type:")
}

func gormSetting(tag, prefix string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return ""
}
