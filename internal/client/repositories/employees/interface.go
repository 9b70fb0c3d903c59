package employees

import (
	"context"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
)

// Repository describes persistence of cached employees.
type Repository interface {
	// Upsert inserts or overwrites each employee by ID. SearchBlob and
	// LastUpdated are stored as given.
	Upsert(ctx context.Context, items []models.Employee) error

	// DeleteMissing removes employees whose ID is not in keep and reports
	// how many were removed.
	DeleteMissing(ctx context.Context, keep []string) (int, error)

	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)

	// List returns up to limit employees ordered by name; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.Employee, error)

	// GetByIDs returns the employees for ids in the requested order,
	// skipping ids that are not stored.
	GetByIDs(ctx context.Context, ids []string) ([]models.Employee, error)

	// Distinct returns the sorted non-empty values of field.
	Distinct(ctx context.Context, field Field) ([]string, error)

	// CountBy groups employees by field. Empty values are counted under "".
	CountBy(ctx context.Context, field Field) (map[string]int, error)
}

// Field names a groupable employee attribute.
type Field string

const (
	FieldLocation Field = "location"
	FieldBrand    Field = "brand"
	FieldArea     Field = "area"
	FieldTitle    Field = "title"
	FieldStage    Field = "stage"
)

func (f Field) column() (string, bool) {
	switch f {
	case FieldLocation, FieldBrand, FieldArea, FieldTitle, FieldStage:
		return string(f), true
	default:
		return "", false
	}
}
