package employees

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/dbx"
)

// lookupBatch keeps IN lists well under SQLite's bound parameter limit.
const lookupBatch = 500

const selectColumns = `id, name, code, title, location, phone, corporate_phone, email,
	company, manager, stage, sex, national_id, brand, area, worker_type, address, sector,
	tenure_days, tenure_months, hire_date, search_blob, last_updated`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, items []models.Employee) error {
	query := `
		INSERT INTO employees (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			title = excluded.title,
			location = excluded.location,
			phone = excluded.phone,
			corporate_phone = excluded.corporate_phone,
			email = excluded.email,
			company = excluded.company,
			manager = excluded.manager,
			stage = excluded.stage,
			sex = excluded.sex,
			national_id = excluded.national_id,
			brand = excluded.brand,
			area = excluded.area,
			worker_type = excluded.worker_type,
			address = excluded.address,
			sector = excluded.sector,
			tenure_days = excluded.tenure_days,
			tenure_months = excluded.tenure_months,
			hire_date = excluded.hire_date,
			search_blob = excluded.search_blob,
			last_updated = excluded.last_updated
	`

	for _, e := range items {
		_, err := r.db.ExecContext(ctx, query,
			e.ID, e.Name, e.Code, e.Title, e.Location, e.Phone, e.CorporatePhone, e.Email,
			e.Company, e.Manager, e.Stage, e.Sex, e.NationalID, e.Brand, e.Area, e.WorkerType,
			e.Address, e.Sector, nullInt(e.TenureDays), nullInt(e.TenureMonths), e.HireDate,
			e.SearchBlob, e.LastUpdated.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert employee %s: %w", e.ID, err)
		}
	}

	return nil
}

func (r *SQLiteRepository) DeleteMissing(ctx context.Context, keep []string) (int, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM employees`)
	if err != nil {
		return 0, fmt.Errorf("failed to select employee ids: %w", err)
	}

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan employee id: %w", err)
		}
		if _, ok := wanted[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("failed to iterate employee ids: %w", err)
	}
	_ = rows.Close()

	for _, id := range stale {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("failed to delete employee %s: %w", id, err)
		}
	}

	return len(stale), nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return fmt.Errorf("failed to delete employees: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.Employee, error) {
	query := `SELECT ` + selectColumns + ` FROM employees ORDER BY name COLLATE NOCASE, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select employees: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *SQLiteRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	found := make(map[string]models.Employee, len(ids))

	for start := 0; start < len(ids); start += lookupBatch {
		end := min(start+lookupBatch, len(ids))
		batch := ids[start:end]

		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := r.db.QueryContext(ctx,
			`SELECT `+selectColumns+` FROM employees WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to select employees by id: %w", err)
		}
		items, err := scanAll(rows)
		_ = rows.Close()
		if err != nil {
			return nil, err
		}
		for _, e := range items {
			found[e.ID] = e
		}
	}

	result := make([]models.Employee, 0, len(found))
	for _, id := range ids {
		if e, ok := found[id]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *SQLiteRepository) Distinct(ctx context.Context, field Field) ([]string, error) {
	col, ok := field.column()
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM employees WHERE `+col+` <> '' ORDER BY `+col)
	if err != nil {
		return nil, fmt.Errorf("failed to select distinct %s: %w", col, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", col, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", col, err)
	}
	return values, nil
}

func (r *SQLiteRepository) CountBy(ctx context.Context, field Field) (map[string]int, error) {
	col, ok := field.column()
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+col+`, COUNT(*) FROM employees GROUP BY `+col)
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", col, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			v string
			n int
		)
		if err := rows.Scan(&v, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s group: %w", col, err)
		}
		counts[v] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s groups: %w", col, err)
	}
	return counts, nil
}

func scanAll(rows *sql.Rows) ([]models.Employee, error) {
	result := []models.Employee{}
	for rows.Next() {
		var (
			e            models.Employee
			tenureDays   sql.NullInt64
			tenureMonths sql.NullInt64
			updated      int64
		)
		err := rows.Scan(
			&e.ID, &e.Name, &e.Code, &e.Title, &e.Location, &e.Phone, &e.CorporatePhone, &e.Email,
			&e.Company, &e.Manager, &e.Stage, &e.Sex, &e.NationalID, &e.Brand, &e.Area, &e.WorkerType,
			&e.Address, &e.Sector, &tenureDays, &tenureMonths, &e.HireDate, &e.SearchBlob, &updated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.TenureDays = intPtr(tenureDays)
		e.TenureMonths = intPtr(tenureMonths)
		e.LastUpdated = time.UnixMilli(updated).UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return result, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
