package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultPostgresTable is the staff table read by PostgresClient.
const DefaultPostgresTable = "colaboradores"

// PostgresClient lists employees from a Postgres table whose columns follow
// a FieldMapping.
type PostgresClient struct {
	db           *sql.DB
	table        string
	mapping      FieldMapping
	activeStatus string
	log          logging.Logger
}

// OpenPostgres opens a pgx-backed pool for dsn. The connection is
// established lazily, so an unreachable server surfaces on first use.
func OpenPostgres(dsn, table string, mapping FieldMapping, activeStatus string, log logging.Logger) (*PostgresClient, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must be set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	return NewPostgresClient(db, table, mapping, activeStatus, log), nil
}

func NewPostgresClient(db *sql.DB, table string, mapping FieldMapping, activeStatus string, log logging.Logger) *PostgresClient {
	if table == "" {
		table = DefaultPostgresTable
	}
	return &PostgresClient{
		db:           db,
		table:        table,
		mapping:      mapping,
		activeStatus: activeStatus,
		log:          logging.OrDiscard(log).With("module", "postgres_client"),
	}
}

func (c *PostgresClient) ListActive(ctx context.Context, filters models.Filters) ([]models.Employee, error) {
	cols := c.mapping.columns()
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = ident(col)
	}

	where, args := c.where(filters)
	query := "SELECT " + strings.Join(quoted, ", ") + " FROM " + c.tableIdent() + where
	if c.mapping.Name != "" {
		query += " ORDER BY " + ident(c.mapping.Name)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("postgres list", err)
	}
	defer rows.Close()

	result := []models.Employee{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, unavailable("postgres scan", err)
		}

		fields := make(map[string]any, len(cols))
		for i, col := range cols {
			fields[col] = values[i]
		}

		e, err := c.mapping.Decode("", fields)
		if err != nil {
			c.log.Warn(ctx, "skipping malformed record", "error", err)
			continue
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("postgres iterate", err)
	}

	return result, nil
}

func (c *PostgresClient) CountActive(ctx context.Context) (int, error) {
	where, args := c.where(models.Filters{})

	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.tableIdent()+where, args...).Scan(&n); err != nil {
		return 0, unavailable("postgres count", err)
	}
	return n, nil
}

func (c *PostgresClient) Close() error {
	return c.db.Close()
}

func (c *PostgresClient) where(f models.Filters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if c.mapping.Status != "" && c.activeStatus != "" {
		args = append(args, c.activeStatus)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", ident(c.mapping.Status), len(args)))
	}
	for _, p := range c.mapping.filterFields(f) {
		args = append(args, p[1])
		clauses = append(clauses, fmt.Sprintf("%s = $%d", ident(p[0]), len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (c *PostgresClient) tableIdent() string {
	return pgx.Identifier(strings.Split(c.table, ".")).Sanitize()
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
