package client

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallMapping = FieldMapping{
	ID:         "id",
	Name:       "nombre",
	Location:   "centro_costo_copia",
	Brand:      "marca",
	TenureDays: "permanencia_dias",
	Status:     "estado",
}

func TestPostgres_ListActive_QuotedParameterizedQuery(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	c := NewPostgresClient(db, "staff.colaboradores", smallMapping, "Activo", nil)
	t.Cleanup(func() { _ = c.Close() })

	rows := sqlmock.NewRows([]string{"id", "nombre", "centro_costo_copia", "marca", "permanencia_dias"}).
		AddRow("1", "Ana", "Quito", "KFC", int64(30)).
		AddRow("2", nil, "Quito", "KFC", nil).
		AddRow([]byte("3"), []byte("Bruno"), "Quito", "KFC", nil)

	mock.ExpectQuery(`SELECT "id", "nombre", "centro_costo_copia", "marca", "permanencia_dias" FROM "staff"."colaboradores" WHERE "estado" = $1 AND "marca" = $2 ORDER BY "nombre"`).
		WithArgs("Activo", "KFC").
		WillReturnRows(rows)

	got, err := c.ListActive(context.Background(), models.Filters{Brand: "KFC"})
	require.NoError(t, err)
	require.Len(t, got, 2, "the row without a name is skipped")

	assert.Equal(t, "1", got[0].ID)
	require.NotNil(t, got[0].TenureDays)
	assert.Equal(t, 30, *got[0].TenureDays)
	assert.Equal(t, "3", got[1].ID)
	assert.Equal(t, "Bruno", got[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CountActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	c := NewPostgresClient(db, "", smallMapping, "Activo", nil)
	t.Cleanup(func() { _ = c.Close() })

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "colaboradores" WHERE "estado" = $1`)).
		WithArgs("Activo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	n, err := c.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ErrorsAreTransport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	c := NewPostgresClient(db, "", smallMapping, "", nil)
	t.Cleanup(func() { _ = c.Close() })

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection refused"))
	mock.ExpectQuery(`SELECT "id"`).WillReturnError(errors.New("connection refused"))

	_, err = c.CountActive(context.Background())
	require.ErrorIs(t, err, common.ErrTransport)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = c.ListActive(context.Background(), models.Filters{})
	require.ErrorIs(t, err, common.ErrTransport)
}

func TestNew_SelectsImplementation(t *testing.T) {
	c, err := New(Options{Kind: KindAirtable, AirtableBase: "b", AirtableTable: "t"})
	require.NoError(t, err)
	assert.IsType(t, &AirtableClient{}, c)

	c, err = New(Options{Kind: KindPostgres, PostgresDSN: "postgres://u:p@127.0.0.1:1/db", Mapping: "legacy"})
	require.NoError(t, err)
	assert.IsType(t, &PostgresClient{}, c)
	require.NoError(t, c.Close())

	_, err = New(Options{Kind: KindAirtable})
	require.Error(t, err)

	_, err = New(Options{Kind: KindPostgres})
	require.Error(t, err)

	_, err = New(Options{Kind: "ftp"})
	require.Error(t, err)

	_, err = New(Options{Mapping: "unknown"})
	require.Error(t, err)
}
