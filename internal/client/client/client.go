package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// Client is the remote source of truth for the directory. Implementations
// return records already mapped onto models.Employee; records that cannot be
// mapped are skipped and logged.
type Client interface {
	// ListActive returns every active employee matching the filters.
	ListActive(ctx context.Context, filters models.Filters) ([]models.Employee, error)
	// CountActive returns the number of active employees.
	CountActive(ctx context.Context) (int, error)
	Close() error
}

// Remote kinds accepted by New.
const (
	KindAirtable = "airtable"
	KindPostgres = "postgres"
)

type Options struct {
	Kind         string
	Mapping      string
	ActiveStatus string
	Timeout      time.Duration

	AirtableURL   string
	AirtableBase  string
	AirtableTable string
	AirtableView  string
	AirtableKey   string

	PostgresDSN   string
	PostgresTable string

	Logger logging.Logger
}

// New builds the remote client selected by opts.Kind.
func New(opts Options) (Client, error) {
	mapping, err := MappingByName(opts.Mapping)
	if err != nil {
		return nil, err
	}

	switch opts.Kind {
	case KindAirtable, "":
		if opts.AirtableBase == "" || opts.AirtableTable == "" {
			return nil, fmt.Errorf("airtable base and table must be set")
		}
		return NewAirtableClient(AirtableConfig{
			BaseURL:      opts.AirtableURL,
			Base:         opts.AirtableBase,
			Table:        opts.AirtableTable,
			View:         opts.AirtableView,
			APIKey:       opts.AirtableKey,
			ActiveStatus: opts.ActiveStatus,
			Timeout:      opts.Timeout,
		}, mapping, opts.Logger), nil
	case KindPostgres:
		return OpenPostgres(opts.PostgresDSN, opts.PostgresTable, mapping, opts.ActiveStatus, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown remote kind %q", opts.Kind)
	}
}
