// Package client contains the adapters to the remote source of truth of the
// staff directory.
//
// # Overview
//
// The Client interface is what the sync and staleness services consume:
// ListActive for a full pull and CountActive for the lightweight staleness
// probe. Two implementations are provided:
//
//  1. AirtableClient reads the Airtable REST API, following offset
//     pagination and filtering active employees with filterByFormula.
//  2. PostgresClient reads an operational Postgres copy of the same table
//     through the pgx driver.
//
// # Field mapping
//
// Deployments name their columns differently. A FieldMapping translates one
// naming convention into models.Employee; MappingByName returns the known
// variants ("airtable" and "legacy"). Nothing past this package sees raw
// remote field names.
//
// # Error Handling
//
// Every failure reaching the remote wraps common.ErrTransport, plus one of
// ErrUnavailable, ErrUnauthorized or ErrBadStatus. A record that cannot be
// mapped yields an error wrapping common.ErrDataShape and is skipped.
package client
