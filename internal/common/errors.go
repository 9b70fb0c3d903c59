// Package common defines the error taxonomy shared by the staffdir cache,
// its remote adapters and its service surfaces. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned by lookups that address a single record.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks failures of the local durable store.
	ErrStorage = errors.New("storage error")

	// ErrTransport marks failures reaching the remote source of truth,
	// including timeouts and non-success statuses.
	ErrTransport = errors.New("transport error")

	// ErrDataShape marks a remote record that cannot be mapped onto an Employee.
	ErrDataShape = errors.New("malformed remote record")
)
