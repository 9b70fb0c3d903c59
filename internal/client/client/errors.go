package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/staffdir/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadStatus    = errors.New("unexpected response status")
	ErrOffsetLoop   = errors.New("pagination offset repeated")
)

// StatusError is a non-success HTTP answer from the remote source. It
// matches common.ErrTransport and ErrBadStatus, and ErrUnauthorized for
// 401/403.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case common.ErrTransport, ErrBadStatus:
		return true
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	default:
		return false
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w: %w", common.ErrTransport, op, ErrUnavailable, err)
}
