package services

import (
	"context"

	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// UpdateChecker compares the remote active count with the local count.
type UpdateChecker struct {
	remote Remote
	store  Store
	log    logging.Logger
}

func NewUpdateChecker(remote Remote, st Store, log logging.Logger) *UpdateChecker {
	return &UpdateChecker{
		remote: remote,
		store:  st,
		log:    logging.OrDiscard(log).With("module", "update_checker"),
	}
}

// CheckForUpdates reports whether the counts differ. Any failure yields
// false, so an unreachable remote never reports updates.
func (u *UpdateChecker) CheckForUpdates(ctx context.Context) bool {
	remote, err := u.remote.CountActive(ctx)
	if err != nil {
		u.log.Warn(ctx, "failed to count remote employees", "error", err)
		return false
	}

	local, err := u.store.Count(ctx)
	if err != nil {
		u.log.Warn(ctx, "failed to count local employees", "error", err)
		return false
	}

	if remote != local {
		u.log.Info(ctx, "updates available", "remote", remote, "local", local)
		return true
	}
	return false
}
