// Package profile provisions the per-user profile row that every other
// owned record hangs off. Provisioning is idempotent: it runs on every
// sign-in and converges to the same row.
package profile

import (
	"context"
	"fmt"

	"github.com/sidworks/gp/internal/auth"
	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
)

// ProvisioningError reports that the profile row could not be written.
// Callers treat it as fatal for the session bootstrap: without a profile
// row the rest of the data model has nothing to attach to.
type ProvisioningError struct {
	UserID string
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision profile for %s: %v", e.UserID, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// Ensure upserts the profile row for id. The display name falls back from
// the account's full name, to the email, to a generic placeholder, so the
// row is never created nameless.
func Ensure(ctx context.Context, store storage.RemoteStore, id auth.Identity) (*types.Profile, error) {
	p := &types.Profile{
		ID:       id.ID,
		FullName: DisplayName(id),
		Role:     types.DefaultRole,
	}
	if err := store.UpsertProfile(ctx, p); err != nil {
		return nil, &ProvisioningError{UserID: id.ID, Err: err}
	}
	return p, nil
}

// DisplayName picks the best available name for an identity.
func DisplayName(id auth.Identity) string {
	if id.FullName != "" {
		return id.FullName
	}
	if id.Email != "" {
		return id.Email
	}
	return "User"
}
