package nakama

import (
	"context"
	"fmt"

	"skull/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaProfileAdapter implements ports.ProfilePort using Nakama's user API.
type NakamaProfileAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaProfileAdapter creates a new profile adapter.
func NewNakamaProfileAdapter(nk runtime.NakamaModule) *NakamaProfileAdapter {
	return &NakamaProfileAdapter{nk: nk}
}

// DisplayNames looks the users up in one batch, falling back to the
// username when no display name is set.
func (a *NakamaProfileAdapter) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}
	users, err := a.nk.UsersGetId(ctx, userIDs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		name := u.GetDisplayName()
		if name == "" {
			name = u.GetUsername()
		}
		names[u.GetId()] = name
	}
	return names, nil
}

var _ ports.ProfilePort = (*NakamaProfileAdapter)(nil)
