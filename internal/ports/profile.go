package ports

import "context"

// ProfilePort resolves public profile data for players at the table.
type ProfilePort interface {
	// DisplayNames returns the display name of each known user id. Unknown
	// ids are omitted from the result rather than reported as errors.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}
