package consent

import "context"

type Store interface {
	Save(ctx context.Context, pref Preference) error
	// Get returns the stored preference and whether one exists.
	Get(ctx context.Context, userID string) (Preference, bool, error)
	Delete(ctx context.Context, userID string) error
}
