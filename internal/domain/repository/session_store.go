package repository

import "context"

// SessionStore holds at most one refresh-token hash per user.
// Implementations never see raw tokens.
type SessionStore interface {
	// Save overwrites the slot.
	Save(ctx context.Context, userID, hash string) error
	// Get returns ("", nil) for an empty slot.
	Get(ctx context.Context, userID string) (string, error)
	// Swap replaces the slot with next only if it still holds prev.
	// It reports false when another writer got there first.
	Swap(ctx context.Context, userID, prev, next string) (bool, error)
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context, userID string) error
}

// UserRowSlot is implemented by stores that keep the slot in the users row.
// For them the slot is User.HashedRefreshToken as loaded by UserRepository,
// and a separate Get would read the same column again.
type UserRowSlot interface {
	SlotOnUserRow()
}
