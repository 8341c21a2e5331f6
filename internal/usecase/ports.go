package usecase

import (
	"context"

	"github.com/stashit/stashit/internal/domain"
)

// UserRepository defines persistence/lookup for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// ContentRepository defines storage operations for saved content.
type ContentRepository interface {
	Create(ctx context.Context, content domain.Content) (domain.Content, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error)
	// Delete removes the row matching both id and owner and reports how many
	// rows went away. A non-owned id matches nothing.
	Delete(ctx context.Context, id string, ownerID string) (int64, error)
}

// ShareLinkRepository defines persistence/lookup for share links.
// The storage layer enforces at most one link per owner.
type ShareLinkRepository interface {
	Create(ctx context.Context, link domain.ShareLink) error
	GetByOwner(ctx context.Context, ownerID string) (domain.ShareLink, error)
	GetByHash(ctx context.Context, hash string) (domain.ShareLink, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// VectorIndex is the hosted similarity index holding one entry per content
// row, keyed by the content id and partitioned by owner metadata.
type VectorIndex interface {
	Upsert(ctx context.Context, entry domain.VectorEntry) error
	Delete(ctx context.Context, id string) error
	// Query embeds the raw query text and returns up to limit hits whose
	// owner metadata equals ownerID. The owner filter must never be omitted.
	Query(ctx context.Context, query string, ownerID string, limit int) ([]domain.VectorHit, error)
}
