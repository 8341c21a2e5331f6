package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/stashit/stashit/internal/domain"
)

const (
	shareHashLength   = 10
	shareHashAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ContentInput is the validated input for saving a piece of content.
type ContentInput struct {
	Title   string
	Link    string
	Type    string
	OwnerID string
}

// ContentUsecase orchestrates the record store and the vector index.
// The record store is authoritative; the index is a derived projection that
// may lag behind it but never lead.
type ContentUsecase struct {
	contents ContentRepository
	shares   ShareLinkRepository
	users    UserRepository
	index    VectorIndex
	logger   *slog.Logger
}

func NewContentUsecase(
	contents ContentRepository,
	shares ShareLinkRepository,
	users UserRepository,
	index VectorIndex,
) *ContentUsecase {
	return &ContentUsecase{
		contents: contents,
		shares:   shares,
		users:    users,
		index:    index,
		logger:   slog.Default().With("component", "content"),
	}
}

// SearchableDocument renders a content row as the single string stored in
// the vector index.
func SearchableDocument(title, typ, link string) string {
	return fmt.Sprintf("%s - %s: %s", title, typ, link)
}

// Create persists the content row, then projects it into the vector index.
// An index failure is logged and swallowed: the row already exists and is
// not rolled back, so the item may transiently be missing from search.
func (uc *ContentUsecase) Create(ctx context.Context, input ContentInput) (domain.Content, error) {
	content := domain.Content{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Link:      input.Link,
		Type:      input.Type,
		Tags:      []domain.Tag{},
		OwnerID:   input.OwnerID,
		CreatedAt: time.Now().UTC(),
	}

	created, err := uc.contents.Create(ctx, content)
	if err != nil {
		return domain.Content{}, pkgerrors.Wrap(err, "ContentUsecase.Create: persisting content failed")
	}

	entry := domain.VectorEntry{
		ID:       created.ID,
		Document: SearchableDocument(created.Title, created.Type, created.Link),
		Meta: domain.ContentMeta{
			Title:     created.Title,
			Type:      created.Type,
			Link:      created.Link,
			UserID:    created.OwnerID,
			CreatedAt: created.CreatedAt.Format(time.RFC3339),
		},
	}

	if err := uc.index.Upsert(ctx, entry); err != nil {
		uc.logger.Warn("vector index insert failed, content will be missing from search",
			"contentId", created.ID, "err", err)
	}

	return created, nil
}

// List returns the caller's content, newest first.
func (uc *ContentUsecase) List(ctx context.Context, ownerID string) ([]domain.Content, error) {
	return uc.contents.ListByOwner(ctx, ownerID)
}

// Delete removes content scoped to both id and owner. Deleting someone
// else's content reports false exactly like a nonexistent id. The index
// entry is only removed after a confirmed row delete; an index failure is
// logged and swallowed.
func (uc *ContentUsecase) Delete(ctx context.Context, contentID string, ownerID string) (bool, error) {
	deleted, err := uc.contents.Delete(ctx, contentID, ownerID)
	if err != nil {
		return false, pkgerrors.Wrap(err, "ContentUsecase.Delete: deleting content failed")
	}
	if deleted == 0 {
		return false, nil
	}

	if err := uc.index.Delete(ctx, contentID); err != nil {
		uc.logger.Warn("vector index delete failed, entry may remain searchable",
			"contentId", contentID, "err", err)
	}

	return true, nil
}

// EnableShare returns the owner's share hash, creating one on first use.
// Calling it again returns the existing hash unchanged.
func (uc *ContentUsecase) EnableShare(ctx context.Context, ownerID string) (string, error) {
	existing, err := uc.shares.GetByOwner(ctx, ownerID)
	if err == nil {
		return existing.Hash, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", pkgerrors.Wrap(err, "ContentUsecase.EnableShare: share lookup failed")
	}

	hash, err := generateShareHash(shareHashLength)
	if err != nil {
		return "", pkgerrors.Wrap(err, "ContentUsecase.EnableShare: hash generation failed")
	}

	link := domain.ShareLink{
		ID:      uuid.NewString(),
		Hash:    hash,
		OwnerID: ownerID,
	}
	if err := uc.shares.Create(ctx, link); err != nil {
		return "", pkgerrors.Wrap(err, "ContentUsecase.EnableShare: persisting share link failed")
	}

	return hash, nil
}

// DisableShare revokes the owner's share link. No-op if none exists.
func (uc *ContentUsecase) DisableShare(ctx context.Context, ownerID string) error {
	return uc.shares.DeleteByOwner(ctx, ownerID)
}

// ResolveShare is the only read path not scoped by caller identity: knowing
// the hash is the whole authorization.
func (uc *ContentUsecase) ResolveShare(ctx context.Context, hash string) (domain.SharedStash, error) {
	link, err := uc.shares.GetByHash(ctx, hash)
	if err != nil {
		return domain.SharedStash{}, err
	}

	user, err := uc.users.GetByID(ctx, link.OwnerID)
	if err != nil {
		return domain.SharedStash{}, err
	}

	content, err := uc.contents.ListByOwner(ctx, link.OwnerID)
	if err != nil {
		return domain.SharedStash{}, pkgerrors.Wrap(err, "ContentUsecase.ResolveShare: listing content failed")
	}

	return domain.SharedStash{
		Username: user.Username,
		Content:  content,
	}, nil
}

func generateShareHash(length int) (string, error) {
	buf := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(shareHashAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = shareHashAlphabet[n.Int64()]
	}
	return string(buf), nil
}
