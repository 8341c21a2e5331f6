package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stashit/stashit/internal/domain"
)

// --- mocks ---

type mockContentRepo struct {
	rows []domain.Content
	err  error
}

func (m *mockContentRepo) Create(ctx context.Context, content domain.Content) (domain.Content, error) {
	if m.err != nil {
		return domain.Content{}, m.err
	}
	m.rows = append(m.rows, content)
	return content, nil
}

func (m *mockContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error) {
	var out []domain.Content
	for _, row := range m.rows {
		if row.OwnerID == ownerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockContentRepo) Delete(ctx context.Context, id string, ownerID string) (int64, error) {
	for i, row := range m.rows {
		if row.ID == id && row.OwnerID == ownerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type mockShareRepo struct {
	links []domain.ShareLink
}

func (m *mockShareRepo) Create(ctx context.Context, link domain.ShareLink) error {
	m.links = append(m.links, link)
	return nil
}

func (m *mockShareRepo) GetByOwner(ctx context.Context, ownerID string) (domain.ShareLink, error) {
	for _, link := range m.links {
		if link.OwnerID == ownerID {
			return link, nil
		}
	}
	return domain.ShareLink{}, domain.NotFoundError{Resource: "share link"}
}

func (m *mockShareRepo) GetByHash(ctx context.Context, hash string) (domain.ShareLink, error) {
	for _, link := range m.links {
		if link.Hash == hash {
			return link, nil
		}
	}
	return domain.ShareLink{}, domain.NotFoundError{Resource: "share link"}
}

func (m *mockShareRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	for i, link := range m.links {
		if link.OwnerID == ownerID {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.users == nil {
		m.users = map[string]domain.User{}
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

type mockIndex struct {
	entries   map[string]domain.VectorEntry
	upsertErr error
	deleteErr error
	deletes   []string
}

func (m *mockIndex) Upsert(ctx context.Context, entry domain.VectorEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.entries == nil {
		m.entries = map[string]domain.VectorEntry{}
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockIndex) Delete(ctx context.Context, id string) error {
	m.deletes = append(m.deletes, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.entries, id)
	return nil
}

func (m *mockIndex) Query(ctx context.Context, query string, ownerID string, limit int) ([]domain.VectorHit, error) {
	return nil, nil
}

func newContentUsecase() (*ContentUsecase, *mockContentRepo, *mockShareRepo, *mockUserRepo, *mockIndex) {
	contents := &mockContentRepo{}
	shares := &mockShareRepo{}
	users := &mockUserRepo{}
	index := &mockIndex{}
	return NewContentUsecase(contents, shares, users, index), contents, shares, users, index
}

// --- tests ---

func TestContentCreateThenList(t *testing.T) {
	uc, _, _, _, index := newContentUsecase()
	ctx := context.Background()

	created, err := uc.Create(ctx, ContentInput{
		Title:   "Rust Book",
		Link:    "https://rust-book.dev",
		Type:    "link",
		OwnerID: "owner-a",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated content id")
	}

	list, err := uc.List(ctx, "owner-a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 content, got %d", len(list))
	}
	if list[0].Title != "Rust Book" || list[0].Link != "https://rust-book.dev" || list[0].Type != "link" {
		t.Fatalf("unexpected content fields: %+v", list[0])
	}

	entry, ok := index.entries[created.ID]
	if !ok {
		t.Fatalf("expected index entry keyed by content id")
	}
	if entry.Document != "Rust Book - link: https://rust-book.dev" {
		t.Fatalf("unexpected document: %q", entry.Document)
	}
	if entry.Meta.UserID != "owner-a" {
		t.Fatalf("expected owner metadata, got %q", entry.Meta.UserID)
	}
}

func TestContentCreateSurvivesIndexFailure(t *testing.T) {
	uc, contents, _, _, index := newContentUsecase()
	index.upsertErr = errors.New("index unavailable")

	_, err := uc.Create(context.Background(), ContentInput{
		Title: "a", Link: "b", Type: "c", OwnerID: "owner-a",
	})
	if err != nil {
		t.Fatalf("expected create to succeed despite index failure, got %v", err)
	}
	if len(contents.rows) != 1 {
		t.Fatalf("expected row to persist, got %d rows", len(contents.rows))
	}
}

func TestContentDeleteTwice(t *testing.T) {
	uc, _, _, _, index := newContentUsecase()
	ctx := context.Background()

	created, _ := uc.Create(ctx, ContentInput{Title: "a", Link: "b", Type: "c", OwnerID: "owner-a"})

	deleted, err := uc.Delete(ctx, created.ID, "owner-a")
	if err != nil || !deleted {
		t.Fatalf("expected first delete to report true, got %v %v", deleted, err)
	}
	if len(index.deletes) != 1 || index.deletes[0] != created.ID {
		t.Fatalf("expected one index delete for %s, got %v", created.ID, index.deletes)
	}

	deleted, err = uc.Delete(ctx, created.ID, "owner-a")
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if deleted {
		t.Fatalf("expected second delete to report false")
	}
	if len(index.deletes) != 1 {
		t.Fatalf("expected no further index delete, got %v", index.deletes)
	}
}

func TestContentDeleteByOtherOwnerIsNoop(t *testing.T) {
	uc, _, _, _, index := newContentUsecase()
	ctx := context.Background()

	created, _ := uc.Create(ctx, ContentInput{Title: "a", Link: "b", Type: "c", OwnerID: "owner-a"})

	deleted, err := uc.Delete(ctx, created.ID, "owner-b")
	if err != nil {
		t.Fatalf("delete errored: %v", err)
	}
	if deleted {
		t.Fatalf("expected cross-owner delete to report false")
	}
	if len(index.deletes) != 0 {
		t.Fatalf("expected no index delete, got %v", index.deletes)
	}

	list, _ := uc.List(ctx, "owner-a")
	if len(list) != 1 {
		t.Fatalf("expected content to remain for true owner")
	}
}

func TestContentDeleteSucceedsWhenIndexDeleteFails(t *testing.T) {
	uc, _, _, _, index := newContentUsecase()
	ctx := context.Background()

	created, _ := uc.Create(ctx, ContentInput{Title: "a", Link: "b", Type: "c", OwnerID: "owner-a"})
	index.deleteErr = errors.New("index unavailable")

	deleted, err := uc.Delete(ctx, created.ID, "owner-a")
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed despite index failure, got %v %v", deleted, err)
	}
}

var shareHashPattern = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)

func TestEnableShareIsIdempotent(t *testing.T) {
	uc, _, _, _, _ := newContentUsecase()
	ctx := context.Background()

	first, err := uc.EnableShare(ctx, "owner-a")
	if err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if !shareHashPattern.MatchString(first) {
		t.Fatalf("unexpected hash format: %q", first)
	}

	second, err := uc.EnableShare(ctx, "owner-a")
	if err != nil {
		t.Fatalf("second enable failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical hash, got %q then %q", first, second)
	}
}

func TestDisableThenEnableRotatesHash(t *testing.T) {
	uc, _, _, _, _ := newContentUsecase()
	ctx := context.Background()

	first, _ := uc.EnableShare(ctx, "owner-a")
	if err := uc.DisableShare(ctx, "owner-a"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	second, err := uc.EnableShare(ctx, "owner-a")
	if err != nil {
		t.Fatalf("re-enable failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected a fresh hash after disable, got %q twice", first)
	}
}

func TestResolveShare(t *testing.T) {
	uc, _, _, users, _ := newContentUsecase()
	ctx := context.Background()

	users.Create(ctx, domain.User{ID: "owner-a", Username: "alice"})
	uc.Create(ctx, ContentInput{Title: "a", Link: "b", Type: "c", OwnerID: "owner-a"})
	hash, _ := uc.EnableShare(ctx, "owner-a")

	stash, err := uc.ResolveShare(ctx, hash)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if stash.Username != "alice" {
		t.Fatalf("expected username alice, got %q", stash.Username)
	}
	if len(stash.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(stash.Content))
	}
}

func TestResolveShareUnknownHash(t *testing.T) {
	uc, _, _, _, _ := newContentUsecase()

	_, err := uc.ResolveShare(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveShareAfterDisable(t *testing.T) {
	uc, _, _, users, _ := newContentUsecase()
	ctx := context.Background()

	users.Create(ctx, domain.User{ID: "owner-a", Username: "alice"})
	hash, _ := uc.EnableShare(ctx, "owner-a")
	uc.DisableShare(ctx, "owner-a")

	_, err := uc.ResolveShare(ctx, hash)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after disable, got %v", err)
	}
}
