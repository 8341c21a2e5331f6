package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/stashit/stashit/internal/domain"
)

const (
	defaultTimeout     = 10 * time.Second
	collectionCacheKey = "collection-id"
)

// ChromaConfig locates one collection inside a hosted Chroma deployment.
type ChromaConfig struct {
	Host       string
	Tenant     string
	Database   string
	APIKey     string
	Collection string
}

// ChromaIndex implements the vector index port against the Chroma REST API.
// Embeddings are computed client-side and shipped with every write/query.
type ChromaIndex struct {
	client   *http.Client
	cache    *cache.Cache
	conf     ChromaConfig
	embedder Embedder
	logger   *slog.Logger
}

func NewChromaIndex(conf ChromaConfig, embedder Embedder) *ChromaIndex {
	return &ChromaIndex{
		client:   &http.Client{Timeout: defaultTimeout},
		cache:    cache.New(10*time.Minute, 15*time.Minute),
		conf:     conf,
		embedder: embedder,
		logger:   slog.Default().With("component", "chroma"),
	}
}

// collectionID resolves (and creates if needed) the collection, caching the
// id so only the first call per interval pays the round trip.
func (ix *ChromaIndex) collectionID(ctx context.Context) (string, error) {
	if cached, ok := ix.cache.Get(collectionCacheKey); ok {
		return cached.(string), nil
	}

	path := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections",
		ix.conf.Host, ix.conf.Tenant, ix.conf.Database)

	body := map[string]any{
		"name":          ix.conf.Collection,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := ix.post(ctx, path, body, &resp); err != nil {
		return "", errors.Wrap(err, "chroma: get-or-create collection failed")
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma: collection response carries no id")
	}

	ix.logger.Info("chroma collection ready", "collection", ix.conf.Collection, "id", resp.ID)
	ix.cache.Set(collectionCacheKey, resp.ID, cache.DefaultExpiration)
	return resp.ID, nil
}

// Upsert embeds the document and writes it under the content id.
func (ix *ChromaIndex) Upsert(ctx context.Context, entry domain.VectorEntry) error {
	embedding, err := ix.embedder.EmbedText(ctx, entry.Document)
	if err != nil {
		return errors.Wrap(err, "chroma: embedding document failed")
	}

	collection, err := ix.collectionID(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids":        []string{entry.ID},
		"embeddings": [][]float32{embedding},
		"documents":  []string{entry.Document},
		"metadatas":  []domain.ContentMeta{entry.Meta},
	}
	return ix.post(ctx, ix.collectionPath(collection, "add"), body, nil)
}

// Delete removes the entry for a content id. Unknown ids are not an error.
func (ix *ChromaIndex) Delete(ctx context.Context, id string) error {
	collection, err := ix.collectionID(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids": []string{id},
	}
	return ix.post(ctx, ix.collectionPath(collection, "delete"), body, nil)
}

type queryResponse struct {
	IDs       [][]string              `json:"ids"`
	Documents [][]*string             `json:"documents"`
	Metadatas [][]*domain.ContentMeta `json:"metadatas"`
	Distances [][]*float64            `json:"distances"`
}

// Query embeds the query text and runs a similarity search restricted to the
// owner's entries via the metadata equality filter.
func (ix *ChromaIndex) Query(ctx context.Context, query string, ownerID string, limit int) ([]domain.VectorHit, error) {
	embedding, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "chroma: embedding query failed")
	}

	collection, err := ix.collectionID(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        limit,
		"where":            map[string]any{"userId": ownerID},
		"include":          []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	if err := ix.post(ctx, ix.collectionPath(collection, "query"), body, &resp); err != nil {
		return nil, errors.Wrap(err, "chroma: query failed")
	}

	if len(resp.IDs) == 0 || len(resp.IDs[0]) == 0 {
		return []domain.VectorHit{}, nil
	}

	hits := make([]domain.VectorHit, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		hit := domain.VectorHit{
			ID: id,
			Meta: domain.ContentMeta{
				Title: "Untitled",
				Type:  "unknown",
			},
		}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) && resp.Documents[0][i] != nil {
			hit.Document = *resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) && resp.Metadatas[0][i] != nil {
			hit.Meta = *resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Distance = resp.Distances[0][i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (ix *ChromaIndex) collectionPath(collection, op string) string {
	return fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections/%s/%s",
		ix.conf.Host, ix.conf.Tenant, ix.conf.Database, collection, op)
}

func (ix *ChromaIndex) post(ctx context.Context, url string, body any, response any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ix.conf.APIKey != "" {
		req.Header.Set("X-Chroma-Token", ix.conf.APIKey)
	}

	resp, err := ix.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(snippet))
	}

	if response == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(response)
}
