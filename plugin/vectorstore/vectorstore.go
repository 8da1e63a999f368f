// Package vectorstore provides semantic retrieval over the ingested
// blog-post corpus, backed by chromem-go with disk persistence.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lithammer/shortuuid/v4"
	chromem "github.com/philippgille/chromem-go"
	"github.com/pkg/errors"
)

// collectionName holds every ingested post. One shared corpus; there is
// no per-caller partitioning.
const collectionName = "posts"

// Post is a document ingested into the corpus.
type Post struct {
	ID      string
	Title   string
	Content string
	Author  string
	Date    string
	Tags    []string
}

// SearchResult is a single semantic-search hit.
type SearchResult struct {
	PostID  string
	Title   string
	Content string
	Author  string
	Date    string
	Score   float32
}

// Stats describes the state of the store for the status endpoint.
type Stats struct {
	TotalDocuments int    `json:"total_documents"`
	Collection     string `json:"collection"`
	IndexPath      string `json:"index_path"`
}

// Store wraps chromem-go with a single persistent posts collection.
type Store struct {
	mu      sync.RWMutex
	db      *chromem.DB
	dataDir string
	embedFn chromem.EmbeddingFunc
}

// New creates (or opens) the persistent vector store at dataDir/vectorstore/.
// embedFn is the embedding function to use — pass chromem.NewEmbeddingFuncOpenAI
// (or an OpenAI-compatible variant pointed at another endpoint).
func New(dataDir string, embedFn chromem.EmbeddingFunc) (*Store, error) {
	dir := filepath.Join(dataDir, "vectorstore")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.Wrap(err, "create vectorstore dir")
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, errors.Wrap(err, "open vectorstore")
	}
	return &Store{db: db, dataDir: dir, embedFn: embedFn}, nil
}

// getOrCreateCollection returns (or creates) the posts collection.
func (s *Store) getOrCreateCollection() *chromem.Collection {
	col := s.db.GetCollection(collectionName, s.embedFn)
	if col == nil {
		var err error
		col, err = s.db.CreateCollection(collectionName, nil, s.embedFn)
		if err != nil {
			slog.Error("failed to create vector collection", "collection", collectionName, "err", err)
			return nil
		}
	}
	return col
}

// UpsertPost indexes (or re-indexes) a post. A post without an ID is
// assigned a fresh short UID.
func (s *Store) UpsertPost(ctx context.Context, post Post) error {
	if post.ID == "" {
		post.ID = shortuuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.getOrCreateCollection()
	if col == nil {
		return errors.Errorf("vectorstore: nil collection %q", collectionName)
	}

	doc := chromem.Document{
		ID:      post.ID,
		Content: post.Title + "\n\n" + post.Content,
		Metadata: map[string]string{
			"title":  post.Title,
			"author": post.Author,
			"date":   post.Date,
			"tags":   strings.Join(post.Tags, " "),
		},
	}
	return col.AddDocument(ctx, doc)
}

// SearchSimilar returns the top-k posts most semantically similar to the query.
func (s *Store) SearchSimilar(ctx context.Context, query string, k int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.getOrCreateCollection()
	if col == nil {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	var results []chromem.Result
	var err error

	// chromem-go sometimes throws "nResults must be <= number of documents" despite Count checks.
	// Step down k if it fails.
	for attemptK := k; attemptK > 0; attemptK-- {
		results, err = col.Query(ctx, query, attemptK, nil, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			PostID:  r.ID,
			Title:   r.Metadata["title"],
			Content: r.Content,
			Author:  r.Metadata["author"],
			Date:    r.Metadata["date"],
			Score:   r.Similarity,
		})
	}
	return out, nil
}

// Context returns a formatted context block for prompt assembly: the
// top hits for the query, truncated to roughly maxTokens (4 chars per
// token). An empty string means nothing relevant was found.
func (s *Store) Context(ctx context.Context, query string, maxTokens int) (string, error) {
	results, err := s.SearchSimilar(ctx, query, 3)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	var parts []string
	budget := 0
	for _, r := range results {
		entry := fmt.Sprintf("Title: %s\nContent: %s\nSource: %s (%s)\n---\n",
			r.Title, r.Content, orUnknown(r.Author), orUnknown(r.Date))
		estimated := len(entry) / 4
		if budget+estimated > maxTokens {
			break
		}
		parts = append(parts, entry)
		budget += estimated
	}

	slog.Info("assembled retrieval context", "documents", len(parts), "approx_tokens", budget)
	return strings.Join(parts, "\n"), nil
}

// Stats reports corpus size and persistence location.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	if col := s.db.GetCollection(collectionName, s.embedFn); col != nil {
		total = col.Count()
	}
	return Stats{
		TotalDocuments: total,
		Collection:     collectionName,
		IndexPath:      s.dataDir,
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
