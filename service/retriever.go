package service

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/HiwarkhedePrasad/VakilAi/config"
	"github.com/HiwarkhedePrasad/VakilAi/model"

	_ "modernc.org/sqlite"
)

// Retriever looks up the legal references most relevant to a clause.
// Query never fails: retrieval problems degrade to an empty result.
type Retriever interface {
	Query(ctx context.Context, text string, topK int) []model.LegalReference
}

// seedPassage is one corpus entry inserted at initialization
type seedPassage struct {
	Act     string
	Section string
	Text    string
	URL     string
}

// seedCorpus is the fixed set of statutory passages indexed at startup.
var seedCorpus = []seedPassage{
	{
		Text:    "Compensation for breach of contract: When a contract is broken, the party who suffers by such breach is entitled to receive compensation for any loss or damage caused.",
		Act:     "Indian Contract Act, 1872",
		Section: "73",
		URL:     "https://www.indiacode.nic.in/handle/123456789/2187",
	},
	{
		Text:    "Agreement without consideration is void, unless in writing and registered, or is a promise to compensate for something done.",
		Act:     "Indian Contract Act, 1872",
		Section: "25",
		URL:     "https://www.indiacode.nic.in/handle/123456789/2187",
	},
	{
		Text:    "Every person is competent to contract who is of the age of majority and of sound mind.",
		Act:     "Indian Contract Act, 1872",
		Section: "11",
		URL:     "https://www.indiacode.nic.in/handle/123456789/2187",
	},
}

// ReferenceIndex is a cosine-similarity index over the seed legal corpus,
// persisted in SQLite. The same embedder is used for seeding and querying so
// both sides share one metric space.
type ReferenceIndex struct {
	db         *sql.DB
	embedder   Embedder
	collection string
	seedOnce   sync.Once
}

func NewReferenceIndex(cfg *config.IndexConfig, embedder Embedder) (*ReferenceIndex, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	index := &ReferenceIndex{
		db:         db,
		embedder:   embedder,
		collection: cfg.Collection,
	}

	if err := index.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return index, nil
}

func (x *ReferenceIndex) createSchema() error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS passages (
			collection TEXT NOT NULL,
			id INTEGER NOT NULL,
			act TEXT NOT NULL,
			section TEXT NOT NULL,
			text TEXT NOT NULL,
			url TEXT NOT NULL,
			embedding BLOB NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create passages table: %w", err)
	}
	return nil
}

// EnsureSeeded inserts the seed corpus if the named collection is empty.
// Safe under concurrent first use; a second call is a no-op.
func (x *ReferenceIndex) EnsureSeeded(ctx context.Context) error {
	var err error
	x.seedOnce.Do(func() {
		err = x.seed(ctx)
	})
	return err
}

func (x *ReferenceIndex) seed(ctx context.Context) error {
	var count int
	row := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages WHERE collection = ?`, x.collection)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("failed to check collection %s: %w", x.collection, err)
	}
	if count > 0 {
		slog.Info("reference index already seeded", "collection", x.collection, "passages", count)
		return nil
	}

	for i, passage := range seedCorpus {
		vector, err := x.embedder.Embed(ctx, passage.Text)
		if err != nil {
			// Zero vector keeps the passage retrievable, degenerately ranked
			slog.Warn("embedding failed during seeding, storing zero vector",
				"act", passage.Act, "section", passage.Section, "error", err)
			vector = make([]float32, x.embedder.Dimension())
		}

		_, err = x.db.ExecContext(ctx,
			`INSERT INTO passages (collection, id, act, section, text, url, embedding) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			x.collection, i, passage.Act, passage.Section, passage.Text, passage.URL, encodeVector(vector))
		if err != nil {
			return fmt.Errorf("failed to insert passage %d: %w", i, err)
		}
	}

	slog.Info("reference index seeded", "collection", x.collection, "passages", len(seedCorpus))
	return nil
}

// Query returns up to topK references ordered by descending cosine similarity
// to text. It never returns an error: a non-positive topK, embedding failure
// or store failure all yield an empty result, which the pipeline treats as
// "no reference found".
func (x *ReferenceIndex) Query(ctx context.Context, text string, topK int) []model.LegalReference {
	if topK <= 0 {
		return nil
	}

	queryVector, err := x.embedder.Embed(ctx, text)
	if err != nil {
		slog.Warn("embedding failed during retrieval", "error", err)
		return nil
	}

	rows, err := x.db.QueryContext(ctx,
		`SELECT act, section, text, url, embedding FROM passages WHERE collection = ?`, x.collection)
	if err != nil {
		slog.Warn("reference index query failed", "collection", x.collection, "error", err)
		return nil
	}
	defer rows.Close()

	type scoredRef struct {
		ref   model.LegalReference
		score float64
	}

	var hits []scoredRef
	for rows.Next() {
		var ref model.LegalReference
		var blob []byte
		if err := rows.Scan(&ref.Act, &ref.Section, &ref.Text, &ref.URL, &blob); err != nil {
			slog.Warn("failed to scan passage row", "error", err)
			continue
		}
		hits = append(hits, scoredRef{
			ref:   ref,
			score: cosineSimilarity(queryVector, decodeVector(blob)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if topK > len(hits) {
		topK = len(hits)
	}
	refs := make([]model.LegalReference, 0, topK)
	for _, hit := range hits[:topK] {
		refs = append(refs, hit.ref)
	}
	return refs
}

// Close releases the underlying database handle
func (x *ReferenceIndex) Close() error {
	return x.db.Close()
}

// cosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 when either vector has
// zero magnitude or the widths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// encodeVector packs a vector as little-endian float32 bits for BLOB storage
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
