package problemgen

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/codedrill/internal/llm"
	"github.com/abhisek/codedrill/internal/store"
	"github.com/abhisek/codedrill/internal/vectorindex"
)

// Index is the slice of the vector index the duplicate detector needs.
// *vectorindex.Client satisfies it.
type Index interface {
	UpsertPoint(ctx context.Context, problemID string, vector []float32, payload vectorindex.Payload) error
	Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]vectorindex.Result, error)
}

// DuplicateDetector decides whether a candidate is too similar to stored
// problems. It is a quality heuristic, not a correctness requirement: every
// failure mode fails open so a transient embedding or index error never
// blocks generation.
type DuplicateDetector struct {
	embedder llm.Embedder
	index    Index
	cfg      Config
	log      *logrus.Entry
}

// NewDuplicateDetector wires an embedder and index. Either may be nil, in
// which case every check reports "not a duplicate".
func NewDuplicateDetector(embedder llm.Embedder, index Index, cfg Config) *DuplicateDetector {
	return &DuplicateDetector{
		embedder: embedder,
		index:    index,
		cfg:      cfg,
		log:      logrus.WithField("component", "dedup"),
	}
}

// enabled reports whether a full embedding stack is wired in.
func (d *DuplicateDetector) enabled() bool {
	return d != nil && d.embedder != nil && d.index != nil
}

// Check embeds the candidate's title and description and searches the index
// for near-identical neighbors. The returned vector, when non-nil, can be
// reused for storage so the text is not embedded twice.
func (d *DuplicateDetector) Check(ctx context.Context, draft *Draft) (dup *ErrDuplicateDetected, vector []float32) {
	if !d.enabled() {
		return nil, nil
	}

	vec, err := d.embedder.Embed(ctx, d.embedText(draft.Title, draft.Description))
	if err != nil {
		d.log.WithError(err).Warn("embedding failed, skipping duplicate check")
		return nil, nil
	}

	results, err := d.index.Search(ctx, vec, d.cfg.SearchLimit, d.cfg.SimilarityThreshold)
	if err != nil {
		d.log.WithError(err).Warn("similarity search failed, skipping duplicate check")
		return nil, vec
	}

	if len(results) > 0 {
		best := results[0]
		return &ErrDuplicateDetected{
			Title: best.Payload.Title,
			Score: best.Score,
		}, vec
	}
	return nil, vec
}

// StoreEmbedding upserts the problem's vector, embedding the text first if
// the caller has no vector to reuse. Best-effort: errors are returned for
// logging but never roll back the persisted problem.
func (d *DuplicateDetector) StoreEmbedding(ctx context.Context, p *store.Problem, vector []float32) error {
	if !d.enabled() {
		return &vectorindex.ErrUnavailable{}
	}

	if vector == nil {
		vec, err := d.embedder.Embed(ctx, d.embedText(p.Title, p.Description))
		if err != nil {
			return err
		}
		vector = vec
	}

	return d.index.UpsertPoint(ctx, p.ID, vector, vectorindex.Payload{
		ProblemID:   p.ID,
		Title:       p.Title,
		Description: p.Description,
	})
}

// embedText bounds the text sent to the embedding model.
func (d *DuplicateDetector) embedText(title, description string) string {
	text := title + "\n" + description
	if limit := d.cfg.EmbedTextLimit; limit > 0 && len(text) > limit {
		text = text[:limit]
	}
	return text
}
