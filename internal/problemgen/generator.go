package problemgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/codedrill/internal/llm"
	"github.com/abhisek/codedrill/internal/store"
)

// ProblemStore is the slice of the store the generator needs.
// *store.Store satisfies it.
type ProblemStore interface {
	AssignProblemID(ctx context.Context) (string, error)
	Insert(ctx context.Context, p *store.Problem) error
	RecentTitles(ctx context.Context, n int) ([]string, error)
}

// Generator orchestrates the generation pipeline: request text from the
// provider, validate the payload, reject near-duplicates, and persist the
// accepted problem. It always yields exactly one persisted record — the
// bundled fallback when generation is impossible — or a fatal store error.
type Generator struct {
	provider llm.Provider
	detector *DuplicateDetector
	store    ProblemStore
	cfg      Config
	log      *logrus.Entry
}

// New creates a Generator. detector may be nil when no embedding stack is
// configured; the duplicate check is then skipped entirely.
func New(provider llm.Provider, detector *DuplicateDetector, st ProblemStore, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		detector: detector,
		store:    st,
		cfg:      cfg,
		log:      logrus.WithField("component", "problemgen"),
	}
}

// Generate runs the bounded retry loop for one problem request.
//
// Recoverable conditions (service unavailable, invalid payload, duplicate)
// never escape this method; only store write failures propagate.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*Outcome, error) {
	if input.Difficulty == "" {
		input.Difficulty = store.Medium
	}

	// An absent service is not worth three timeouts: probe once, then go
	// straight to the fallback catalog.
	if err := g.provider.Heartbeat(ctx); err != nil {
		g.log.WithError(err).Warn("generation service unavailable, using fallback")
		return g.useFallback(ctx, input, 0)
	}

	sampling := g.cfg.Sampling
	timeout := g.cfg.timeoutFor(input.Difficulty)

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		alog := g.log.WithFields(logrus.Fields{
			"attempt":    attempt,
			"difficulty": input.Difficulty,
		})

		var avoid []string
		if attempt > 1 {
			titles, err := g.store.RecentTitles(ctx, g.cfg.AvoidTitles)
			if err != nil {
				alog.WithError(err).Debug("could not load recent titles")
			} else {
				avoid = titles
			}
			sampling.Temperature = min(1.0, sampling.Temperature+g.cfg.TemperatureStep)
			sampling.TopK += g.cfg.TopKStep
		}

		alog.WithField("state", "requesting").Debug("calling generation service")
		raw, err := g.provider.Generate(ctx, llm.Request{
			Prompt:   BuildPrompt(input, avoid),
			Sampling: sampling,
			Timeout:  timeout,
		})
		if err != nil {
			alog.WithError(err).Warn("no problem produced")
			// No pause after the final attempt; the fallback is local.
			if attempt < g.cfg.MaxAttempts {
				if err := g.pause(ctx); err != nil {
					return nil, err
				}
			}
			continue
		}

		alog.WithField("state", "validating").Debug("parsing payload")
		draft, err := ParsePayload(raw, input.Difficulty)
		if err != nil {
			alog.WithError(err).Warn("rejecting invalid payload")
			continue
		}

		alog.WithField("state", "checking_duplicate").Debug("running duplicate check")
		dup, vector := g.detector.Check(ctx, draft)
		if dup != nil {
			alog.WithError(dup).Info("rejecting duplicate candidate")
			continue
		}

		return g.accept(ctx, draft, vector, attempt)
	}

	g.log.WithField("attempts", g.cfg.MaxAttempts).Warn("generation exhausted, using fallback")
	return g.useFallback(ctx, input, g.cfg.MaxAttempts)
}

// accept assigns an identifier, persists the draft, then stores its
// embedding best-effort. An identifier conflict at insert time gets exactly
// one regenerate-and-retry.
func (g *Generator) accept(ctx context.Context, draft *Draft, vector []float32, attempts int) (*Outcome, error) {
	p, err := g.persist(ctx, draft, store.SourceAI)
	if err != nil {
		return nil, err
	}

	embedded := false
	if !g.detector.enabled() {
		g.log.WithField("problem_id", p.ID).Debug("no embedding stack configured, skipping embedding store")
	} else if err := g.detector.StoreEmbedding(ctx, p, vector); err != nil {
		g.log.WithError(err).WithField("problem_id", p.ID).
			Warn("embedding not stored; problem remains usable")
	} else {
		embedded = true
	}

	g.log.WithFields(logrus.Fields{
		"state":      "accepted",
		"problem_id": p.ID,
		"attempts":   attempts,
	}).Info("problem generated")

	return &Outcome{
		Problem:         p,
		Attempts:        attempts,
		EmbeddingStored: embedded,
	}, nil
}

// useFallback persists the bundled problem for the tier. No network calls
// are made on this path.
func (g *Generator) useFallback(ctx context.Context, input GenerateInput, attempts int) (*Outcome, error) {
	draft := FallbackProblem(input.Difficulty)

	p, err := g.persist(ctx, &draft, store.SourceFallback)
	if err != nil {
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"state":      "fallback_used",
		"problem_id": p.ID,
	}).Info("fallback problem persisted")

	return &Outcome{
		Problem:      p,
		Attempts:     attempts,
		FallbackUsed: true,
	}, nil
}

func (g *Generator) persist(ctx context.Context, draft *Draft, source string) (*store.Problem, error) {
	id, err := g.store.AssignProblemID(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign problem id: %w", err)
	}

	p := draft.toProblem(id, source)
	err = g.store.Insert(ctx, p)

	var conflict *store.ErrIdentifierConflict
	if errors.As(err, &conflict) {
		// A concurrent writer won the race; one fresh id, one retry.
		id, err = g.store.AssignProblemID(ctx)
		if err != nil {
			return nil, fmt.Errorf("assign problem id after conflict: %w", err)
		}
		p = draft.toProblem(id, source)
		err = g.store.Insert(ctx, p)
	}
	if err != nil {
		return nil, fmt.Errorf("persist problem: %w", err)
	}
	return p, nil
}

// pause waits the configured backoff between failed attempts, honoring
// cancellation.
func (g *Generator) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.cfg.Backoff):
		return nil
	}
}

func (d *Draft) toProblem(id, source string) *store.Problem {
	return &store.Problem{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  d.Difficulty,
		Category:    d.Category,
		Tags:        d.Tags,
		TestCases:   d.TestCases,
		Solution:    d.Solution,
		Source:      source,
	}
}
