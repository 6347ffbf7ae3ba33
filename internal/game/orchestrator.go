package game

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
	"github.com/gokatarajesh/ai-jeopardy/internal/question"
)

const defaultConcurrency = 5

// OrchestratorOptions configures board generation.
type OrchestratorOptions struct {
	// Concurrency bounds in-flight generator calls. 1 generates slots one at a time.
	Concurrency int
}

// Orchestrator fills the empty slots of a board with generated questions.
type Orchestrator struct {
	generator   question.Generator
	concurrency int
	logger      zerolog.Logger
}

// NewOrchestrator creates an orchestrator around generator.
func NewOrchestrator(generator question.Generator, opts OrchestratorOptions, logger zerolog.Logger) *Orchestrator {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Orchestrator{
		generator:   generator,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "game_orchestrator").Logger(),
	}
}

type slot struct {
	cat, idx int
}

type slotOutcome struct {
	pair question.Pair
	err  error
}

// GenerateQuestionsForBoard returns a copy of b in which every question with
// empty text has been generated. Failed slots stay empty and are listed in the
// report; they never abort the pass. progress may be nil.
func (o *Orchestrator) GenerateQuestionsForBoard(ctx context.Context, b board.Board, progress ProgressFunc) (board.Board, Report, error) {
	if err := board.Validate(b); err != nil {
		return b, Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return b, Report{}, err
	}

	var slots []slot
	for i, cat := range b.Categories {
		for j, q := range cat.Questions {
			if q.IsEmpty() {
				slots = append(slots, slot{cat: i, idx: j})
			}
		}
	}

	report := Report{Attempted: len(slots)}
	if len(slots) == 0 {
		return b, report, nil
	}

	o.logger.Info().Int("slots", len(slots)).Int("concurrency", o.concurrency).Msg("generating board")

	outcomes := make([]slotOutcome, len(slots))
	var (
		progressMu sync.Mutex
		completed  int
	)

	// Goroutines never return an error so one failed slot cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for n, s := range slots {
		g.Go(func() error {
			cat := b.Categories[s.cat]
			q := cat.Questions[s.idx]

			pair, err := o.generator.Generate(ctx, question.Request{Category: cat.Name, Value: q.Value})
			if err == nil && (pair.Question == "" || pair.Answer == "") {
				err = question.ErrEmptyPair
			}
			outcomes[n] = slotOutcome{pair: pair, err: err}

			if err != nil {
				o.logger.Error().Err(err).
					Str("category", cat.Name).
					Str("question_id", q.ID).
					Int("value", int(q.Value)).
					Msg("error generating question")
			}

			if progress != nil {
				progressMu.Lock()
				completed++
				progress(SlotResult{
					CategoryID:   cat.ID,
					CategoryName: cat.Name,
					QuestionID:   q.ID,
					Value:        q.Value,
					Sentinel:     err == nil && question.IsSentinel(pair),
					Err:          err,
					Completed:    completed,
					Total:        len(slots),
				})
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := b
	for n, s := range slots {
		oc := outcomes[n]
		q := &out.Categories[s.cat].Questions[s.idx]
		if oc.err != nil {
			report.Failures = append(report.Failures, SlotFailure{
				CategoryID:   q.CategoryID,
				CategoryName: out.Categories[s.cat].Name,
				QuestionID:   q.ID,
				Value:        q.Value,
				Error:        oc.err.Error(),
			})
			continue
		}
		q.Question = oc.pair.Question
		q.Answer = oc.pair.Answer
		if question.IsSentinel(oc.pair) {
			report.Sentinel++
		} else {
			report.Generated++
		}
	}

	o.logger.Info().
		Int("generated", report.Generated).
		Int("sentinel", report.Sentinel).
		Int("failed", len(report.Failures)).
		Msg("board generation finished")

	return out, report, nil
}
