package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
	"github.com/gokatarajesh/ai-jeopardy/pkg/http/ws"
)

// Publisher delivers progress messages to clients following a game.
type Publisher interface {
	BroadcastToGame(gameID string, msg ws.Message) error
}

// BoardGenerator fills empty board slots.
type BoardGenerator interface {
	GenerateQuestionsForBoard(ctx context.Context, b board.Board, progress ProgressFunc) (board.Board, Report, error)
}

// StartResult is the outcome of Start.
type StartResult struct {
	Game   Game   `json:"game"`
	Report Report `json:"report"`
}

// Service owns game sessions and their mode transitions.
type Service struct {
	store     Store
	generator BoardGenerator
	publisher Publisher
	starts    singleflight.Group
	mu        sync.Mutex
	running   map[string]struct{} // games with a pass owned by this process; guarded by mu
	now       func() time.Time
	logger    zerolog.Logger
}

// NewService creates a game service. publisher may be nil.
func NewService(store Store, generator BoardGenerator, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		generator: generator,
		publisher: publisher,
		running:   make(map[string]struct{}),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("component", "game_service").Logger(),
	}
}

// Create starts a new game in edit mode with an empty board.
func (s *Service) Create(ctx context.Context) (Game, error) {
	now := s.now()
	g := Game{
		ID:        uuid.NewString(),
		Mode:      ModeEdit,
		Board:     board.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, g); err != nil {
		return Game{}, fmt.Errorf("save game: %w", err)
	}
	s.logger.Info().Str("game_id", g.ID).Msg("game created")
	return g, nil
}

// Get returns a game by id.
func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	return s.store.Get(ctx, id)
}

// RenameCategory renames a category while the game is being edited.
func (s *Service) RenameCategory(ctx context.Context, id, categoryID, name string) (Game, error) {
	return s.update(ctx, id, func(g *Game) error {
		if g.Mode != ModeEdit {
			return ErrNotEditable
		}
		g.Board = board.RenameCategory(g.Board, categoryID, name)
		return nil
	})
}

// RevealQuestion opens a question while the game is being played.
func (s *Service) RevealQuestion(ctx context.Context, id, questionID string) (Game, error) {
	return s.update(ctx, id, func(g *Game) error {
		if g.Mode != ModePlay {
			return ErrNotPlaying
		}
		g.Board = board.RevealQuestion(g.Board, questionID)
		return nil
	})
}

// Reset replaces the board with a fresh one and returns to edit mode. A game
// left in generating mode by a pass this process no longer runs is reset too.
func (s *Service) Reset(ctx context.Context, id string) (Game, error) {
	return s.update(ctx, id, func(g *Game) error {
		if g.Mode == ModeGenerating {
			if _, busy := s.running[id]; busy {
				return ErrGenerationInProgress
			}
			s.logger.Warn().Str("game_id", id).Msg("clearing abandoned generation")
		}
		g.Mode = ModeEdit
		g.Board = board.New()
		g.Error = ""
		return nil
	})
}

// Start generates every empty question and moves the game to play mode.
// Concurrent calls for the same game share one generation pass. When the
// pass cannot run the game returns to edit mode with an error banner.
func (s *Service) Start(ctx context.Context, id string) (StartResult, error) {
	v, err, shared := s.starts.Do(id, func() (interface{}, error) {
		return s.start(context.WithoutCancel(ctx), id)
	})
	if shared {
		s.logger.Debug().Str("game_id", id).Msg("joined in-flight generation")
	}
	res, _ := v.(StartResult)
	return res, err
}

func (s *Service) start(ctx context.Context, id string) (StartResult, error) {
	g, err := s.update(ctx, id, func(g *Game) error {
		switch g.Mode {
		case ModeGenerating:
			return ErrGenerationInProgress
		case ModePlay:
			return ErrNotEditable
		}
		g.Mode = ModeGenerating
		g.Error = ""
		s.running[id] = struct{}{}
		return nil
	})
	defer s.release(id)
	if err != nil {
		return StartResult{}, err
	}

	s.publish(id, ws.TypeGenerationStarted, ws.GenerationStartedPayload{
		GameID:  id,
		Pending: g.Board.Pending(),
	})

	generated, report, genErr := s.generator.GenerateQuestionsForBoard(ctx, g.Board, func(r SlotResult) {
		s.publish(id, ws.TypeSlotGenerated, ws.SlotGeneratedPayload{
			GameID:       id,
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			QuestionID:   r.QuestionID,
			Value:        int(r.Value),
			Completed:    r.Completed,
			Total:        r.Total,
			Failed:       r.Err != nil,
			Sentinel:     r.Sentinel,
		})
	})

	final, err := s.update(ctx, id, func(g *Game) error {
		if g.Mode != ModeGenerating {
			return ErrGenerationCancelled
		}
		if genErr != nil {
			g.Mode = ModeEdit
			g.Error = GenerationFailedMessage
			return nil
		}
		g.Mode = ModePlay
		g.Board = generated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrGenerationCancelled) {
			s.logger.Error().Err(err).Str("game_id", id).Msg("store generation result")
			s.revert(ctx, id)
		}
		return StartResult{Report: report}, err
	}

	s.publish(id, ws.TypeGenerationComplete, ws.GenerationCompletePayload{
		GameID:    id,
		Mode:      string(final.Mode),
		Generated: report.Generated,
		Sentinel:  report.Sentinel,
		Failed:    len(report.Failures),
		Error:     final.Error,
	})

	if genErr != nil {
		s.logger.Error().Err(genErr).Str("game_id", id).Msg("error generating questions")
		return StartResult{Game: final, Report: report}, fmt.Errorf("generate board: %w", genErr)
	}
	return StartResult{Game: final, Report: report}, nil
}

// revert puts a game stuck in generating mode back into edit mode.
func (s *Service) revert(ctx context.Context, id string) {
	_, err := s.update(ctx, id, func(g *Game) error {
		if g.Mode == ModeGenerating {
			g.Mode = ModeEdit
			g.Error = GenerationFailedMessage
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("game_id", id).Msg("revert to edit mode")
	}
}

func (s *Service) release(id string) {
	s.mu.Lock()
	delete(s.running, id)
	s.mu.Unlock()
}

// update applies fn to the stored game under the service lock.
func (s *Service) update(ctx context.Context, id string, fn func(g *Game) error) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Get(ctx, id)
	if err != nil {
		return Game{}, err
	}
	if err := fn(&g); err != nil {
		return g, err
	}
	g.UpdatedAt = s.now()
	if err := s.store.Save(ctx, g); err != nil {
		return Game{}, fmt.Errorf("save game: %w", err)
	}
	return g, nil
}

func (s *Service) publish(gameID, msgType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("type", msgType).Msg("encode progress message")
		return
	}
	if err := s.publisher.BroadcastToGame(gameID, msg); err != nil && !errors.Is(err, ws.ErrConnectionClosed) {
		s.logger.Warn().Err(err).Str("game_id", gameID).Str("type", msgType).Msg("publish progress")
	}
}
