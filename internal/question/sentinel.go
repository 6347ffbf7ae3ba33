package question

import (
	"context"

	"github.com/rs/zerolog"
)

// WithSentinel converts every failure of next into the Sentinel pair. The
// caller never sees an error; failed slots display the placeholder text.
func WithSentinel(next Generator, logger zerolog.Logger) Generator {
	logger = logger.With().Str("component", "question_sentinel").Logger()
	return GeneratorFunc(func(ctx context.Context, req Request) (Pair, error) {
		pair, err := next.Generate(ctx, req)
		if err == nil && pair.Question != "" && pair.Answer != "" {
			return pair, nil
		}
		if err == nil {
			err = ErrEmptyPair
		}
		logger.Error().Err(err).
			Str("category", req.Category).
			Int("value", int(req.Value)).
			Msg("error generating question")
		return Sentinel, nil
	})
}
