package model

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// Strategy asks a language model for recommendation candidates and popup copy.
type Strategy struct {
	completer Completer
	logger    *slog.Logger
}

func NewStrategy(completer Completer, logger *slog.Logger) *Strategy {
	return &Strategy{
		completer: completer,
		logger:    logger.With("component", "model"),
	}
}

// Suggest returns the parsed model suggestion. The catalog must not contain the
// viewed product. Candidates are not checked against the catalog here.
// Output that does not parse yields an empty suggestion, not an error; errors
// are reserved for failed completions.
func (s *Strategy) Suggest(ctx context.Context, viewed domain.Product, catalog []domain.Product) (*domain.Suggestion, error) {
	system, user := buildPrompt(viewed, catalog)

	raw, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		if IsModelInferenceError(err) {
			return nil, err
		}
		return nil, &ModelInferenceError{Msg: "completion failed", Err: err}
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		s.logger.DebugContext(ctx, "unusable model output", slog.String("raw", truncateForLog(raw)), slog.Any("error", err))
		return &domain.Suggestion{}, nil
	}
	return suggestion, nil
}

func truncateForLog(s string) string {
	const limit = 500
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
