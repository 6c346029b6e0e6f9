// Package selector decides which questions to serve next: least-exposed
// eligible content first, shuffled options, correct index recomputed
// after the shuffle.
package selector

import (
	"context"
	"log/slog"

	"github.com/triviadeck/backend/internal/domain/question"
	"github.com/triviadeck/backend/internal/domain/quiztype"
	"github.com/triviadeck/backend/internal/store"
)

type Selector struct {
	store  *store.SQLiteStore
	logger *slog.Logger
}

func New(s *store.SQLiteStore, logger *slog.Logger) *Selector {
	return &Selector{
		store:  s,
		logger: logger,
	}
}

// Select returns up to count formatted questions for a quiz type,
// omitting excludeIDs. An unknown quiz type is a configuration error and
// fails hard. A store fault is not: it degrades to an empty result, so
// callers must treat "fewer questions than requested, possibly zero" as
// a normal outcome.
func (s *Selector) Select(ctx context.Context, quizType string, count int, excludeIDs []int64) ([]question.Formatted, error) {
	cfg, err := quiztype.Lookup(quizType)
	if err != nil {
		return nil, err
	}

	return s.ByCategory(ctx, cfg.Category, cfg.Subcategory, cfg.ImageFolder, count, excludeIDs), nil
}

// ByCategory fetches and formats questions for an explicit
// (category, subcategory) pair, bypassing the quiz-type registry.
func (s *Selector) ByCategory(ctx context.Context, category, subcategory, imageFolder string, count int, excludeIDs []int64) []question.Formatted {
	selected, err := s.store.SelectEligible(ctx, category, subcategory, count, excludeIDs)
	if err != nil {
		s.logger.Error("question fetch failed, serving empty quiz",
			"category", category, "subcategory", subcategory, "error", err)
		return []question.Formatted{}
	}

	formatted := make([]question.Formatted, len(selected))
	for i, sq := range selected {
		formatted[i] = question.Format(sq, imageFolder)
	}
	return formatted
}
