package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/triviago/internal/question/external"
)

type opentdbProvider interface {
	Categories(ctx context.Context) ([]external.OpenTDBCategory, error)
	Fetch(ctx context.Context, amount, category int, difficulty, qType string) ([]external.OpenTDBQuestion, error)
}

// Service is the question source: categories and raw question sets.
// There is no retry; failures come back as *httpclient.RemoteError.
type Service struct {
	opentdb opentdbProvider
	cache   *CategoryCache
	sf      singleflight.Group
	logger  zerolog.Logger
}

// NewService wires the OpenTDB provider. cache may be nil.
func NewService(opentdb opentdbProvider, cache *CategoryCache, logger zerolog.Logger) *Service {
	return &Service{
		opentdb: opentdb,
		cache:   cache,
		logger:  logger.With().Str("component", "question").Logger(),
	}
}

// ListCategories returns the category list, from cache when possible.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		cats, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		} else if len(cats) > 0 {
			return cats, nil
		}
	}

	v, err, _ := s.sf.Do(categoriesKey, func() (interface{}, error) {
		raw, err := s.opentdb.Categories(ctx)
		if err != nil {
			return nil, err
		}
		cats := make([]Category, 0, len(raw))
		for _, c := range raw {
			cats = append(cats, Category{ID: c.ID, Name: c.Name})
		}
		if s.cache != nil && len(cats) > 0 {
			if err := s.cache.Set(ctx, cats); err != nil {
				s.logger.Warn().Err(err).Msg("category cache write failed")
			}
		}
		return cats, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return v.([]Category), nil
}

// FetchQuestions returns req.Amount multiple-choice questions.
func (s *Service) FetchQuestions(ctx context.Context, req FetchRequest) ([]RawQuestion, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	raw, err := s.opentdb.Fetch(ctx, req.Amount, req.CategoryID, req.Difficulty, TypeMultiple)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	out := make([]RawQuestion, 0, len(raw))
	for _, q := range raw {
		out = append(out, RawQuestion{
			Category:         q.Category,
			Type:             q.Type,
			Difficulty:       q.Difficulty,
			Question:         q.Question,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswers: q.IncorrectAnswer,
		})
	}
	s.logger.Debug().
		Int("amount", req.Amount).
		Int("category", req.CategoryID).
		Str("difficulty", req.Difficulty).
		Int("received", len(out)).
		Msg("questions fetched")
	return out, nil
}
