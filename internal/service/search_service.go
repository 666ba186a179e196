package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

type searchRepository interface {
	Search(ctx context.Context, query string, limit int) (*models.SearchResults, error)
}

// SearchService answers cross-entity lookups for the admin UI.
type SearchService struct {
	repo   searchRepository
	logger *zap.Logger
}

// NewSearchService constructs the search service.
func NewSearchService(repo searchRepository, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{repo: repo, logger: logger}
}

// Search returns matches across students, teachers, courses and rooms.
// Queries shorter than two characters are rejected to avoid table scans.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search query must be at least 2 characters")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	results, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "search failed")
	}
	return results, nil
}
