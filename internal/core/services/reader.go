package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// Ensure ReaderService implements the interface.
var _ driving.ReaderService = (*ReaderService)(nil)

// ReaderService reads the published catalog. It is independent of the
// write path except for sharing the document shape.
type ReaderService struct {
	repo   driven.RepoService
	branch string

	// pick selects an index in [0,n). Swappable for deterministic tests.
	pick func(n int) int
}

// NewReaderService creates a reader over the published branch.
func NewReaderService(repo driven.RepoService, publishedBranch string) *ReaderService {
	return &ReaderService{
		repo:   repo,
		branch: publishedBranch,
		pick:   rand.IntN,
	}
}

// Random returns one uniformly random message for lang.
func (s *ReaderService) Random(ctx context.Context, lang domain.Language) (domain.Message, error) {
	catalog, err := s.fetchCatalog(ctx, lang)
	if err != nil {
		return domain.Message{}, err
	}

	msg := catalog.Messages[s.pick(len(catalog.Messages))]
	logger.Debug("Picked message %q by %s", msg.Text, msg.Author)
	return msg, nil
}

// Recent returns up to count messages, most recent timestamp first.
// Ties keep original catalog order.
func (s *ReaderService) Recent(ctx context.Context, lang domain.Language, count int) ([]domain.Message, error) {
	if count < 1 {
		count = 1
	}
	if count > driving.RecentLimit {
		count = driving.RecentLimit
	}

	catalog, err := s.fetchCatalog(ctx, lang)
	if err != nil {
		return nil, err
	}

	ordered := make([]domain.Message, len(catalog.Messages))
	copy(ordered, catalog.Messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time().After(ordered[j].Time())
	})

	if count > len(ordered) {
		count = len(ordered)
	}
	return ordered[:count], nil
}

// fetchCatalog loads the published document for lang. Absence and
// emptiness both surface as domain.ErrNoMessages; the read path never
// crashes on a missing document.
func (s *ReaderService) fetchCatalog(ctx context.Context, lang domain.Language) (*domain.Catalog, error) {
	path := domain.CatalogPath(lang)
	logger.Debug("Fetching %s at %s", path, s.branch)

	file, err := s.repo.GetFile(ctx, path, s.branch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoMessages
		}
		return nil, fmt.Errorf("fetch catalog %s: %w", path, err)
	}

	catalog, err := domain.ParseCatalog(file.Content)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if len(catalog.Messages) == 0 {
		return nil, domain.ErrNoMessages
	}
	return catalog, nil
}
