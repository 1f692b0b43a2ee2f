package assets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// AssetService is the intake for external asset descriptors: uploads,
// stock media, and AI-generated assets all arrive through the same shape.
type AssetService interface {
	Register(ctx context.Context, a Asset) (*Asset, error)
	Get(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context) ([]*Asset, error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register validates and stores an asset descriptor. Ids are assigned when
// the external store did not provide one, and the kind is inferred from the
// URL when unset. Non-finite or negative durations are rejected at the
// boundary.
func (s *Service) Register(ctx context.Context, a Asset) (*Asset, error) {
	if a.URL == "" {
		return nil, fmt.Errorf("asset url is required")
	}
	if math.IsNaN(a.Duration) || math.IsInf(a.Duration, 0) || a.Duration < 0 {
		return nil, fmt.Errorf("asset duration must be a non-negative number")
	}
	if a.Kind == "" {
		a.Kind = KindFromURL(a.URL)
	}
	switch a.Kind {
	case KindVideo, KindImage, KindAudio:
	default:
		return nil, fmt.Errorf("unknown asset kind %q", a.Kind)
	}
	if (a.Kind == KindVideo || a.Kind == KindAudio) && a.Duration == 0 {
		return nil, fmt.Errorf("%s asset requires a duration", a.Kind)
	}

	if a.ID == "" {
		a.ID = timeline.NewID()
	} else if existing, err := s.repo.GetAsset(ctx, a.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}
	a.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateAsset(ctx, &a); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("asset registered", "asset_id", a.ID, "kind", string(a.Kind), "duration", a.Duration)
	}
	return &a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.DeleteAsset(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountAssets(ctx)
}
