package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"petmatch/internal/domain"
	"petmatch/internal/repository"
)

const (
	// PoolCap acota cuantos candidatos se puntuan por request.
	PoolCap = 80
	// DefaultLimit es el tamaño sugerido del top-N cuando el caller no lo indica.
	DefaultLimit = 12
)

var (
	ErrPetNotFound      = errors.New("pet not found")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrCategoryMismatch = errors.New("pets belong to different categories")
)

// Resultados reportados a RankObserver.
const (
	RankOutcomeOK              = "ok"
	RankOutcomeNotFound        = "not_found"
	RankOutcomeInvalidArgument = "invalid_argument"
	RankOutcomeCanceled        = "canceled"
	RankOutcomeProviderError   = "provider_error"
)

// RankObserver recibe una observacion por cada llamada a Rank.
type RankObserver interface {
	ObserveRank(outcome string, poolSize int, elapsed time.Duration)
}

// SimilarPetService ordena mascotas candidatas por similitud con una mascota origen.
// No guarda estado entre llamadas; es seguro usarlo desde varias goroutines.
type SimilarPetService struct {
	logger   *zap.Logger
	pets     repository.PetRepository
	scorer   SimilarityScorer
	observer RankObserver
	poolCap  int
}

func NewSimilarPetService(logger *zap.Logger, pets repository.PetRepository, scorer SimilarityScorer, observer RankObserver) *SimilarPetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimilarPetService{
		logger:   logger,
		pets:     pets,
		scorer:   scorer,
		observer: observer,
		poolCap:  PoolCap,
	}
}

// Rank devuelve hasta limit candidatos ordenados por puntaje descendente.
// Los empates conservan el orden del pool entregado por el repositorio.
// Un limit <= 0 se rechaza con ErrInvalidLimit; nunca se devuelven resultados parciales.
func (s *SimilarPetService) Rank(ctx context.Context, sourceID string, limit int) (ranked []domain.ScoredCandidate, err error) {
	start := time.Now()
	poolSize := 0
	defer func() {
		s.observe(err, poolSize, time.Since(start))
	}()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	source, err := s.getProfile(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	pool, err := s.pets.ListCandidatePool(ctx, source.Category, source.ID, s.poolCap)
	if err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}
	if len(pool) > s.poolCap {
		pool = pool[:s.poolCap]
	}
	poolSize = len(pool)

	scored := make([]domain.ScoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == source.ID {
			continue
		}
		scored = append(scored, domain.ScoredCandidate{
			PetID: candidate.ID,
			Score: s.scorer.Score(source, candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("ranked similar pets",
		zap.String("source_id", source.ID),
		zap.Int("pool_size", poolSize),
		zap.Int("returned", len(scored)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return scored, nil
}

// Compare devuelve el detalle del puntaje entre dos mascotas de la misma categoria.
func (s *SimilarPetService) Compare(ctx context.Context, sourceID, candidateID string) (ScoreBreakdown, error) {
	source, err := s.getProfile(ctx, sourceID)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	candidate, err := s.getProfile(ctx, candidateID)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	if !strings.EqualFold(source.Category, candidate.Category) {
		return ScoreBreakdown{}, fmt.Errorf("%w: %s is %q, %s is %q", ErrCategoryMismatch, source.ID, source.Category, candidate.ID, candidate.Category)
	}
	return s.scorer.Explain(source, candidate), nil
}

func (s *SimilarPetService) getProfile(ctx context.Context, id string) (domain.PetProfile, error) {
	if strings.TrimSpace(id) == "" {
		return domain.PetProfile{}, fmt.Errorf("%w: empty id", ErrPetNotFound)
	}
	profile, err := s.pets.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PetProfile{}, fmt.Errorf("%w: %s", ErrPetNotFound, id)
		}
		return domain.PetProfile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return profile, nil
}

func (s *SimilarPetService) observe(err error, poolSize int, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveRank(rankOutcome(err), poolSize, elapsed)
}

func rankOutcome(err error) string {
	switch {
	case err == nil:
		return RankOutcomeOK
	case errors.Is(err, ErrPetNotFound):
		return RankOutcomeNotFound
	case errors.Is(err, ErrInvalidLimit):
		return RankOutcomeInvalidArgument
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return RankOutcomeCanceled
	default:
		return RankOutcomeProviderError
	}
}
