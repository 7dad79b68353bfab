package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"petmatch/internal/domain"
)

type redisCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedPetRepository cachea en Redis el pool de candidatos del repositorio
// interno. Si Redis falla se consulta directo al repositorio (fail-open).
type CachedPetRepository struct {
	inner  PetRepository
	client redisCache
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewCachedPetRepository(inner PetRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) PetRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return newCachedPetRepository(inner, client, ttl, logger)
}

func newCachedPetRepository(inner PetRepository, client redisCache, ttl time.Duration, logger *zap.Logger) *CachedPetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPetRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		prefix: "pets:pool:",
		logger: logger,
	}
}

// GetProfile no se cachea: el perfil origen debe estar siempre al dia.
func (r *CachedPetRepository) GetProfile(ctx context.Context, id string) (domain.PetProfile, error) {
	return r.inner.GetProfile(ctx, id)
}

func (r *CachedPetRepository) ListCandidatePool(ctx context.Context, category, excludeID string, poolCap int) ([]domain.PetProfile, error) {
	key := r.poolKey(category, excludeID, poolCap)

	if cached, ok := r.readPool(ctx, key); ok {
		return cached, nil
	}

	pool, err := r.inner.ListCandidatePool(ctx, category, excludeID, poolCap)
	if err != nil {
		return nil, err
	}

	r.writePool(ctx, key, pool)
	return pool, nil
}

func (r *CachedPetRepository) poolKey(category, excludeID string, poolCap int) string {
	return r.prefix + category + ":" + excludeID + ":" + strconv.Itoa(poolCap)
}

func (r *CachedPetRepository) readPool(ctx context.Context, key string) ([]domain.PetProfile, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("pool cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var inputs []domain.PetProfileInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		r.logger.Warn("pool cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	pool := make([]domain.PetProfile, 0, len(inputs))
	for _, in := range inputs {
		p, err := domain.NewPetProfile(in)
		if err != nil {
			r.logger.Warn("pool cache entry invalid", zap.String("key", key), zap.Error(err))
			return nil, false
		}
		pool = append(pool, p)
	}
	return pool, true
}

func (r *CachedPetRepository) writePool(ctx context.Context, key string, pool []domain.PetProfile) {
	inputs := make([]domain.PetProfileInput, 0, len(pool))
	for _, p := range pool {
		inputs = append(inputs, p.Input())
	}
	payload, err := json.Marshal(inputs)
	if err != nil {
		r.logger.Warn("pool cache encode failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("pool cache write failed", zap.String("key", key), zap.Error(err))
	}
}
