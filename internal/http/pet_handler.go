package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petmatch/internal/service"
)

var errLimitOutOfRange = errors.New("limit out of range")

// PetHandler expone el ranking de mascotas similares.
type PetHandler struct {
	logger      *zap.Logger
	pets        *service.SimilarPetService
	rankTimeout time.Duration
}

// NewPetHandler crea el handler. rankTimeout <= 0 deja solo el deadline del request.
func NewPetHandler(logger *zap.Logger, pets *service.SimilarPetService, rankTimeout time.Duration) *PetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PetHandler{
		logger:      logger,
		pets:        pets,
		rankTimeout: rankTimeout,
	}
}

// ListSimilar maneja GET /pets/:id/similar.
func (h *PetHandler) ListSimilar(c *gin.Context) {
	petID := c.Param("id")
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		h.logger.Warn("invalid similar pets limit", zap.String("limit", c.Query("limit")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and " + strconv.Itoa(service.PoolCap)})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	results, err := h.pets.Rank(ctx, petID, limit)
	if err != nil {
		h.respondError(c, err, "rank similar pets failed", "could not rank pets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_id": petID,
		"limit":     limit,
		"results":   results,
	})
}

// Compare maneja GET /pets/:id/similar/:candidateId.
func (h *PetHandler) Compare(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	breakdown, err := h.pets.Compare(ctx, c.Param("id"), c.Param("candidateId"))
	if err != nil {
		h.respondError(c, err, "compare pets failed", "could not compare pets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

func (h *PetHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.rankTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.rankTimeout)
}

func (h *PetHandler) respondError(c *gin.Context, err error, logMsg, publicMsg string) {
	switch {
	case errors.Is(err, service.ErrPetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
	case errors.Is(err, service.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
	case errors.Is(err, service.ErrCategoryMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "pets belong to different categories"})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn(logMsg, zap.String("pet_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "pet store timed out"})
	default:
		h.logger.Error(logMsg, zap.String("pet_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": publicMsg})
	}
}

// parseLimit aplica DefaultLimit cuando falta y acota a [1, PoolCap].
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return service.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit < 1 || limit > service.PoolCap {
		return 0, errLimitOutOfRange
	}
	return limit, nil
}
