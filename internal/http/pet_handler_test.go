package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petmatch/internal/domain"
	"petmatch/internal/repository"
	"petmatch/internal/service"
)

type mockPetRepo struct {
	profiles  map[string]domain.PetProfile
	pool      []domain.PetProfile
	poolErr   error
	blockPool bool
}

func (m *mockPetRepo) GetProfile(_ context.Context, id string) (domain.PetProfile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return domain.PetProfile{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockPetRepo) ListCandidatePool(ctx context.Context, _ string, _ string, _ int) ([]domain.PetProfile, error) {
	if m.blockPool {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	return m.pool, nil
}

func mustPet(t *testing.T, in domain.PetProfileInput) domain.PetProfile {
	t.Helper()
	p, err := domain.NewPetProfile(in)
	if err != nil {
		t.Fatalf("build profile %s: %v", in.ID, err)
	}
	return p
}

func newPetRepoFixture(t *testing.T) *mockPetRepo {
	src := mustPet(t, domain.PetProfileInput{ID: "src", Category: "dog", Size: "medium", Age: 3, Sex: "male"})
	twin := mustPet(t, domain.PetProfileInput{ID: "twin", Category: "dog", Size: "medium", Age: 3, Sex: "male"})
	far := mustPet(t, domain.PetProfileInput{ID: "far", Category: "dog", Size: "extra-large", Age: 12, Sex: "female"})
	cat := mustPet(t, domain.PetProfileInput{ID: "cat", Category: "cat", Size: "small", Age: 2, Sex: "female"})
	return &mockPetRepo{
		profiles: map[string]domain.PetProfile{"src": src, "twin": twin, "far": far, "cat": cat},
		pool:     []domain.PetProfile{far, twin},
	}
}

func setupPetRouter(repo repository.PetRepository, timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewSimilarPetService(zap.NewNop(), repo, service.DefaultSimilarityScorer, nil)
	h := NewPetHandler(zap.NewNop(), svc, timeout)
	r := gin.New()
	r.GET("/pets/:id/similar", h.ListSimilar)
	r.GET("/pets/:id/similar/:candidateId", h.Compare)
	return r
}

func performGet(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type similarResponse struct {
	SourceID string                   `json:"source_id"`
	Limit    int                      `json:"limit"`
	Results  []domain.ScoredCandidate `json:"results"`
}

func TestPetHandlerListSimilar_Success(t *testing.T) {
	r := setupPetRouter(newPetRepoFixture(t), time.Second)

	rec := performGet(r, "/pets/src/similar")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp similarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SourceID != "src" || resp.Limit != service.DefaultLimit {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].PetID != "twin" || resp.Results[0].Score != 100 {
		t.Fatalf("expected twin first with 100, got %+v", resp.Results[0])
	}
	if resp.Results[1].PetID != "far" || resp.Results[1].Score != 0 {
		t.Fatalf("expected far second with 0, got %+v", resp.Results[1])
	}
}

func TestPetHandlerListSimilar_LimitTruncates(t *testing.T) {
	r := setupPetRouter(newPetRepoFixture(t), time.Second)

	rec := performGet(r, "/pets/src/similar?limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp similarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Limit != 1 || len(resp.Results) != 1 || resp.Results[0].PetID != "twin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPetHandlerListSimilar_EmptyPoolReturnsEmptyList(t *testing.T) {
	repo := newPetRepoFixture(t)
	repo.pool = nil
	r := setupPetRouter(repo, time.Second)

	rec := performGet(r, "/pets/src/similar")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(body["results"]) != "[]" {
		t.Fatalf("expected empty results array, got %s", body["results"])
	}
}

func TestPetHandlerListSimilar_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		prepare    func(repo *mockPetRepo)
		wantStatus int
		wantError  string
	}{
		{name: "limit not a number", path: "/pets/src/similar?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "limit zero", path: "/pets/src/similar?limit=0", wantStatus: http.StatusBadRequest},
		{name: "limit negative", path: "/pets/src/similar?limit=-3", wantStatus: http.StatusBadRequest},
		{name: "limit above cap", path: "/pets/src/similar?limit=81", wantStatus: http.StatusBadRequest},
		{name: "unknown pet", path: "/pets/ghost/similar", wantStatus: http.StatusNotFound, wantError: "pet not found"},
		{
			name:       "provider failure",
			path:       "/pets/src/similar",
			prepare:    func(repo *mockPetRepo) { repo.poolErr = errors.New("connection refused") },
			wantStatus: http.StatusInternalServerError,
			wantError:  "could not rank pets",
		},
		{
			name:       "provider timeout",
			path:       "/pets/src/similar",
			prepare:    func(repo *mockPetRepo) { repo.blockPool = true },
			wantStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newPetRepoFixture(t)
			if tt.prepare != nil {
				tt.prepare(repo)
			}
			r := setupPetRouter(repo, 20*time.Millisecond)

			rec := performGet(r, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if _, ok := body["results"]; ok {
				t.Fatalf("error response must not carry results: %v", body)
			}
			if tt.wantError != "" && body["error"] != tt.wantError {
				t.Fatalf("expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}

func TestPetHandlerCompare(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "same category", path: "/pets/src/similar/twin", wantStatus: http.StatusOK},
		{name: "missing candidate", path: "/pets/src/similar/ghost", wantStatus: http.StatusNotFound},
		{name: "category mismatch", path: "/pets/src/similar/cat", wantStatus: http.StatusConflict},
	}

	r := setupPetRouter(newPetRepoFixture(t), time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performGet(r, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPetHandlerCompare_Breakdown(t *testing.T) {
	r := setupPetRouter(newPetRepoFixture(t), time.Second)

	rec := performGet(r, "/pets/src/similar/twin")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Breakdown service.ScoreBreakdown `json:"breakdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Breakdown.Score != 100 || resp.Breakdown.CandidateID != "twin" {
		t.Fatalf("unexpected breakdown: %+v", resp.Breakdown)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: service.DefaultLimit},
		{raw: " 5 ", want: 5},
		{raw: "80", want: 80},
		{raw: "81", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseLimit(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseLimit(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseLimit(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}
