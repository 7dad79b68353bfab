package service

import (
	"math"
	"strings"

	"petmatch/internal/domain"
)

// Weights es la tabla fija de pesos y creditos parciales del scorer.
type Weights struct {
	Size        float64
	AgeBucket   float64
	Sex         float64
	EnergyLevel float64
	Temperament float64
	Breed       float64

	SizeClassCredit    float64 // misma clase gruesa de talla
	AgeProximityCredit float64 // bucket distinto pero edades cercanas
	AgeProximityYears  float64
	BreedPartialCredit float64 // una raza contiene a la otra
}

// DefaultWeights devuelve la tabla de pesos de referencia.
//
// Total maximo con todos los opcionales presentes: 2 + 1.5 + 1 + 1 + 1 + 0.5 = 7.
// Solo obligatorios (talla, edad, sexo): 4.5.
func DefaultWeights() Weights {
	return Weights{
		Size:        2.0,
		AgeBucket:   1.5,
		Sex:         1.0,
		EnergyLevel: 1.0,
		Temperament: 1.0,
		Breed:       0.5,

		SizeClassCredit:    1.0,
		AgeProximityCredit: 0.75,
		AgeProximityYears:  2,
		BreedPartialCredit: 0.25,
	}
}

const (
	AttributeSize        = "size"
	AttributeAgeBucket   = "age_bucket"
	AttributeSex         = "sex"
	AttributeEnergyLevel = "energy_level"
	AttributeTemperament = "temperament"
	AttributeBreed       = "breed"
)

// AttributeScore es el aporte de un atributo comparable.
type AttributeScore struct {
	Attribute string  `json:"attribute"`
	Earned    float64 `json:"earned"`
	Possible  float64 `json:"possible"`
}

// ScoreBreakdown detalla como se llego al puntaje final.
type ScoreBreakdown struct {
	SourceID    string           `json:"source_id"`
	CandidateID string           `json:"candidate_id"`
	Attributes  []AttributeScore `json:"attributes"`
	Earned      float64          `json:"earned"`
	Total       float64          `json:"total"`
	Score       int              `json:"score"`
}

// SimilarityScorer calcula la similitud ponderada entre dos perfiles de la
// misma categoria. Es puro: sin I/O ni estado mutable.
type SimilarityScorer struct {
	weights Weights
}

func NewSimilarityScorer(weights Weights) SimilarityScorer {
	return SimilarityScorer{weights: weights}
}

// DefaultSimilarityScorer usa DefaultWeights.
var DefaultSimilarityScorer = NewSimilarityScorer(DefaultWeights())

// Weights devuelve una copia de la tabla usada por el scorer.
func (s SimilarityScorer) Weights() Weights {
	return s.weights
}

// Score devuelve la similitud en [0, 100]. La categoria no se evalua.
func (s SimilarityScorer) Score(source, candidate domain.PetProfile) int {
	return s.Explain(source, candidate).Score
}

// Explain evalua cada atributo en orden fijo y devuelve el detalle.
func (s SimilarityScorer) Explain(source, candidate domain.PetProfile) ScoreBreakdown {
	w := s.weights
	b := ScoreBreakdown{
		SourceID:    source.ID,
		CandidateID: candidate.ID,
		Attributes:  make([]AttributeScore, 0, 6),
	}
	add := func(attr string, earned, possible float64) {
		b.Attributes = append(b.Attributes, AttributeScore{Attribute: attr, Earned: earned, Possible: possible})
		b.Earned += earned
		b.Total += possible
	}

	add(AttributeSize, s.sizeCredit(source.Size, candidate.Size), w.Size)
	add(AttributeAgeBucket, s.ageCredit(source.Age, candidate.Age), w.AgeBucket)

	var sexCredit float64
	if source.Sex == candidate.Sex {
		sexCredit = w.Sex
	}
	add(AttributeSex, sexCredit, w.Sex)

	if source.EnergyLevel != nil && candidate.EnergyLevel != nil {
		add(AttributeEnergyLevel, exactCredit(*source.EnergyLevel, *candidate.EnergyLevel, w.EnergyLevel), w.EnergyLevel)
	}
	if source.Temperament != nil && candidate.Temperament != nil {
		add(AttributeTemperament, exactCredit(*source.Temperament, *candidate.Temperament, w.Temperament), w.Temperament)
	}
	if source.Breed != nil && candidate.Breed != nil {
		if credit, ok := s.breedCredit(*source.Breed, *candidate.Breed); ok {
			add(AttributeBreed, credit, w.Breed)
		}
	}

	b.Score = percentage(b.Earned, b.Total)
	return b
}

func (s SimilarityScorer) sizeCredit(a, b domain.Size) float64 {
	if a == b {
		return s.weights.Size
	}
	if ca := a.Class(); ca != domain.SizeClassUnknown && ca == b.Class() {
		return s.weights.SizeClassCredit
	}
	return 0
}

func (s SimilarityScorer) ageCredit(a, b float64) float64 {
	if domain.AgeBucketOf(a) == domain.AgeBucketOf(b) {
		return s.weights.AgeBucket
	}
	if math.Abs(a-b) <= s.weights.AgeProximityYears {
		return s.weights.AgeProximityCredit
	}
	return 0
}

// breedCredit compara razas sin distinguir mayusculas; ok=false si alguna
// queda vacia tras el trim.
func (s SimilarityScorer) breedCredit(a, b string) (float64, bool) {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return 0, false
	}
	switch {
	case la == lb:
		return s.weights.Breed, true
	case strings.Contains(la, lb) || strings.Contains(lb, la):
		return s.weights.BreedPartialCredit, true
	default:
		return 0, true
	}
}

func exactCredit(a, b string, weight float64) float64 {
	if a == b {
		return weight
	}
	return 0
}

// percentage redondea half-up; total 0 significa indistinguibles.
func percentage(earned, total float64) int {
	if total <= 0 {
		return 100
	}
	pct := math.Round(earned * 100 / total)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
