package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid pet profile")

// PetProfile es la foto de solo lectura de los atributos de una mascota que
// participan en la similitud. Solo se construye via NewPetProfile.
type PetProfile struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Size        Size    `json:"size"`
	Age         float64 `json:"age"`
	Sex         Sex     `json:"sex"`
	EnergyLevel *string `json:"energy_level,omitempty"`
	Temperament *string `json:"temperament,omitempty"`
	Breed       *string `json:"breed,omitempty"`
}

// PetProfileInput son los atributos crudos tal como llegan del store o de un archivo.
type PetProfileInput struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Age         float64 `json:"age"`
	Sex         string  `json:"sex"`
	EnergyLevel *string `json:"energy_level,omitempty"`
	Temperament *string `json:"temperament,omitempty"`
	Breed       *string `json:"breed,omitempty"`
}

// NewPetProfile valida y normaliza un perfil. Los opcionales vacios o solo
// espacios quedan como ausentes.
func NewPetProfile(in PetProfileInput) (PetProfile, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return PetProfile{}, fmt.Errorf("%w: empty id", ErrInvalidProfile)
	}
	if math.IsNaN(in.Age) || math.IsInf(in.Age, 0) || in.Age < 0 {
		return PetProfile{}, fmt.Errorf("%w: pet %s has invalid age %v", ErrInvalidProfile, id, in.Age)
	}
	size, err := ParseSize(in.Size)
	if err != nil {
		return PetProfile{}, fmt.Errorf("pet %s: %w", id, err)
	}
	sex, err := ParseSex(in.Sex)
	if err != nil {
		return PetProfile{}, fmt.Errorf("pet %s: %w", id, err)
	}

	return PetProfile{
		ID:          id,
		Category:    strings.TrimSpace(in.Category),
		Size:        size,
		Age:         in.Age,
		Sex:         sex,
		EnergyLevel: normalizeOptional(in.EnergyLevel),
		Temperament: normalizeOptional(in.Temperament),
		Breed:       normalizeOptional(in.Breed),
	}, nil
}

// Input devuelve los atributos en forma cruda; NewPetProfile(p.Input()) == p.
func (p PetProfile) Input() PetProfileInput {
	return PetProfileInput{
		ID:          p.ID,
		Category:    p.Category,
		Size:        string(p.Size),
		Age:         p.Age,
		Sex:         string(p.Sex),
		EnergyLevel: p.EnergyLevel,
		Temperament: p.Temperament,
		Breed:       p.Breed,
	}
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ScoredCandidate es un candidato con su puntaje de similitud en [0, 100].
type ScoredCandidate struct {
	PetID string `json:"pet_id"`
	Score int    `json:"score"`
}
