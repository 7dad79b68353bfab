package domain

import (
	"fmt"
	"strings"
)

// Size es la talla ordinal de una mascota.
type Size string

const (
	SizeSmall      Size = "small"
	SizeMedium     Size = "medium"
	SizeLarge      Size = "large"
	SizeExtraLarge Size = "extra-large"
)

var sizeAliases = map[string]Size{
	"small":       SizeSmall,
	"medium":      SizeMedium,
	"large":       SizeLarge,
	"extra-large": SizeExtraLarge,
	"extra_large": SizeExtraLarge,
	"extralarge":  SizeExtraLarge,
	"x-large":     SizeExtraLarge,
	"xl":          SizeExtraLarge,
}

// ParseSize normaliza una etiqueta de talla (sin distinguir mayusculas).
func ParseSize(raw string) (Size, error) {
	size, ok := sizeAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: unknown size %q", ErrInvalidProfile, raw)
	}
	return size, nil
}

// SizeClass agrupa tallas en dos clases gruesas para credito parcial.
type SizeClass int

const (
	SizeClassUnknown SizeClass = iota
	SizeClassSmall             // small, medium
	SizeClassLarge             // large, extra-large
)

// Class devuelve la clase gruesa de la talla.
func (s Size) Class() SizeClass {
	switch s {
	case SizeSmall, SizeMedium:
		return SizeClassSmall
	case SizeLarge, SizeExtraLarge:
		return SizeClassLarge
	default:
		return SizeClassUnknown
	}
}

// AgeBucket es la categoria discreta de edad.
type AgeBucket int

const (
	AgeBucketYoung AgeBucket = iota
	AgeBucketMid
	AgeBucketSenior
)

const (
	youngMaxAge = 1.0
	midMaxAge   = 7.0
)

// AgeBucketOf clasifica una edad en años: <=1 joven, <=7 adulto, resto senior.
func AgeBucketOf(age float64) AgeBucket {
	switch {
	case age <= youngMaxAge:
		return AgeBucketYoung
	case age <= midMaxAge:
		return AgeBucketMid
	default:
		return AgeBucketSenior
	}
}

func (b AgeBucket) String() string {
	switch b {
	case AgeBucketYoung:
		return "young"
	case AgeBucketMid:
		return "mid"
	case AgeBucketSenior:
		return "senior"
	default:
		return "unknown"
	}
}

// Sex del animal.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func ParseSex(raw string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	case "unknown":
		return SexUnknown, nil
	default:
		return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidProfile, raw)
	}
}
