package domain

import (
	"fmt"
	"strings"

	"github.com/mmcloughlin/geohash"
)

// geohashAlphabet - base32 алфавит geohash.
const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// Viewport - прямоугольник видимой области карты.
type Viewport struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

func (v Viewport) Validate() error {
	if v.MinLat > v.MaxLat || v.MinLon > v.MaxLon {
		return fmt.Errorf("%w: viewport corners are swapped", ErrInvalidPayload)
	}
	if v.MinLat < -90 || v.MaxLat > 90 || v.MinLon < -180 || v.MaxLon > 180 {
		return fmt.Errorf("%w: viewport is out of range", ErrInvalidPayload)
	}
	return nil
}

// GeohashPrefix - общий префикс geohash углов области. Пустая строка - область
// слишком большая, фильтровать по geohash нельзя.
func (v Viewport) GeohashPrefix() string {
	sw := geohash.EncodeWithPrecision(v.MinLat, v.MinLon, geohashPrecision)
	ne := geohash.EncodeWithPrecision(v.MaxLat, v.MaxLon, geohashPrecision)

	n := 0
	for n < len(sw) && n < len(ne) && sw[n] == ne[n] {
		n++
	}
	return sw[:n]
}

// NormalizeGeohashPrefix проверяет префикс, пришедший от клиента.
func NormalizeGeohashPrefix(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > geohashPrecision {
		s = s[:geohashPrecision]
	}
	for _, r := range s {
		if !strings.ContainsRune(geohashAlphabet, r) {
			return "", fmt.Errorf("%w: invalid geohash %q", ErrInvalidPayload, s)
		}
	}
	return s, nil
}
