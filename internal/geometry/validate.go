package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks inputs the navigation math cannot operate on, such
// as NaN coordinates or negative speeds. Sector comparisons on NaN are
// undefined, so these fail fast instead of propagating silently.
var ErrInvalidInput = errors.New("invalid input")

// CheckFinite returns ErrInvalidInput if any value is NaN or infinite.
func CheckFinite(vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value %v", ErrInvalidInput, v)
		}
	}
	return nil
}

// CheckSpeed returns ErrInvalidInput for non-finite or negative speeds.
func CheckSpeed(speed float64) error {
	if err := CheckFinite(speed); err != nil {
		return err
	}
	if speed < 0 {
		return fmt.Errorf("%w: negative speed %v", ErrInvalidInput, speed)
	}
	return nil
}
