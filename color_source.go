package volux

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type ColorSourceMode int

const (
	// ColorConstant: a fixed RGBA value.
	ColorConstant ColorSourceMode = iota
	// ColorSpectrum: color looked up in a spectrum table using the
	// object's scalar field value.
	ColorSpectrum
)

// ColorSource resolves a color either from a constant or from a spectrum
// indexed by a data field. The spectrum pointer is a weak reference into the
// asset server's spectrum registry; the source never owns the table.
type ColorSource struct {
	Mode     ColorSourceMode
	Value    mgl32.Vec4
	Spectrum *Spectrum
	// Field names the per-object scalar data field whose value indexes the
	// spectrum. Informational at resolve time (the caller supplies the
	// already-sampled value) but kept so the UI can show what drives the slot.
	Field string
}

// ConstantColor is the usual starting state for a material color slot.
func ConstantColor(c mgl32.Vec4) ColorSource {
	return ColorSource{Mode: ColorConstant, Value: c}
}

// SpectrumColor switches a slot to table-driven coloring.
func SpectrumColor(spec *Spectrum, field string) ColorSource {
	return ColorSource{Mode: ColorSpectrum, Spectrum: spec, Field: field}
}

// Resolve is pure: constant mode returns the stored value and ignores
// fieldValue; spectrum mode requires fieldValue and samples the table.
func (s ColorSource) Resolve(fieldValue *float32) (mgl32.Vec4, error) {
	switch s.Mode {
	case ColorSpectrum:
		if s.Spectrum == nil {
			return mgl32.Vec4{}, fmt.Errorf("color source field %q: %w", s.Field, ErrEmptySpectrum)
		}
		if fieldValue == nil {
			return mgl32.Vec4{}, fmt.Errorf("color source field %q: %w", s.Field, ErrMissingFieldValue)
		}
		return s.Spectrum.Sample(*fieldValue)
	default:
		return s.Value, nil
	}
}
