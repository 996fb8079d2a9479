package volux

import "errors"

// Resolution and binding failures are local to one material's draw: the
// caller skips the object for the current frame rather than abandoning the
// frame. All errors below are matched with errors.Is after wrapping.
var (
	// ErrMissingFieldValue: a spectrum color slot was resolved without a
	// scalar field value to index the table with.
	ErrMissingFieldValue = errors.New("spectrum resolution requires a field value")

	// ErrEmptySpectrum: the spectrum table has no control points.
	ErrEmptySpectrum = errors.New("spectrum has no control points")

	// ErrMissingDistance: relative point sizing was resolved without a
	// camera distance.
	ErrMissingDistance = errors.New("relative point size requires a camera distance")

	// ErrProgramNotFound: a material references a shader program name that
	// is not in the program registry. Raised at bind time, not at set time.
	ErrProgramNotFound = errors.New("shader program not registered")

	// ErrInvalidDepthRange: far <= near would make the normalized depth
	// meaningless or infinite.
	ErrInvalidDepthRange = errors.New("depth range far must exceed near")
)
