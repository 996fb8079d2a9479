package volux

import "fmt"

type PointSizeMode int

const (
	// PointSizeAbsolute: one fixed sprite size.
	PointSizeAbsolute PointSizeMode = iota
	// PointSizeRelative: sprite size interpolated between Min and Max as an
	// inverse function of camera distance.
	PointSizeRelative
)

// PointSizePolicy decides point-sprite screen size. Every material owns
// exactly one; the default is absolute size 1.
type PointSizePolicy struct {
	Mode PointSizeMode
	Size float32
	Min  float32
	Max  float32
}

func AbsolutePointSize(size float32) PointSizePolicy {
	if size < 0 {
		size = 0
	}
	return PointSizePolicy{Mode: PointSizeAbsolute, Size: size}
}

// RelativePointSize validates 0 <= min <= max.
func RelativePointSize(min, max float32) (PointSizePolicy, error) {
	if min < 0 || max < 0 || min > max {
		return PointSizePolicy{}, fmt.Errorf("relative point size needs 0 <= min <= max, got min=%v max=%v", min, max)
	}
	return PointSizePolicy{Mode: PointSizeRelative, Min: min, Max: max}, nil
}

// Resolve returns the sprite size for the given camera distance. Absolute
// mode ignores the distance; relative mode requires it and computes an
// inverse-linear falloff, Max at distance 0 saturating toward Min with
// increasing distance. Never returns a value outside [Min, Max].
func (p PointSizePolicy) Resolve(cameraDistance *float32) (float32, error) {
	if p.Mode == PointSizeAbsolute {
		return p.Size, nil
	}
	if cameraDistance == nil {
		return 0, ErrMissingDistance
	}
	d := *cameraDistance
	if d < 0 {
		d = 0
	}
	size := p.Min + (p.Max-p.Min)/(1+d)
	if size < p.Min {
		size = p.Min
	}
	if size > p.Max {
		size = p.Max
	}
	return size, nil
}
