package volux

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ControlPoint maps a scalar position to an RGBA color. Positions within a
// spectrum are strictly increasing.
type ControlPoint struct {
	Position float32
	Color    mgl32.Vec4
}

// Spectrum is an ordered color lookup table indexed by a scalar field value,
// the transfer-function analogue used to map data values onto geometry.
// The table is immutable after construction; sampling is pure and safe to
// call from the render thread while other materials are being configured.
type Spectrum struct {
	name   string
	points []ControlPoint
}

// NewSpectrum validates that positions are strictly increasing and copies the
// control points so later mutation of the caller's slice cannot skew sampling.
func NewSpectrum(name string, points []ControlPoint) (*Spectrum, error) {
	for i := 1; i < len(points); i++ {
		if points[i].Position <= points[i-1].Position {
			return nil, fmt.Errorf("spectrum %q: control point %d position %v not above %v",
				name, i, points[i].Position, points[i-1].Position)
		}
	}
	cp := make([]ControlPoint, len(points))
	copy(cp, points)
	return &Spectrum{name: name, points: cp}, nil
}

func (s *Spectrum) Name() string { return s.name }

func (s *Spectrum) NumPoints() int { return len(s.points) }

// HasAlpha reports whether any control point is not fully opaque, which
// pushes geometry colored by this table onto the transparent render path.
func (s *Spectrum) HasAlpha() bool {
	for _, p := range s.points {
		if p.Color[3] < 1 {
			return true
		}
	}
	return false
}

// Sample returns the color at scalar value v. Values outside the table clamp
// to the first/last color; between control points each RGBA channel is
// linearly interpolated. A single-point table always returns its color.
func (s *Spectrum) Sample(v float32) (mgl32.Vec4, error) {
	switch len(s.points) {
	case 0:
		return mgl32.Vec4{}, fmt.Errorf("spectrum %q: %w", s.name, ErrEmptySpectrum)
	case 1:
		return s.points[0].Color, nil
	}

	if v <= s.points[0].Position {
		return s.points[0].Color, nil
	}
	last := len(s.points) - 1
	if v >= s.points[last].Position {
		return s.points[last].Color, nil
	}

	hi := 1
	for s.points[hi].Position < v {
		hi++
	}
	p0, p1 := s.points[hi-1], s.points[hi]
	t := (v - p0.Position) / (p1.Position - p0.Position)
	return lerpColor(p0.Color, p1.Color, t), nil
}

func lerpColor(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// ParseSpectrum reads the on-disk spectrum format: one control point per
// line, "position r g b a", '#' comments and blank lines skipped. Channel
// values are in [0,1].
func ParseSpectrum(name string, r *bufio.Scanner) (*Spectrum, error) {
	var points []ControlPoint
	line := 0
	for r.Scan() {
		line++
		text := strings.TrimSpace(r.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var p ControlPoint
		n, err := fmt.Sscanf(text, "%f %f %f %f %f",
			&p.Position, &p.Color[0], &p.Color[1], &p.Color[2], &p.Color[3])
		if err != nil || n != 5 {
			return nil, fmt.Errorf("spectrum %q line %d: expected 'position r g b a', got %q", name, line, text)
		}
		points = append(points, p)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("spectrum %q: %w", name, err)
	}
	return NewSpectrum(name, points)
}

// LoadSpectrumFile reads a spectrum table from disk; the file's base name
// (without extension) becomes the spectrum name.
func LoadSpectrumFile(filename string) (*Spectrum, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), ".spectrum")
	return ParseSpectrum(name, bufio.NewScanner(file))
}
