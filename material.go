package volux

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorSlot identifies one of the four material color channels.
type ColorSlot int

const (
	SlotDiffuse ColorSlot = iota
	SlotAmbient
	SlotSpecular
	SlotEmissive
	numColorSlots
)

func (s ColorSlot) String() string {
	switch s {
	case SlotDiffuse:
		return "diffuse"
	case SlotAmbient:
		return "ambient"
	case SlotSpecular:
		return "specular"
	case SlotEmissive:
		return "emissive"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Render-state flag bits as packed into BoundUniforms.Flags.
const (
	FlagUseLighting uint32 = 1 << iota
	FlagFlatShading
	FlagUseVertexColor
	FlagUsePointSprites
	FlagCullBackfaces
	FlagDepthCheck
	FlagDepthWrite
	FlagTextureFiltering
)

// ApplyInputs carries the per-object values needed to resolve a material for
// one draw: the sampled scalar data field (for spectrum color slots) and the
// object's camera distance (for relative point sizing). Either may be nil
// when the material does not need it.
type ApplyInputs struct {
	FieldValue     *float32
	CameraDistance *float32
}

// BoundUniforms is the fully resolved uniform set for one draw of one
// material, ready for submission to the graphics backend. It is a plain
// value; producing it has no side effects.
type BoundUniforms struct {
	Diffuse   mgl32.Vec4
	Ambient   mgl32.Vec4
	Specular  mgl32.Vec4
	Emissive  mgl32.Vec4
	Alpha     float32
	Shininess float32
	PointSize float32
	Flags     uint32

	Texture         AssetId
	VertexProgram   string
	FragmentProgram string
	GeometryProgram string
}

// MaterialState is the aggregate shading configuration for one object. It is
// created once per material definition, mutated in place by the UI/control
// thread, and read by the render thread; Apply snapshots under the internal
// mutex so one resolution sees a consistent state. Two materials with
// identical fields are still distinct entities; never compare by value.
type MaterialState struct {
	mu sync.Mutex

	name string

	useLighting      bool
	flatShading      bool
	useVertexColor   bool
	usePointSprites  bool
	cullBackfaces    bool
	depthCheck       bool
	depthWrite       bool
	textureFiltering bool

	alpha     float32
	shininess float32

	colors    [numColorSlots]ColorSource
	texture   AssetId
	pointSize PointSizePolicy

	vertexProgram   string
	fragmentProgram string
	geometryProgram string
}

// NewMaterialState returns a material with every render flag on, opaque
// white diffuse/ambient, black specular/emissive, and absolute point size 1.
func NewMaterialState(name string) *MaterialState {
	return &MaterialState{
		name:             name,
		useLighting:      true,
		flatShading:      true,
		useVertexColor:   true,
		usePointSprites:  true,
		cullBackfaces:    true,
		depthCheck:       true,
		depthWrite:       true,
		textureFiltering: true,
		alpha:            1,
		colors: [numColorSlots]ColorSource{
			SlotDiffuse:  ConstantColor(mgl32.Vec4{1, 1, 1, 1}),
			SlotAmbient:  ConstantColor(mgl32.Vec4{1, 1, 1, 1}),
			SlotSpecular: ConstantColor(mgl32.Vec4{0, 0, 0, 1}),
			SlotEmissive: ConstantColor(mgl32.Vec4{0, 0, 0, 1}),
		},
		pointSize: AbsolutePointSize(1),
	}
}

func (m *MaterialState) Name() string { return m.name }

func (m *MaterialState) SetUseLighting(v bool)  { m.setFlag(&m.useLighting, v) }
func (m *MaterialState) SetFlatShading(v bool)  { m.setFlag(&m.flatShading, v) }
func (m *MaterialState) SetVertexColor(v bool)  { m.setFlag(&m.useVertexColor, v) }
func (m *MaterialState) SetPointSprites(v bool) { m.setFlag(&m.usePointSprites, v) }
func (m *MaterialState) SetCullBackfaces(v bool) {
	m.setFlag(&m.cullBackfaces, v)
}
func (m *MaterialState) SetDepthCheck(v bool) { m.setFlag(&m.depthCheck, v) }
func (m *MaterialState) SetDepthWrite(v bool) { m.setFlag(&m.depthWrite, v) }
func (m *MaterialState) SetTextureFiltering(v bool) {
	m.setFlag(&m.textureFiltering, v)
}

func (m *MaterialState) UseLighting() bool      { return m.getFlag(&m.useLighting) }
func (m *MaterialState) FlatShading() bool      { return m.getFlag(&m.flatShading) }
func (m *MaterialState) VertexColor() bool      { return m.getFlag(&m.useVertexColor) }
func (m *MaterialState) PointSprites() bool     { return m.getFlag(&m.usePointSprites) }
func (m *MaterialState) CullBackfaces() bool    { return m.getFlag(&m.cullBackfaces) }
func (m *MaterialState) DepthCheck() bool       { return m.getFlag(&m.depthCheck) }
func (m *MaterialState) DepthWrite() bool       { return m.getFlag(&m.depthWrite) }
func (m *MaterialState) TextureFiltering() bool { return m.getFlag(&m.textureFiltering) }

func (m *MaterialState) setFlag(f *bool, v bool) {
	m.mu.Lock()
	*f = v
	m.mu.Unlock()
}

func (m *MaterialState) getFlag(f *bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *f
}

// SetAlpha clamps to [0,1] on write. The UI clamps too, but values arriving
// through scripting bypass it.
func (m *MaterialState) SetAlpha(a float32) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	m.mu.Lock()
	m.alpha = a
	m.mu.Unlock()
}

func (m *MaterialState) Alpha() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alpha
}

// SetShininess floors at 0; there is no upper bound in the model.
func (m *MaterialState) SetShininess(s float32) {
	if s < 0 {
		s = 0
	}
	m.mu.Lock()
	m.shininess = s
	m.mu.Unlock()
}

func (m *MaterialState) Shininess() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shininess
}

// SetColor makes a slot a constant color.
func (m *MaterialState) SetColor(slot ColorSlot, c mgl32.Vec4) error {
	if slot < 0 || slot >= numColorSlots {
		return fmt.Errorf("material %q: no color slot %v", m.name, slot)
	}
	m.mu.Lock()
	m.colors[slot] = ConstantColor(c)
	m.mu.Unlock()
	return nil
}

// ApplySpectrum switches a slot to spectrum-driven coloring indexed by the
// named per-object scalar field. The spectrum reference is weak; the table
// lives in the asset server.
func (m *MaterialState) ApplySpectrum(slot ColorSlot, spec *Spectrum, field string) error {
	if slot < 0 || slot >= numColorSlots {
		return fmt.Errorf("material %q: no color slot %v", m.name, slot)
	}
	if spec == nil {
		return fmt.Errorf("material %q %v slot: %w", m.name, slot, ErrEmptySpectrum)
	}
	m.mu.Lock()
	m.colors[slot] = SpectrumColor(spec, field)
	m.mu.Unlock()
	return nil
}

func (m *MaterialState) Color(slot ColorSlot) ColorSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.colors[slot]
}

// SetTexture stores a weak handle into the texture registry; an empty id
// clears it. The material never owns texture memory.
func (m *MaterialState) SetTexture(id AssetId) {
	m.mu.Lock()
	m.texture = id
	m.mu.Unlock()
}

func (m *MaterialState) Texture() AssetId {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}

// Program setters store a name only; existence is checked by Binder.Bind.
// An empty name clears the binding.
func (m *MaterialState) SetVertexProgram(name string)   { m.setProgram(&m.vertexProgram, name) }
func (m *MaterialState) SetFragmentProgram(name string) { m.setProgram(&m.fragmentProgram, name) }
func (m *MaterialState) SetGeometryProgram(name string) { m.setProgram(&m.geometryProgram, name) }

func (m *MaterialState) VertexProgram() string   { return m.getProgram(&m.vertexProgram) }
func (m *MaterialState) FragmentProgram() string { return m.getProgram(&m.fragmentProgram) }
func (m *MaterialState) GeometryProgram() string { return m.getProgram(&m.geometryProgram) }

func (m *MaterialState) setProgram(p *string, name string) {
	m.mu.Lock()
	*p = name
	m.mu.Unlock()
}

func (m *MaterialState) getProgram(p *string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *p
}

func (m *MaterialState) SetPointSizePolicy(p PointSizePolicy) {
	m.mu.Lock()
	m.pointSize = p
	m.mu.Unlock()
}

func (m *MaterialState) PointSizePolicy() PointSizePolicy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointSize
}

// IsTransparent reports whether draws with this material belong on the
// transparent render path: either the material alpha is below 1 or the
// diffuse slot samples a spectrum with non-opaque control points.
func (m *MaterialState) IsTransparent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alpha < 1 {
		return true
	}
	d := m.colors[SlotDiffuse]
	return d.Mode == ColorSpectrum && d.Spectrum != nil && d.Spectrum.HasAlpha()
}

// snapshot copies every field except the mutex so Apply resolves against a
// state frozen at the start of the call.
type materialSnapshot struct {
	alpha, shininess float32
	flags            uint32
	colors           [numColorSlots]ColorSource
	texture          AssetId
	pointSize        PointSizePolicy
	vertex, fragment string
	geometry         string
}

func (m *MaterialState) snapshot() materialSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flags uint32
	set := func(bit uint32, on bool) {
		if on {
			flags |= bit
		}
	}
	set(FlagUseLighting, m.useLighting)
	set(FlagFlatShading, m.flatShading)
	set(FlagUseVertexColor, m.useVertexColor)
	set(FlagUsePointSprites, m.usePointSprites)
	set(FlagCullBackfaces, m.cullBackfaces)
	set(FlagDepthCheck, m.depthCheck)
	set(FlagDepthWrite, m.depthWrite)
	set(FlagTextureFiltering, m.textureFiltering)

	return materialSnapshot{
		alpha:     m.alpha,
		shininess: m.shininess,
		flags:     flags,
		colors:    m.colors,
		texture:   m.texture,
		pointSize: m.pointSize,
		vertex:    m.vertexProgram,
		fragment:  m.fragmentProgram,
		geometry:  m.geometryProgram,
	}
}

// Apply resolves the material into the uniform set for one draw. The four
// color slots resolve against in.FieldValue, the point size against
// in.CameraDistance. Pure apart from the snapshot; calling it twice with
// unchanged state and inputs yields bit-identical results.
func (m *MaterialState) Apply(in ApplyInputs) (BoundUniforms, error) {
	snap := m.snapshot()

	var resolved [numColorSlots]mgl32.Vec4
	for slot, src := range snap.colors {
		c, err := src.Resolve(in.FieldValue)
		if err != nil {
			return BoundUniforms{}, fmt.Errorf("material %q %v slot: %w", m.name, ColorSlot(slot), err)
		}
		resolved[slot] = c
	}

	size, err := snap.pointSize.Resolve(in.CameraDistance)
	if err != nil {
		return BoundUniforms{}, fmt.Errorf("material %q: %w", m.name, err)
	}

	return BoundUniforms{
		Diffuse:         resolved[SlotDiffuse],
		Ambient:         resolved[SlotAmbient],
		Specular:        resolved[SlotSpecular],
		Emissive:        resolved[SlotEmissive],
		Alpha:           snap.alpha,
		Shininess:       snap.shininess,
		PointSize:       size,
		Flags:           snap.flags,
		Texture:         snap.texture,
		VertexProgram:   snap.vertex,
		FragmentProgram: snap.fragment,
		GeometryProgram: snap.geometry,
	}, nil
}
