package volux

import (
	"fmt"
)

// ActiveBinding records the programs and uniforms last successfully bound
// for one material. It stays in force until the next successful Bind for the
// same material.
type ActiveBinding struct {
	Vertex   *ShaderProgram
	Fragment *ShaderProgram
	// Geometry is nil when the material binds no geometry program.
	Geometry *ShaderProgram

	Uniforms BoundUniforms
	Draw     DrawUniforms
}

// Binder validates a material's program references against the registry,
// resolves its uniforms, and uploads them to the GPU. Binding is
// all-or-nothing: on any failure the previous binding for that material is
// left active and the caller skips the object for the frame.
type Binder struct {
	assets *AssetServer
	gpu    *UniformBufferManager
	log    Logger

	active map[string]ActiveBinding
}

// NewBinder wires the binder to the registries. gpu may be nil, in which
// case binding stops after uniform resolution; the software vertex path and
// tests run that way.
func NewBinder(assets *AssetServer, gpu *UniformBufferManager, log Logger) *Binder {
	if log == nil {
		log = NewNopLogger()
	}
	return &Binder{
		assets: assets,
		gpu:    gpu,
		log:    log,
		active: make(map[string]ActiveBinding),
	}
}

// Active returns the binding currently in force for a material, if any.
func (b *Binder) Active(materialName string) (ActiveBinding, bool) {
	ab, ok := b.active[materialName]
	return ab, ok
}

// Bind resolves and activates a material for one draw. Order matters:
// program lookup and depth-range validation happen before any state is
// touched, so a failed bind cannot leave a half-applied material.
func (b *Binder) Bind(mat *MaterialState, in ApplyInputs, draw DrawUniforms) (ActiveBinding, error) {
	uniforms, err := mat.Apply(in)
	if err != nil {
		b.log.Warnf("bind %q: %v", mat.Name(), err)
		return ActiveBinding{}, err
	}

	if err := ValidateDepthRange(draw.DepthRange[0], draw.DepthRange[1]); err != nil {
		err = fmt.Errorf("bind %q: %w", mat.Name(), err)
		b.log.Warnf("%v", err)
		return ActiveBinding{}, err
	}

	lookup := func(name string) (*ShaderProgram, error) {
		if name == "" {
			return nil, nil
		}
		p, ok := b.assets.Program(name)
		if !ok {
			return nil, fmt.Errorf("bind %q: program %q: %w", mat.Name(), name, ErrProgramNotFound)
		}
		return p, nil
	}

	vertex, err := lookup(uniforms.VertexProgram)
	if err != nil {
		b.log.Warnf("%v", err)
		return ActiveBinding{}, err
	}
	fragment, err := lookup(uniforms.FragmentProgram)
	if err != nil {
		b.log.Warnf("%v", err)
		return ActiveBinding{}, err
	}
	geometry, err := lookup(uniforms.GeometryProgram)
	if err != nil {
		b.log.Warnf("%v", err)
		return ActiveBinding{}, err
	}

	if b.gpu != nil {
		b.gpu.UploadDraw(draw)
		b.gpu.UploadMaterial(uniforms)
	}

	binding := ActiveBinding{
		Vertex:   vertex,
		Fragment: fragment,
		Geometry: geometry,
		Uniforms: uniforms,
		Draw:     draw,
	}
	b.active[mat.Name()] = binding
	b.log.Debugf("bound %q (vertex=%q fragment=%q geometry=%q)",
		mat.Name(), uniforms.VertexProgram, uniforms.FragmentProgram, uniforms.GeometryProgram)
	return binding, nil
}

// Unbind drops the active binding for a material, typically when the owning
// object is removed.
func (b *Binder) Unbind(materialName string) {
	delete(b.active, materialName)
}
