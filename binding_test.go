package volux

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDrawUniforms() DrawUniforms {
	return DrawUniforms{
		World:               mgl32.Ident4(),
		WorldView:           mgl32.Ident4(),
		WorldViewProjection: mgl32.Ident4(),
		DepthRange:          [2]float32{0.1, 100},
	}
}

func newTestBinder(t *testing.T) (*Binder, *AssetServer) {
	t.Helper()
	assets := NewAssetServer(NewNopLogger())
	assets.RegisterProgram("vp", StageVertex, "// vertex listing")
	assets.RegisterProgram("fp", StageFragment, "// fragment listing")
	assets.RegisterProgram("gp", StageGeometry, "// geometry listing")
	return NewBinder(assets, nil, NewNopLogger()), assets
}

func TestBinder_BindSuccess(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")
	mat.SetFragmentProgram("fp")

	binding, err := binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	require.NoError(t, err)

	require.NotNil(t, binding.Vertex)
	assert.Equal(t, "vp", binding.Vertex.Name)
	require.NotNil(t, binding.Fragment)
	assert.Equal(t, "fp", binding.Fragment.Name)
	assert.Nil(t, binding.Geometry, "no geometry program bound")

	active, ok := binder.Active("m")
	require.True(t, ok)
	assert.Equal(t, binding, active)
}

func TestBinder_GeometryProgramOptional(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")
	mat.SetFragmentProgram("fp")
	mat.SetGeometryProgram("gp")

	binding, err := binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	require.NoError(t, err)
	require.NotNil(t, binding.Geometry)
	assert.Equal(t, "gp", binding.Geometry.Name)
}

func TestBinder_ProgramNotFoundLeavesPreviousBinding(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")
	mat.SetFragmentProgram("fp")

	first, err := binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	require.NoError(t, err)

	// Point the material at a program that was never registered.
	mat.SetFragmentProgram("missing_fp")
	_, err = binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	assert.ErrorIs(t, err, ErrProgramNotFound)

	active, ok := binder.Active("m")
	require.True(t, ok, "previous binding must survive the failed bind")
	assert.Equal(t, first, active)
	assert.Equal(t, "fp", active.Fragment.Name)
}

func TestBinder_NoBindingForUnknownMaterial(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("missing")

	_, err := binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	assert.ErrorIs(t, err, ErrProgramNotFound)

	_, ok := binder.Active("m")
	assert.False(t, ok, "failed first bind must not register an active binding")
}

func TestBinder_InvalidDepthRangeRejected(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")

	draw := testDrawUniforms()
	draw.DepthRange = [2]float32{10, 10}

	_, err := binder.Bind(mat, ApplyInputs{}, draw)
	assert.ErrorIs(t, err, ErrInvalidDepthRange)

	_, ok := binder.Active("m")
	assert.False(t, ok)
}

func TestBinder_ResolutionFailureAbortsBind(t *testing.T) {
	binder, _ := newTestBinder(t)

	spec, err := NewSpectrum("s", []ControlPoint{
		{Position: 0, Color: mgl32.Vec4{1, 0, 0, 1}},
		{Position: 1, Color: mgl32.Vec4{0, 0, 1, 1}},
	})
	require.NoError(t, err)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")
	require.NoError(t, mat.ApplySpectrum(SlotDiffuse, spec, "density"))

	// No field value supplied: resolution fails before any lookup.
	_, err = binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	assert.ErrorIs(t, err, ErrMissingFieldValue)
}

func TestBinder_Unbind(t *testing.T) {
	binder, _ := newTestBinder(t)

	mat := NewMaterialState("m")
	mat.SetVertexProgram("vp")

	_, err := binder.Bind(mat, ApplyInputs{}, testDrawUniforms())
	require.NoError(t, err)

	binder.Unbind("m")
	_, ok := binder.Active("m")
	assert.False(t, ok)
}

func TestBinder_UniformsCarrySpectrumColor(t *testing.T) {
	binder, assets := newTestBinder(t)

	spec, err := NewSpectrum("redblue", []ControlPoint{
		{Position: 0, Color: mgl32.Vec4{1, 0, 0, 1}},
		{Position: 1, Color: mgl32.Vec4{0, 0, 1, 1}},
	})
	require.NoError(t, err)
	assets.AddSpectrum(spec)

	mat, err := assets.CreateMaterial("tinted")
	require.NoError(t, err)
	mat.SetVertexProgram("vp")
	require.NoError(t, mat.ApplySpectrum(SlotDiffuse, spec, "density"))

	field := float32(0.5)
	binding, err := binder.Bind(mat, ApplyInputs{FieldValue: &field}, testDrawUniforms())
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{0.5, 0, 0.5, 1}, binding.Uniforms.Diffuse)
}
