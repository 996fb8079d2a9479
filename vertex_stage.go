package volux

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawUniforms is the per-draw parameter block consumed by the depth-encoding
// vertex stage. The names and shapes are the wire contract with the compiled
// shader programs; the WGSL in shaders/ declares the identical layout.
type DrawUniforms struct {
	World               mgl32.Mat4
	WorldView           mgl32.Mat4
	WorldViewProjection mgl32.Mat4

	CamPos   mgl32.Vec4
	LightPos mgl32.Vec4
	LightDir mgl32.Vec4

	// DepthRange is (near, far) for depth normalization.
	DepthRange [2]float32
}

// VertexInput matches the vertex buffer layout: position, texture
// coordinate, vertex color, all float4.
type VertexInput struct {
	Position  mgl32.Vec4
	TexCoord0 mgl32.Vec4
	Color0    mgl32.Vec4
}

// VertexOutput carries the clip-space position for rasterization plus the
// auxiliary interpolants the fragment stage reads to reconstruct world
// position and normalized depth without access to the depth buffer.
type VertexOutput struct {
	// Position is the true clip-space position, pre perspective divide.
	Position mgl32.Vec4

	LightPos mgl32.Vec4
	LightDir mgl32.Vec4
	CamPos   mgl32.Vec4
	WorldPos mgl32.Vec4

	// DepthPos equals Position except its w component holds the normalized
	// depth (clip.z - near) / (far - near). The scalar rides an existing
	// float4 interpolant instead of taking a dedicated varying slot.
	DepthPos mgl32.Vec4

	TexCoord0 mgl32.Vec4
	Color0    mgl32.Vec4
}

// ValidateDepthRange rejects far <= near, which would produce meaningless or
// infinite normalized depth. Checked once per draw at bind time; the
// per-vertex transform assumes a valid range.
func ValidateDepthRange(near, far float32) error {
	if far <= near {
		return fmt.Errorf("near=%v far=%v: %w", near, far, ErrInvalidDepthRange)
	}
	return nil
}

// TransformVertex is the CPU reference for the depth-encoding vertex stage,
// executed per vertex per draw. The clip transform is computed once and
// reused for the depth channel. Light and camera vectors pass through as
// interpolants so the fragment stage reads them without a separate uniform
// lookup path.
func TransformVertex(in VertexInput, u DrawUniforms) VertexOutput {
	clip := u.WorldViewProjection.Mul4x1(in.Position)

	near, far := u.DepthRange[0], u.DepthRange[1]
	depthPos := clip
	depthPos[3] = (clip.Z() - near) / (far - near)

	return VertexOutput{
		Position:  clip,
		LightPos:  u.LightPos,
		LightDir:  u.LightDir,
		CamPos:    u.CamPos,
		WorldPos:  u.World.Mul4x1(in.Position),
		DepthPos:  depthPos,
		TexCoord0: in.TexCoord0,
		Color0:    in.Color0,
	}
}

// TransformVertices runs the stage over a batch, the shape the software
// fallback path uses when no GPU device is attached.
func TransformVertices(in []VertexInput, u DrawUniforms, out []VertexOutput) []VertexOutput {
	if cap(out) < len(in) {
		out = make([]VertexOutput, len(in))
	}
	out = out[:len(in)]
	for i := range in {
		out[i] = TransformVertex(in[i], u)
	}
	return out
}
