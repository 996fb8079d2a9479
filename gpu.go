package volux

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	drawUniformsSize     = 256
	materialUniformsSize = 80
)

// packDrawUniforms lays DrawUniforms out exactly as the WGSL declares it:
//
//	struct DrawUniforms {
//	  world: mat4x4<f32>,            // offset 0
//	  world_view: mat4x4<f32>,       // offset 64
//	  world_view_proj: mat4x4<f32>,  // offset 128
//	  cam_pos: vec4<f32>,            // offset 192
//	  light_pos: vec4<f32>,          // offset 208
//	  light_dir: vec4<f32>,          // offset 224
//	  depth_range: vec2<f32>,        // offset 240
//	}                                // 256 bytes (padded)
func packDrawUniforms(u DrawUniforms) []byte {
	buf := make([]byte, drawUniformsSize)

	writeMat := func(offset int, mat [16]float32) {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	writeVec4 := func(offset int, v [4]float32) {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
		}
	}

	writeMat(0, u.World)
	writeMat(64, u.WorldView)
	writeMat(128, u.WorldViewProjection)
	writeVec4(192, u.CamPos)
	writeVec4(208, u.LightPos)
	writeVec4(224, u.LightDir)
	binary.LittleEndian.PutUint32(buf[240:], math.Float32bits(u.DepthRange[0]))
	binary.LittleEndian.PutUint32(buf[244:], math.Float32bits(u.DepthRange[1]))

	return buf
}

// packMaterialUniforms lays BoundUniforms out as:
//
//	struct MaterialUniforms {
//	  diffuse: vec4<f32>,   // offset 0
//	  ambient: vec4<f32>,   // offset 16
//	  specular: vec4<f32>,  // offset 32
//	  emissive: vec4<f32>,  // offset 48
//	  alpha: f32,           // offset 64
//	  shininess: f32,       // offset 68
//	  point_size: f32,      // offset 72
//	  flags: u32,           // offset 76
//	}                       // 80 bytes
func packMaterialUniforms(b BoundUniforms) []byte {
	buf := make([]byte, materialUniformsSize)

	writeVec4 := func(offset int, v [4]float32) {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
		}
	}

	writeVec4(0, b.Diffuse)
	writeVec4(16, b.Ambient)
	writeVec4(32, b.Specular)
	writeVec4(48, b.Emissive)
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(b.Alpha))
	binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(b.Shininess))
	binary.LittleEndian.PutUint32(buf[72:], math.Float32bits(b.PointSize))
	binary.LittleEndian.PutUint32(buf[76:], b.Flags)

	return buf
}

// UniformBufferManager owns the two uniform buffers a bound material needs
// per draw. Buffers are created lazily and reused across frames.
type UniformBufferManager struct {
	Device *wgpu.Device

	DrawBuf     *wgpu.Buffer
	MaterialBuf *wgpu.Buffer
}

func NewUniformBufferManager(device *wgpu.Device) *UniformBufferManager {
	return &UniformBufferManager{Device: device}
}

func (m *UniformBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             neededSize,
			Usage:            usage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			panic(err)
		}
		*buf = newBuf
	}
	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(*buf, 0, data)
	}
}

func (m *UniformBufferManager) UploadDraw(u DrawUniforms) {
	m.ensureBuffer("DrawUniforms", &m.DrawBuf, packDrawUniforms(u), wgpu.BufferUsageUniform)
}

func (m *UniformBufferManager) UploadMaterial(b BoundUniforms) {
	m.ensureBuffer("MaterialUniforms", &m.MaterialBuf, packMaterialUniforms(b), wgpu.BufferUsageUniform)
}

// CreateBindGroup pairs the two uniform buffers with group 0 of a material
// pipeline. Both buffers must have been uploaded at least once.
func (m *UniformBufferManager) CreateBindGroup(pipeline *wgpu.RenderPipeline) *wgpu.BindGroup {
	desc := &wgpu.BindGroupDescriptor{
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.DrawBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.MaterialBuf, Size: wgpu.WholeSize},
		},
	}
	bindGroup, err := m.Device.CreateBindGroup(desc)
	if err != nil {
		panic(err)
	}
	return bindGroup
}

func (m *UniformBufferManager) Release() {
	if m.DrawBuf != nil {
		m.DrawBuf.Release()
		m.DrawBuf = nil
	}
	if m.MaterialBuf != nil {
		m.MaterialBuf.Release()
		m.MaterialBuf = nil
	}
}
