package volux

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func readF32(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestPackDrawUniforms_Layout(t *testing.T) {
	u := DrawUniforms{
		World:               mgl32.Translate3D(1, 2, 3),
		WorldView:           mgl32.Scale3D(2, 2, 2),
		WorldViewProjection: mgl32.Ident4(),
		CamPos:              mgl32.Vec4{10, 11, 12, 1},
		LightPos:            mgl32.Vec4{20, 21, 22, 1},
		LightDir:            mgl32.Vec4{0, -1, 0, 0},
		DepthRange:          [2]float32{0.5, 128},
	}

	buf := packDrawUniforms(u)
	if len(buf) != drawUniformsSize {
		t.Fatalf("Expected %v bytes, got %v", drawUniformsSize, len(buf))
	}

	// Matrices are column-major float32 runs at offsets 0/64/128.
	for i := 0; i < 16; i++ {
		if readF32(buf, i*4) != u.World[i] {
			t.Errorf("world[%v] mismatch: %v", i, readF32(buf, i*4))
		}
		if readF32(buf, 64+i*4) != u.WorldView[i] {
			t.Errorf("world_view[%v] mismatch: %v", i, readF32(buf, 64+i*4))
		}
		if readF32(buf, 128+i*4) != u.WorldViewProjection[i] {
			t.Errorf("world_view_proj[%v] mismatch: %v", i, readF32(buf, 128+i*4))
		}
	}

	if readF32(buf, 192) != 10 || readF32(buf, 204) != 1 {
		t.Errorf("cam_pos not at offset 192")
	}
	if readF32(buf, 208) != 20 {
		t.Errorf("light_pos not at offset 208")
	}
	if readF32(buf, 224) != 0 || readF32(buf, 228) != -1 {
		t.Errorf("light_dir not at offset 224")
	}
	if readF32(buf, 240) != 0.5 || readF32(buf, 244) != 128 {
		t.Errorf("depth_range not at offset 240: near=%v far=%v", readF32(buf, 240), readF32(buf, 244))
	}
}

func TestPackMaterialUniforms_Layout(t *testing.T) {
	b := BoundUniforms{
		Diffuse:   mgl32.Vec4{0.1, 0.2, 0.3, 0.4},
		Ambient:   mgl32.Vec4{0.5, 0.6, 0.7, 0.8},
		Specular:  mgl32.Vec4{0.9, 1.0, 1.1, 1.2},
		Emissive:  mgl32.Vec4{1.3, 1.4, 1.5, 1.6},
		Alpha:     0.75,
		Shininess: 64,
		PointSize: 2.5,
		Flags:     FlagUseLighting | FlagDepthWrite,
	}

	buf := packMaterialUniforms(b)
	if len(buf) != materialUniformsSize {
		t.Fatalf("Expected %v bytes, got %v", materialUniformsSize, len(buf))
	}

	if readF32(buf, 0) != 0.1 || readF32(buf, 12) != 0.4 {
		t.Errorf("diffuse not at offset 0")
	}
	if readF32(buf, 16) != 0.5 {
		t.Errorf("ambient not at offset 16")
	}
	if readF32(buf, 32) != 0.9 {
		t.Errorf("specular not at offset 32")
	}
	if readF32(buf, 48) != 1.3 {
		t.Errorf("emissive not at offset 48")
	}
	if readF32(buf, 64) != 0.75 {
		t.Errorf("alpha not at offset 64")
	}
	if readF32(buf, 68) != 64 {
		t.Errorf("shininess not at offset 68")
	}
	if readF32(buf, 72) != 2.5 {
		t.Errorf("point_size not at offset 72")
	}
	if flags := binary.LittleEndian.Uint32(buf[76:]); flags != (FlagUseLighting | FlagDepthWrite) {
		t.Errorf("flags not at offset 76: %#x", flags)
	}
}

func TestPackUniforms_Deterministic(t *testing.T) {
	u := DrawUniforms{
		World:               mgl32.Ident4(),
		WorldView:           mgl32.Ident4(),
		WorldViewProjection: mgl32.Ident4(),
		DepthRange:          [2]float32{0, 1},
	}
	a := packDrawUniforms(u)
	b := packDrawUniforms(u)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Packing is not deterministic at byte %v", i)
		}
	}
}
