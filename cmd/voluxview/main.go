package main

import (
	"flag"
	"runtime"

	"github.com/volux3d/volux"
	"github.com/volux3d/volux/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := volux.NewDefaultLogger("voluxview", *debug)

	window := volux.CreateWindowState(1280, 720, "Volux Viewer")
	defer window.Window().Destroy()
	defer glfw.Terminate()

	gpu := volux.CreateGpuState(window)
	uniforms := volux.NewUniformBufferManager(gpu.Device())
	defer uniforms.Release()

	assets := volux.NewAssetServer(log)
	assets.RegisterProgram("depth_encode_vs", volux.StageVertex, shaders.DepthEncodeWGSL)
	assets.RegisterProgram("depth_encode_fs", volux.StageFragment, shaders.DepthEncodeWGSL)

	// Blue-to-red ramp over a unit field, the usual scalar-data spectrum.
	spectrum, err := volux.NewSpectrum("heat", []volux.ControlPoint{
		{Position: 0, Color: mgl32.Vec4{0, 0, 1, 1}},
		{Position: 0.5, Color: mgl32.Vec4{0, 1, 0, 1}},
		{Position: 1, Color: mgl32.Vec4{1, 0, 0, 1}},
	})
	if err != nil {
		panic(err)
	}
	assets.AddSpectrum(spectrum)

	mat, err := assets.CreateMaterial("demo")
	if err != nil {
		panic(err)
	}
	mat.SetVertexProgram("depth_encode_vs")
	mat.SetFragmentProgram("depth_encode_fs")
	mat.SetPointSprites(false)
	if err := mat.ApplySpectrum(volux.SlotDiffuse, spectrum, "demo_field"); err != nil {
		panic(err)
	}

	binder := volux.NewBinder(assets, uniforms, log)

	// A single triangle in front of the camera; the field value sweeps the
	// spectrum over time.
	vertices := []volux.VertexInput{
		{Position: mgl32.Vec4{-1, -1, 0, 1}, Color0: mgl32.Vec4{1, 1, 1, 1}},
		{Position: mgl32.Vec4{1, -1, 0, 1}, Color0: mgl32.Vec4{1, 1, 1, 1}},
		{Position: mgl32.Vec4{0, 1, 0, 1}, Color0: mgl32.Vec4{1, 1, 1, 1}},
	}
	vertexBuf := volux.CreateVertexBuffer(vertices, gpu.Device())
	defer vertexBuf.Release()

	const near, far = 0.1, 100.0
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1280.0/720.0, near, far)
	eye := mgl32.Vec3{0, 0, 5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	win := window.Window()
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	var pipeline *wgpu.RenderPipeline

	for !win.ShouldClose() {
		glfw.PollEvents()

		t := glfw.GetTime()
		world := mgl32.HomogRotate3DY(float32(t))
		worldView := view.Mul4(world)

		fieldValue := float32(t - float64(int(t)))
		distance := eye.Len()

		draw := volux.DrawUniforms{
			World:               world,
			WorldView:           worldView,
			WorldViewProjection: proj.Mul4(worldView),
			CamPos:              eye.Vec4(1),
			LightPos:            mgl32.Vec4{5, 5, 5, 1},
			LightDir:            mgl32.Vec4{-1, -1, -1, 0}.Normalize(),
			DepthRange:          [2]float32{near, far},
		}

		binding, err := binder.Bind(mat, volux.ApplyInputs{
			FieldValue:     &fieldValue,
			CameraDistance: &distance,
		}, draw)
		if err != nil {
			log.Warnf("skipping draw: %v", err)
			continue
		}

		if pipeline == nil {
			pipeline = volux.CreateMaterialPipeline("demo", binding, gpu)
		}

		renderFrame(gpu, uniforms, pipeline, vertexBuf, uint32(len(vertices)), log)
	}
}

func renderFrame(gpu *volux.GpuState, uniforms *volux.UniformBufferManager, pipeline *wgpu.RenderPipeline, vertexBuf *wgpu.Buffer, vertexCount uint32, log volux.Logger) {
	nextTexture, err := gpu.Surface().GetCurrentTexture()
	if err != nil {
		log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := gpu.Device().CreateCommandEncoder(nil)
	if err != nil {
		log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	bindGroup := uniforms.CreateBindGroup(pipeline)
	defer bindGroup.Release()

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rPass.SetPipeline(pipeline)
	rPass.SetBindGroup(0, bindGroup, nil)
	rPass.SetVertexBuffer(0, vertexBuf, 0, vertexBuf.GetSize())
	rPass.Draw(vertexCount, 1, 0, 0)
	if err := rPass.End(); err != nil {
		log.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		log.Errorf("encoder Finish failed: %v", err)
		return
	}
	gpu.Queue().Submit(cmd)
	gpu.Surface().Present()
}
