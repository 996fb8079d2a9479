package volux

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Uint     TextureFormat = 0x00000003
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
	TextureFormatRGBA8Uint  TextureFormat = 0x00000015
)

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
	format  TextureFormat
}

func (t TextureAsset) Size() (uint32, uint32) { return t.width, t.height }
func (t TextureAsset) Format() TextureFormat  { return t.format }
func (t TextureAsset) Texels() []uint8        { return t.texels }

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageGeometry
)

// ShaderProgram is a named program resource in the registry. Materials refer
// to programs by name only; the registry owns the listing.
type ShaderProgram struct {
	Name    string
	Stage   ShaderStage
	Listing string
}

// AssetServer holds the shared resource registries: textures keyed by
// generated AssetId, shader programs and spectra and materials keyed by
// name. Materials hold weak references into the other registries; removing a
// material never destroys a texture, program, or spectrum.
type AssetServer struct {
	log       Logger
	textures  map[AssetId]TextureAsset
	programs  map[string]*ShaderProgram
	spectra   map[string]*Spectrum
	materials map[string]*MaterialState
}

func NewAssetServer(log Logger) *AssetServer {
	if log == nil {
		log = NewNopLogger()
	}
	return &AssetServer{
		log:       log,
		textures:  make(map[AssetId]TextureAsset),
		programs:  make(map[string]*ShaderProgram),
		spectra:   make(map[string]*Spectrum),
		materials: make(map[string]*MaterialState),
	}
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()
	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
		format:  format,
	}
	return id
}

// LoadTexture decodes a PNG from disk and registers it as RGBA8.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return "", fmt.Errorf("texture %s: %w", filename, err)
	}

	bounds := img.Bounds()
	rgbaImg, ok := img.(*image.RGBA)
	if !ok {
		rgbaImg = image.NewRGBA(bounds)
		draw.Draw(rgbaImg, bounds, img, bounds.Min, draw.Src)
	}

	id := server.CreateTexture(
		rgbaImg.Pix,
		uint32(bounds.Dx()),
		uint32(bounds.Dy()),
		TextureFormatRGBA8Unorm,
	)
	server.log.Debugf("loaded texture %s (%dx%d) as %s", filename, bounds.Dx(), bounds.Dy(), id)
	return id, nil
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	t, ok := server.textures[id]
	return t, ok
}

// RegisterProgram makes a program listing available under a name. Existing
// entries are replaced; materials referring to the name pick up the new
// listing at their next bind.
func (server *AssetServer) RegisterProgram(name string, stage ShaderStage, listing string) *ShaderProgram {
	p := &ShaderProgram{Name: name, Stage: stage, Listing: listing}
	server.programs[name] = p
	return p
}

// LoadProgram reads a program listing from disk and registers it.
func (server *AssetServer) LoadProgram(name string, stage ShaderStage, filename string) (*ShaderProgram, error) {
	listing, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return server.RegisterProgram(name, stage, string(listing)), nil
}

func (server *AssetServer) Program(name string) (*ShaderProgram, bool) {
	p, ok := server.programs[name]
	return p, ok
}

// AddSpectrum registers a color table; duplicate names replace, matching the
// program registry.
func (server *AssetServer) AddSpectrum(spec *Spectrum) {
	server.spectra[spec.Name()] = spec
}

func (server *AssetServer) LoadSpectrum(filename string) (*Spectrum, error) {
	spec, err := LoadSpectrumFile(filename)
	if err != nil {
		return nil, err
	}
	server.AddSpectrum(spec)
	return spec, nil
}

func (server *AssetServer) Spectrum(name string) (*Spectrum, bool) {
	s, ok := server.spectra[name]
	return s, ok
}

func (server *AssetServer) ListSpectrumNames() []string {
	names := make([]string, 0, len(server.spectra))
	for name := range server.spectra {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateMaterial registers a new material under a unique name.
func (server *AssetServer) CreateMaterial(name string) (*MaterialState, error) {
	if _, exists := server.materials[name]; exists {
		return nil, fmt.Errorf("material %q already defined", name)
	}
	mat := NewMaterialState(name)
	server.materials[name] = mat
	return mat, nil
}

func (server *AssetServer) Material(name string) (*MaterialState, bool) {
	m, ok := server.materials[name]
	return m, ok
}

func (server *AssetServer) ListMaterialNames() []string {
	names := make([]string, 0, len(server.materials))
	for name := range server.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveMaterial drops the registry entry when the owning object is removed.
// Textures and programs the material referenced stay registered.
func (server *AssetServer) RemoveMaterial(name string) {
	delete(server.materials, name)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
