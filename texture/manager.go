package texture

import (
	"fmt"
	"image"
	"image/draw"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Manager resolves the sampler names a preset's shaders reference to GL
// texture objects, backed by a Catalog of decoded image data
// (spec.md §4.7). Manager itself owns no GL state beyond the texture
// names it has uploaded; decoding happens off the render thread via the
// Catalog's preload path.
type Manager struct {
	catalog        *Catalog
	decoder        Decoder
	currentPresetDir string

	mu       sync.Mutex
	uploaded map[string]uint32 // base name -> GL texture object

	// builtins holds the GL texture objects a preset registers for the
	// "main"/"blur1-3" special names (spec.md §4.7); the noise_*/
	// noisevol_* builtins are instead generated lazily by
	// ensureBuiltinNoise since nothing external ever supplies them.
	builtins map[string]uint32

	placeholder uint32

	rng *rand.Rand
}

// NewManager constructs a Manager over the given search paths, using
// DefaultDecoder unless overridden.
func NewManager(searchPaths []string) *Manager {
	return &Manager{
		catalog:  NewCatalog(searchPaths),
		decoder:  DefaultDecoder{},
		uploaded: map[string]uint32{},
		builtins: map[string]uint32{},
		rng:      rand.New(rand.NewSource(1)),
	}
}

// SetBuiltinTexture registers the GL texture object backing one of the
// "main"/"blur1"/"blur2"/"blur3" special sampler names (spec.md §4.7).
// Presets call this once per frame since "main" and the blur levels are
// re-seated every frame by the ping-pong/blur chain.
func (m *Manager) SetBuiltinTexture(name string, tex uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builtins[name] = tex
}

// SetDecoder overrides the default JPEG/PNG/BMP decoder.
func (m *Manager) SetDecoder(d Decoder) { m.decoder = d }

// SetCurrentPresetPath records the directory of the preset currently
// loaded, used to resolve texture paths given relative to the preset
// file itself rather than the configured search paths.
func (m *Manager) SetCurrentPresetPath(presetPath string) {
	m.currentPresetDir = filepath.Dir(presetPath)
}

// GetTexture resolves fullName (with its wrap/filter prefix) to a GL
// texture object, decoding and uploading it on first use. The "main" and
// "blur1-3" special names (spec.md §4.7) are resolved against the preset's
// own registered attachments and the "noise_*"/"noisevol_*" names are
// generated by ensureBuiltinNoise, neither ever touching disk.
func (m *Manager) GetTexture(fullName string) (uint32, WrapMode, FilterMode, error) {
	base, wrap, filter := ParseSamplerName(fullName)

	if IsBuiltinName(base) {
		if strings.HasPrefix(base, "noise") {
			return m.ensureBuiltinNoise(base), wrap, filter, nil
		}
		m.mu.Lock()
		tex, ok := m.builtins[base]
		m.mu.Unlock()
		if !ok {
			return 0, wrap, filter, fmt.Errorf("texture: builtin sampler %q has not been registered by the preset", base)
		}
		return tex, wrap, filter, nil
	}

	m.mu.Lock()
	if tex, ok := m.uploaded[base]; ok {
		m.mu.Unlock()
		m.catalog.Get(base)
		return tex, wrap, filter, nil
	}
	m.mu.Unlock()

	img, ok := m.catalog.TakePreloaded(base)
	if !ok {
		data, path, err := m.readTextureFile(base)
		if err != nil {
			return 0, wrap, filter, err
		}
		img, err = m.decoder.Decode(data, filepath.Ext(path))
		if err != nil {
			return 0, wrap, filter, err
		}
	}

	tex := uploadTexture(img)
	m.mu.Lock()
	m.uploaded[base] = tex
	m.mu.Unlock()
	return tex, wrap, filter, nil
}

// GetRandomTexture implements the "randNN_prefix" sampler convention: it
// deterministically (per-manager) selects one file whose basename starts
// with prefix, falling back to any scanned file if nothing matches.
func (m *Manager) GetRandomTexture(randomName string) (uint32, WrapMode, FilterMode, error) {
	prefix := randomPrefix(randomName)
	m.catalog.scanSearchPaths()
	candidates := m.catalog.Names(prefix)
	if len(candidates) == 0 {
		candidates = m.catalog.Names("")
	}
	if len(candidates) == 0 {
		return m.ensurePlaceholder(), WrapRepeat, FilterLinear, nil
	}
	chosen := candidates[m.rng.Intn(len(candidates))]
	return m.GetTexture(chosen)
}

// ensurePlaceholder lazily allocates the 1x1 black texture GetRandomTexture
// falls back to when the catalog has no candidates at all (spec.md §4.7).
func (m *Manager) ensurePlaceholder() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeholder != 0 {
		return m.placeholder
	}
	black := [4]byte{0, 0, 0, 255}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(black[:]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	m.placeholder = tex
	return tex
}

// ensureBuiltinNoise lazily generates and caches one of the procedural
// noise_lq/noise_mq/noise_hq/noisevol_lq/noisevol_hq volumes. No concrete
// noise-generation algorithm survives in the filtered original sources, so
// this fills a fixed-size texture with a deterministic pseudo-random byte
// fill rather than modeling any particular noise function.
func (m *Manager) ensureBuiltinNoise(name string) uint32 {
	m.mu.Lock()
	if tex, ok := m.uploaded[name]; ok {
		m.mu.Unlock()
		return tex
	}
	m.mu.Unlock()

	size := noiseTextureSize(name)
	pix := make([]byte, size*size*4)
	src := rand.New(rand.NewSource(1))
	for i := range pix {
		pix[i] = byte(src.Intn(256))
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	m.mu.Lock()
	m.uploaded[name] = tex
	m.mu.Unlock()
	return tex
}

func noiseTextureSize(name string) int {
	switch name {
	case "noise_lq", "noisevol_lq":
		return 32
	case "noise_mq":
		return 64
	default:
		return 256
	}
}

// randNNPrefixRe matches the "rand07_starfield" convention: two digits
// following "rand", then an underscore, then the prefix to filter on.
var randNNPrefixRe = regexp.MustCompile(`^rand\d{2}_(.*)$`)

func randomPrefix(name string) string {
	if m := randNNPrefixRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// PurgeTextures runs the Catalog's once-per-preset-load purge. The purge
// evicts Catalog entries only: GetTexture never registers its uploads with
// the Catalog, so GL textures it has uploaded are not released.
func (m *Manager) PurgeTextures() { m.catalog.Purge() }

// PurgeAfter reports the backing Catalog's purge threshold, the number of
// preset loads a Catalog entry may go unused before Purge evicts it.
func (m *Manager) PurgeAfter() int { return m.catalog.PurgeAfter }

// SetPurgeAfter overrides the default purge threshold.
func (m *Manager) SetPurgeAfter(n int) { m.catalog.PurgeAfter = n }

// PreloadTexturesForSamplers is called from the CPU worker thread: it
// scans the search paths independently of the render thread and decodes
// every sampler name not already cached, staging the result for GetTexture
// to pick up without touching the GPU from a non-render thread.
func (m *Manager) PreloadTexturesForSamplers(samplerNames []string) {
	m.catalog.scanSearchPaths()
	for _, full := range samplerNames {
		base, _, _ := ParseSamplerName(full)
		if IsBuiltinName(base) || randNNPrefixRe.MatchString(base) {
			continue
		}
		m.mu.Lock()
		_, already := m.uploaded[base]
		m.mu.Unlock()
		if already {
			continue
		}
		data, path, err := m.readTextureFile(base)
		if err != nil {
			continue
		}
		img, err := m.decoder.Decode(data, filepath.Ext(path))
		if err != nil {
			continue
		}
		m.catalog.PreloadImage(base, img)
	}
}

func (m *Manager) readTextureFile(base string) (data []byte, path string, err error) {
	for _, ext := range []string{"", ".png", ".jpg", ".jpeg", ".bmp", ".dib", ".dds", ".tga"} {
		for _, dir := range []string{m.currentPresetDir, ""} {
			candidate := base + ext
			if dir != "" {
				candidate = filepath.Join(dir, candidate)
			}
			if b, err := os.ReadFile(candidate); err == nil {
				return b, candidate, nil
			}
		}
	}
	for _, f := range m.catalog.Names("") {
		if strings.EqualFold(strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)), base) {
			b, err := os.ReadFile(f)
			if err != nil {
				return nil, f, err
			}
			return b, f, nil
		}
	}
	return nil, "", fmt.Errorf("texture: could not find a file for %q", base)
}

// uploadTexture converts img to tightly packed RGBA and hands it to the
// driver. Called from GetTexture, which only ever runs on the render
// thread, matching the engine's rule that GL state belongs to that thread
// alone (spec.md §5).
func uploadTexture(img image.Image) uint32 {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
