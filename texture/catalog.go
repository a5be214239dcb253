package texture

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// usageStats tracks how long ago a cached texture was last resolved via
// GetTexture/GetRandomTexture, in units of "preset loads since last use".
type usageStats struct {
	age       int
	sizeBytes int
}

// scannedFile is one entry of the independent directory scan
// PreloadTexturesForSamplers performs, keyed by a lowercased basename so
// lookups are case-insensitive the way the original manager's search is.
type scannedFile struct {
	filePath          string
	lowerCaseBaseName string
}

// preloadedImage is image data decoded by the CPU worker ahead of the
// render thread needing it, handed off once PreloadTexturesForSamplers'
// caller uploads it to the GPU.
type preloadedImage struct {
	img image.Image
}

// Catalog is the cache of decoded textures and the bookkeeping needed to
// purge stale ones and to preload files the CPU worker found on an
// independent scan (spec.md §4.7).
type Catalog struct {
	mu sync.Mutex

	searchPaths []string
	cached      map[string]Descriptor
	stats       map[string]*usageStats

	scanned       []scannedFile
	scannedDone   bool

	preloadMu   sync.Mutex
	preloaded   map[string]*preloadedImage

	// PurgeAfter is the number of preset loads a texture may go unused
	// before it is evicted. NewCatalog sets it to 2, and Purge also uses 2
	// when it is zero or negative.
	PurgeAfter int
}

// NewCatalog constructs a Catalog that looks for texture files under the
// given search paths, in order.
func NewCatalog(searchPaths []string) *Catalog {
	return &Catalog{
		searchPaths: searchPaths,
		cached:      map[string]Descriptor{},
		stats:       map[string]*usageStats{},
		preloaded:   map[string]*preloadedImage{},
		PurgeAfter:  2,
	}
}

// Get resolves name to cached texture data, resetting its age to 0.
// ok is false if name has never been loaded.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.cached[name]
	if ok {
		c.stats[name].age = 0
	}
	return d, ok
}

// Put registers freshly decoded texture data under name.
func (c *Catalog) Put(name string, d Descriptor, sizeBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached[name] = d
	c.stats[name] = &usageStats{sizeBytes: sizeBytes}
}

// Names returns the file path of every file currently scanned on disk
// whose basename (extension stripped) starts with basePrefix,
// case-insensitively; used by GetRandomTexture's "randNN_prefix" selection.
func (c *Catalog) Names(basePrefix string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.ToLower(basePrefix)
	var names []string
	for _, f := range c.scanned {
		if prefix == "" || strings.HasPrefix(f.lowerCaseBaseName, prefix) {
			names = append(names, f.filePath)
		}
	}
	return names
}

// Purge increments every cached texture's age and evicts those that have
// gone unused for more than PurgeAfter preset loads, then marks the scan
// stale so the next PreloadTexturesForSamplers call rescans the search
// paths. Called exactly once per preset load (spec.md §4.7).
func (c *Catalog) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	threshold := c.PurgeAfter
	if threshold <= 0 {
		threshold = 2
	}
	for name, s := range c.stats {
		s.age++
		if s.age > threshold {
			delete(c.cached, name)
			delete(c.stats, name)
		}
	}
	c.scannedDone = false
}

// scanSearchPaths walks the search paths looking for recognised files,
// independently of any texture actually being requested, so that preload
// and GetRandomTexture both see the same view of what's on disk. It is
// safe to call from the CPU worker thread: it only touches c.searchPaths
// (immutable after construction) until the final lock-guarded publish.
func (c *Catalog) scanSearchPaths() {
	c.mu.Lock()
	if c.scannedDone {
		c.mu.Unlock()
		return
	}
	roots := append([]string(nil), c.searchPaths...)
	c.mu.Unlock()

	var found []scannedFile
	for _, root := range roots {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			if !IsRecognizedExtension(filepath.Ext(path)) {
				return nil
			}
			found = append(found, scannedFile{
				filePath:          path,
				lowerCaseBaseName: strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
			})
			return nil
		})
	}

	c.mu.Lock()
	c.scanned = found
	c.scannedDone = true
	c.mu.Unlock()
}

// PreloadImage stashes data the CPU worker decoded ahead of time, keyed
// by sampler name, for the render thread to pick up and upload via
// TakePreloaded.
func (c *Catalog) PreloadImage(name string, img image.Image) {
	c.preloadMu.Lock()
	defer c.preloadMu.Unlock()
	c.preloaded[name] = &preloadedImage{img: img}
}

// TakePreloaded removes and returns image data staged by PreloadImage, if
// any.
func (c *Catalog) TakePreloaded(name string) (image.Image, bool) {
	c.preloadMu.Lock()
	defer c.preloadMu.Unlock()
	p, ok := c.preloaded[name]
	if !ok {
		return nil, false
	}
	delete(c.preloaded, name)
	return p.img, true
}
