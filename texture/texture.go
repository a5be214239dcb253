// Package texture implements the name-to-texture resolution, prefix
// parsing and preload/purge lifecycle described in spec.md §4.7, grounded
// on original_source/.../Renderer/TextureManager.hpp.
package texture

import (
	"image"
	"strings"
)

// builtinNames are sampler names the manager resolves internally rather
// than through the search-path/preload machinery: the main ping-pong
// texture, the three blur levels, and the procedural noise volumes.
var builtinNames = map[string]bool{
	"main": true, "blur1": true, "blur2": true, "blur3": true,
	"noise_lq": true, "noise_mq": true, "noise_hq": true,
	"noisevol_lq": true, "noisevol_hq": true,
}

// IsBuiltinName reports whether name is resolved internally by the
// renderer rather than looked up on disk.
func IsBuiltinName(name string) bool {
	return builtinNames[name]
}

// WrapMode and FilterMode are the two orthogonal sampler axes a texture
// reference's name prefix can select (spec.md §4.7).
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

type FilterMode uint8

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// Descriptor is what GetTexture/GetRandomTexture resolve a sampler name
// to: the decoded image data and the wrap/filter pair parsed from the
// name's prefix.
type Descriptor struct {
	Name   string
	Wrap   WrapMode
	Filter FilterMode
	Image  image.Image
}

// ParseSamplerName splits a sampler name into its base texture name and
// the wrap/filter directives encoded as "wrap_"/"clamp_"/"nearest_"
// prefixes, e.g. "clamp_nearest_starfield" -> ("starfield", Clamp,
// Nearest).
func ParseSamplerName(full string) (base string, wrap WrapMode, filter FilterMode) {
	wrap = WrapRepeat
	filter = FilterLinear
	rest := full
	for {
		switch {
		case strings.HasPrefix(rest, "clamp_"):
			wrap = WrapClamp
			rest = rest[len("clamp_"):]
		case strings.HasPrefix(rest, "wrap_"):
			wrap = WrapRepeat
			rest = rest[len("wrap_"):]
		case strings.HasPrefix(rest, "nearest_"):
			filter = FilterNearest
			rest = rest[len("nearest_"):]
		case strings.HasPrefix(rest, "linear_"):
			filter = FilterLinear
			rest = rest[len("linear_"):]
		default:
			return rest, wrap, filter
		}
	}
}

// recognizedExtensions lists every file extension spec.md §4.7/§6 names
// as a valid texture file for search-path scanning and sampler-name
// matching: "jpg, jpeg, dds, png, tga, bmp, dib". Not every recognised
// extension is necessarily decodable by DefaultDecoder (see
// decodableExtensions below) — DDS/TGA decoding is an out-of-scope
// external-collaborator concern, but the files themselves still belong
// in the scanned/matched set so Names/GetRandomTexture see a faithful
// view of what's on disk.
var recognizedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".dds": true, ".png": true,
	".tga": true, ".bmp": true, ".dib": true,
}

// IsRecognizedExtension reports whether ext (including the leading dot,
// any case) names a file extension the texture manager recognises when
// scanning search paths or matching a sampler's base name to a file.
func IsRecognizedExtension(ext string) bool {
	return recognizedExtensions[strings.ToLower(ext)]
}

// decodableExtensions is the subset of recognizedExtensions DefaultDecoder
// can actually turn into pixel data.
var decodableExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".dib": true,
}

// IsDecodableExtension reports whether ext (including the leading dot,
// any case) names a format the default Decoder can load.
func IsDecodableExtension(ext string) bool {
	return decodableExtensions[strings.ToLower(ext)]
}
