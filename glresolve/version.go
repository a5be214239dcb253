package glresolve

import (
	"fmt"
	"regexp"
	"strconv"
)

// OpenGLVersion is a parsed "major.minor" context version requirement.
type OpenGLVersion struct {
	Major, Minor int
}

func (v OpenGLVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v satisfies a requirement of at least other.
func (v OpenGLVersion) AtLeast(other OpenGLVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

var glVersionStringRe = regexp.MustCompile(`^(?:OpenGL ES )?(\d+)\.(\d+)`)

// ParseGLVersionString parses the string returned by glGetString(GL_VERSION),
// which may be prefixed with "OpenGL ES " on GLES implementations.
func ParseGLVersionString(s string) (OpenGLVersion, error) {
	m := glVersionStringRe.FindStringSubmatch(s)
	if m == nil {
		return OpenGLVersion{}, fmt.Errorf("glresolve: unrecognised GL_VERSION string %q", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return OpenGLVersion{Major: major, Minor: minor}, nil
}

// GLSLVersion is a parsed "#version NNN" directive number, e.g. 330 or 300
// (the latter typically paired with an "es" profile suffix).
type GLSLVersion struct {
	Number  int
	ESProfile bool
}

func (v GLSLVersion) String() string {
	if v.ESProfile {
		return fmt.Sprintf("%d es", v.Number)
	}
	return strconv.Itoa(v.Number)
}

var glslVersionStringRe = regexp.MustCompile(`^(\d+)(?:\s+(es))?`)

// glslDottedVersionRe matches the "major.minor" form drivers report, e.g.
// "3.30 NVIDIA via Cg compiler" or "OpenGL ES GLSL ES 3.00".
var glslDottedVersionRe = regexp.MustCompile(`^(OpenGL ES GLSL ES )?(\d+)\.(\d+)`)

// ParseGLSLVersionString parses the string returned by
// glGetString(GL_SHADING_LANGUAGE_VERSION) ("3.30 ...", "OpenGL ES GLSL ES
// 3.00 ...") as well as a bare directive number such as "330" or "300 es".
func ParseGLSLVersionString(s string) (GLSLVersion, error) {
	if d := glslDottedVersionRe.FindStringSubmatch(s); d != nil {
		major, _ := strconv.Atoi(d[2])
		minor, _ := strconv.Atoi(d[3])
		return GLSLVersion{Number: major*100 + minor, ESProfile: d[1] != ""}, nil
	}
	m := glslVersionStringRe.FindStringSubmatch(s)
	if m == nil {
		return GLSLVersion{}, fmt.Errorf("glresolve: unrecognised GLSL version string %q", s)
	}
	number, _ := strconv.Atoi(m[1])
	return GLSLVersion{Number: number, ESProfile: m[2] == "es"}, nil
}

// ParseGLSLVersion parses a bare "#version" directive argument such as
// "330" or "300 es" as found at the top of a shader source file.
func ParseGLSLVersion(directive string) (GLSLVersion, error) {
	return ParseGLSLVersionString(directive)
}

// AtLeast reports whether v satisfies a requirement of at least other,
// within the same ES/desktop profile; a profile mismatch never compares
// as satisfying the requirement since the numbering schemes diverge past
// GLSL 1.50/ES 2.0.
func (v GLSLVersion) AtLeast(other GLSLVersion) bool {
	if v.ESProfile != other.ESProfile {
		return false
	}
	return v.Number >= other.Number
}

// VersionRequirement gates Load: the loader refuses to report success if
// the context it was handed falls short of Min, or of MinGLSL when set.
type VersionRequirement struct {
	Min     OpenGLVersion
	MinGLSL GLSLVersion
}

// DefaultVersionRequirement matches the minimum context version the
// renderer's shader stages are written against.
var DefaultVersionRequirement = VersionRequirement{
	Min:     OpenGLVersion{Major: 3, Minor: 3},
	MinGLSL: GLSLVersion{Number: 330},
}
