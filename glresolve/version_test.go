package glresolve

import "testing"

func TestParseGLVersionString(t *testing.T) {
	tests := []struct {
		in      string
		want    OpenGLVersion
		wantErr bool
	}{
		{"3.3.0 NVIDIA 535.129.03", OpenGLVersion{3, 3}, false},
		{"4.6 (Core Profile) Mesa 23.2.1", OpenGLVersion{4, 6}, false},
		{"OpenGL ES 3.0 Mesa 23.2.1", OpenGLVersion{3, 0}, false},
		{"garbage", OpenGLVersion{}, true},
	}
	for _, tt := range tests {
		got, err := ParseGLVersionString(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGLVersionString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseGLVersionString(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOpenGLVersionAtLeast(t *testing.T) {
	tests := []struct {
		have, need OpenGLVersion
		want       bool
	}{
		{OpenGLVersion{3, 3}, OpenGLVersion{3, 3}, true},
		{OpenGLVersion{4, 0}, OpenGLVersion{3, 3}, true},
		{OpenGLVersion{3, 2}, OpenGLVersion{3, 3}, false},
		{OpenGLVersion{2, 9}, OpenGLVersion{3, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.have.AtLeast(tt.need); got != tt.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
}

func TestGLSLVersionAtLeast(t *testing.T) {
	tests := []struct {
		have, need GLSLVersion
		want       bool
	}{
		{GLSLVersion{Number: 330}, GLSLVersion{Number: 330}, true},
		{GLSLVersion{Number: 460}, GLSLVersion{Number: 330}, true},
		{GLSLVersion{Number: 150}, GLSLVersion{Number: 330}, false},
		{GLSLVersion{Number: 300, ESProfile: true}, GLSLVersion{Number: 330}, false},
	}
	for _, tt := range tests {
		if got := tt.have.AtLeast(tt.need); got != tt.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
}

func TestParseGLSLVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    GLSLVersion
		wantErr bool
	}{
		{"330", GLSLVersion{Number: 330}, false},
		{"300 es", GLSLVersion{Number: 300, ESProfile: true}, false},
		{"", GLSLVersion{}, true},
	}
	for _, tt := range tests {
		got, err := ParseGLSLVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGLSLVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseGLSLVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
