package texture

import "testing"

func TestParseSamplerName(t *testing.T) {
	tests := []struct {
		in         string
		wantBase   string
		wantWrap   WrapMode
		wantFilter FilterMode
	}{
		{"starfield", "starfield", WrapRepeat, FilterLinear},
		{"clamp_starfield", "starfield", WrapClamp, FilterLinear},
		{"nearest_starfield", "starfield", WrapRepeat, FilterNearest},
		{"clamp_nearest_starfield", "starfield", WrapClamp, FilterNearest},
		{"wrap_linear_starfield", "starfield", WrapRepeat, FilterLinear},
	}
	for _, tt := range tests {
		base, wrap, filter := ParseSamplerName(tt.in)
		if base != tt.wantBase || wrap != tt.wantWrap || filter != tt.wantFilter {
			t.Errorf("ParseSamplerName(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tt.in, base, wrap, filter, tt.wantBase, tt.wantWrap, tt.wantFilter)
		}
	}
}

func TestIsBuiltinName(t *testing.T) {
	for _, name := range []string{"main", "blur1", "blur2", "blur3", "noise_lq", "noisevol_hq"} {
		if !IsBuiltinName(name) {
			t.Errorf("IsBuiltinName(%q) = false, want true", name)
		}
	}
	if IsBuiltinName("starfield") {
		t.Error("IsBuiltinName(starfield) = true, want false")
	}
}

func TestIsDecodableExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPG", ".png", ".bmp", ".dib"} {
		if !IsDecodableExtension(ext) {
			t.Errorf("IsDecodableExtension(%q) = false, want true", ext)
		}
	}
	if IsDecodableExtension(".tga") {
		t.Error("IsDecodableExtension(.tga) = true, want false (not in the supported set)")
	}
}

func TestRandomPrefix(t *testing.T) {
	tests := map[string]string{
		"rand07_starfield": "starfield",
		"rand00_":          "",
		"starfield":        "",
	}
	for in, want := range tests {
		if got := randomPrefix(in); got != want {
			t.Errorf("randomPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalogPurgeEvictsStaleEntries(t *testing.T) {
	c := NewCatalog(nil)
	c.PurgeAfter = 1
	c.Put("a", Descriptor{Name: "a"}, 100)
	c.Put("b", Descriptor{Name: "b"}, 100)

	c.Purge() // age: a=0->1, b=0->1; neither exceeds the threshold yet
	if _, ok := c.cached["a"]; !ok {
		t.Fatal("a should still be cached after one purge at the threshold")
	}
	if _, ok := c.cached["b"]; !ok {
		t.Fatal("b should still be cached after one purge at the threshold")
	}

	c.Get("a") // touch a only, resetting its age back to 0

	c.Purge() // a: 0->1 (still fine); b: 1->2, exceeds PurgeAfter and is evicted
	if _, ok := c.cached["a"]; !ok {
		t.Error("a should still be cached: it was touched before the second purge")
	}
	if _, ok := c.cached["b"]; ok {
		t.Error("b should have been evicted: it went two purges without being touched")
	}
}
