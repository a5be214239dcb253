package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func encodeFloat32LE(buf *bytes.Buffer, v float32) {
	binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
}

func TestFFTSourceNextFrame(t *testing.T) {
	const windowSize = 8
	var buf bytes.Buffer
	for i := 0; i < windowSize; i++ {
		encodeFloat32LE(&buf, float32(math.Sin(float64(i))))
	}

	src := NewFFTSource(&buf, windowSize)
	frame, err := src.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame failed: %v", err)
	}
	if len(frame.PCM) != windowSize {
		t.Errorf("PCM length = %d, want %d", len(frame.PCM), windowSize)
	}
	if len(frame.Spectrum) != windowSize/2 {
		t.Errorf("Spectrum length = %d, want %d", len(frame.Spectrum), windowSize/2)
	}
	if frame.BassAtt > frame.Bass {
		t.Error("attenuated bass energy should never exceed the raw value")
	}
}

func TestFFTSourceShortReadIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	encodeFloat32LE(&buf, 1.0)
	encodeFloat32LE(&buf, 0.5)

	src := NewFFTSource(&buf, 8)
	frame, err := src.NextFrame()
	if err != nil {
		t.Fatalf("a short final read should not be treated as fatal: %v", err)
	}
	if len(frame.PCM) != 2 {
		t.Errorf("PCM length = %d, want 2 for a partial window", len(frame.PCM))
	}
}

func TestBandEnergy(t *testing.T) {
	mags := []float32{1, 2, 3, 4}
	energy, att := bandEnergy(mags, 0, 2)
	if energy != 1.5 {
		t.Errorf("energy = %v, want 1.5", energy)
	}
	if att != energy*0.6 {
		t.Errorf("attenuated = %v, want %v", att, energy*0.6)
	}

	if e, a := bandEnergy(mags, 2, 2); e != 0 || a != 0 {
		t.Errorf("an empty band should report zero energy, got (%v, %v)", e, a)
	}
}
