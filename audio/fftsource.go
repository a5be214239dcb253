package audio

import (
	"io"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FFTSource is a reference Source that turns raw interleaved stereo PCM
// samples from an io.Reader into analysis Frames, computing the spectrum
// with github.com/mjibson/go-dsp/fft the same way the teacher's
// shadertoy audio resource builds its texture-backed FFT view. The FFT runs
// over the samples exactly as read, as one sequence: the resulting Spectrum
// and band energies are not split per channel.
type FFTSource struct {
	r          io.Reader
	windowSize int
	buf        []float32
}

// NewFFTSource wraps r, reading up to windowSize float32 samples per
// NextFrame.
func NewFFTSource(r io.Reader, windowSize int) *FFTSource {
	return &FFTSource{r: r, windowSize: windowSize}
}

func (s *FFTSource) NextFrame() (Frame, error) {
	raw := make([]byte, s.windowSize*4)
	n, err := io.ReadFull(s.r, raw)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Frame{}, err
	}
	samples := n / 4
	pcm := make([]float32, samples)
	complexIn := make([]complex128, samples)
	for i := 0; i < samples; i++ {
		v := decodeFloat32LE(raw[i*4 : i*4+4])
		pcm[i] = v
		complexIn[i] = complex(float64(v), 0)
	}

	spectrum := fft.FFT(complexIn)
	mags := make([]float32, len(spectrum)/2)
	for i := range mags {
		mags[i] = float32(abs(spectrum[i]))
	}

	frame := Frame{PCM: pcm, Spectrum: mags}
	frame.Bass, frame.BassAtt = bandEnergy(mags, 0, len(mags)/8)
	frame.Mid, frame.MidAtt = bandEnergy(mags, len(mags)/8, len(mags)/2)
	frame.Treble, frame.TrebleAtt = bandEnergy(mags, len(mags)/2, len(mags))
	return frame, nil
}

func (s *FFTSource) Close() error {
	if rc, ok := s.r.(io.Closer); ok {
		return rc.Close()
	}
	return nil
}

func bandEnergy(mags []float32, lo, hi int) (energy, attenuated float32) {
	if hi > len(mags) {
		hi = len(mags)
	}
	if lo >= hi {
		return 0, 0
	}
	var sum float32
	for _, m := range mags[lo:hi] {
		sum += m
	}
	energy = sum / float32(hi-lo)
	attenuated = energy * 0.6
	return energy, attenuated
}

func decodeFloat32LE(b []byte) float32 {
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(u)
}

func abs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
