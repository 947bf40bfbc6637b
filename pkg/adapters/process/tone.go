package process

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate of generated tones.
const SampleRate = 22050

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
)

// Tone renders a mono 16-bit PCM WAV of the given frequency and length.
func Tone(freq float64, d time.Duration, wave Wave) []byte {
	n := int(float64(SampleRate) * d.Seconds())
	samples := make([]int, n)
	for i := range samples {
		t := float64(i) / SampleRate
		phase := math.Sin(2 * math.Pi * freq * t)
		var v float64
		switch wave {
		case Square:
			v = math.Copysign(0.2, phase)
		case Triangle:
			v = 2 * math.Asin(phase) / math.Pi * 0.3
		default:
			v = phase * 0.3
		}
		// Short linear fade out avoids a click at the end.
		if rest := n - i; rest < 200 {
			v *= float64(rest) / 200
		}
		samples[i] = int(v * math.MaxInt16)
	}
	return encodeWAV(samples)
}

// wavPCM is the WAVE format tag for uncompressed PCM.
const wavPCM = 1

func encodeWAV(samples []int) []byte {
	var out memFile
	enc := wav.NewEncoder(&out, SampleRate, 16, 1, wavPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	// memFile never fails, so neither can the encoder.
	if err := enc.Write(buf); err != nil {
		return nil
	}
	if err := enc.Close(); err != nil {
		return nil
	}
	return out.buf
}

// memFile is an in-memory io.WriteSeeker. The encoder seeks back to patch
// chunk sizes once the samples are written.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("memFile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("memFile: negative position")
	}
	m.pos = int(abs)
	return abs, nil
}

// DefaultSounds returns the built-in effects keyed by name.
func DefaultSounds() map[string][]byte {
	return map[string][]byte{
		"click":   Tone(800, 50*time.Millisecond, Sine),
		"confirm": Tone(660, 150*time.Millisecond, Triangle),
		"exit":    Tone(400, 200*time.Millisecond, Sine),
		"brrrp":   Tone(200, 300*time.Millisecond, Square),
		"eat":     Tone(600, 200*time.Millisecond, Triangle),
		"error":   Tone(150, 150*time.Millisecond, Square),
		"success": Tone(880, 250*time.Millisecond, Triangle),
	}
}
