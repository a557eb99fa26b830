package engine

import (
	"bytes"
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// AudioSample is a decoded mono PCM signal at a fixed sample rate. It is owned
// by the evaluation that decoded it and never mutated.
type AudioSample struct {
	Data []float64 // amplitudes in [-1, 1]
	Rate int       // samples per second
}

// Duration returns the signal length in seconds.
func (s AudioSample) Duration() float64 {
	if s.Rate <= 0 {
		return 0
	}
	return float64(len(s.Data)) / float64(s.Rate)
}

// byteReadCloser adapts an in-memory buffer to the decoder interfaces.
type byteReadCloser struct {
	*bytes.Reader
}

func (byteReadCloser) Close() error { return nil }

// decode turns compressed audio bytes into a mono AudioSample at the canonical
// sample rate. The container is sniffed from magic bytes; unknown data falls
// through to the MP3 decoder, the dominant input format. Stereo sources are
// down-mixed by averaging the channels and off-rate sources are resampled with
// linear interpolation.
func (e *Engine) decode(data []byte) (AudioSample, error) {
	if len(data) == 0 {
		return AudioSample{}, fmt.Errorf("%w: empty input", ErrDecode)
	}

	rc := byteReadCloser{bytes.NewReader(data)}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch sniffFormat(data) {
	case "wav":
		stream, format, err = wav.Decode(rc)
	case "flac":
		stream, format, err = flac.Decode(rc)
	case "vorbis":
		stream, format, err = vorbis.Decode(rc)
	default:
		stream, format, err = mp3.Decode(rc)
	}
	if err != nil {
		return AudioSample{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer stream.Close()

	var samples []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for _, frame := range buf[:n] {
			samples = append(samples, (frame[0]+frame[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return AudioSample{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(samples) == 0 {
		return AudioSample{}, fmt.Errorf("%w: no samples decoded", ErrDecode)
	}

	rate := int(format.SampleRate)
	if rate != e.cfg.SampleRate && rate > 0 {
		samples = resampleLinear(samples, rate, e.cfg.SampleRate)
		rate = e.cfg.SampleRate
	}

	return AudioSample{Data: samples, Rate: rate}, nil
}

// sniffFormat identifies the audio container from its magic bytes.
func sniffFormat(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return "wav"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "vorbis"
	case bytes.HasPrefix(data, []byte("ID3")):
		return "mp3"
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	}
	return ""
}

// resampleLinear maps the target index space onto the source and interpolates
// between neighbouring samples.
func resampleLinear(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(dstRate) / float64(srcRate)
	newLen := int(float64(len(samples)) * ratio)
	if newLen < 1 {
		newLen = 1
	}
	out := make([]float64, newLen)
	if newLen == 1 {
		out[0] = samples[0]
		return out
	}
	step := float64(len(samples)-1) / float64(newLen-1)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}
