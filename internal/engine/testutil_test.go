package engine

import (
	"bytes"
	"encoding/binary"
	"math"
)

// makeSine generates a sine tone at the given frequency and amplitude.
func makeSine(freq float64, rate int, seconds, amplitude float64) []float64 {
	n := int(seconds * float64(rate))
	data := make([]float64, n)
	for i := range data {
		data[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return data
}

// withSilenceGap zeroes a span of the signal, in seconds from the start.
func withSilenceGap(data []float64, rate int, start, duration float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	from := int(start * float64(rate))
	to := from + int(duration*float64(rate))
	for i := from; i < to && i < len(out); i++ {
		out[i] = 0
	}
	return out
}

// makeWAV encodes mono float samples as a 16-bit PCM RIFF/WAVE file, the
// simplest container the decoder accepts.
func makeWAV(data []float64, rate int) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(data) * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))     // chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))      // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))      // mono
	binary.Write(&buf, binary.LittleEndian, uint32(rate))   // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))      // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))     // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, v := range data {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.Write(&buf, binary.LittleEndian, int16(v*32767))
	}
	return buf.Bytes()
}

func newTestEngine() *Engine {
	return New(DefaultConfig(), nil)
}
