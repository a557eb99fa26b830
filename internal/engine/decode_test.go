package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EmptyInput(t *testing.T) {
	e := newTestEngine()

	_, err := e.decode(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_GarbageInput(t *testing.T) {
	e := newTestEngine()

	_, err := e.decode([]byte("this is definitely not audio data of any kind"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_WAVRoundTrip(t *testing.T) {
	e := newTestEngine()
	tone := makeSine(220, testRate, 1.0, 0.5)

	sample, err := e.decode(makeWAV(tone, testRate))
	require.NoError(t, err)

	assert.Equal(t, testRate, sample.Rate)
	assert.InDelta(t, 1.0, sample.Duration(), 0.01)
	for i := 0; i < len(sample.Data) && i < len(tone); i += 997 {
		assert.InDelta(t, tone[i], sample.Data[i], 0.01)
	}
}

func TestDecode_ResamplesToCanonicalRate(t *testing.T) {
	e := newTestEngine()
	tone := makeSine(220, 44100, 1.0, 0.5)

	sample, err := e.decode(makeWAV(tone, 44100))
	require.NoError(t, err)

	assert.Equal(t, testRate, sample.Rate)
	assert.InDelta(t, 1.0, sample.Duration(), 0.01)
}

func TestSniffFormat(t *testing.T) {
	assert.Equal(t, "wav", sniffFormat([]byte("RIFFxxxx")))
	assert.Equal(t, "flac", sniffFormat([]byte("fLaCxxxx")))
	assert.Equal(t, "vorbis", sniffFormat([]byte("OggSxxxx")))
	assert.Equal(t, "mp3", sniffFormat([]byte("ID3xxxxx")))
	assert.Equal(t, "mp3", sniffFormat([]byte{0xFF, 0xFB, 0x90, 0x00}))
	assert.Equal(t, "", sniffFormat([]byte("abcd")))
	assert.Equal(t, "", sniffFormat([]byte("ab")))
}

func TestResampleLinear(t *testing.T) {
	out := resampleLinear([]float64{0, 1}, 1, 2)
	require.Len(t, out, 4)
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 1.0/3, out[1], 1e-9)
	assert.InDelta(t, 2.0/3, out[2], 1e-9)
	assert.InDelta(t, 1.0, out[3], 1e-9)

	down := resampleLinear([]float64{0, 1, 2, 3}, 2, 1)
	require.Len(t, down, 2)
	assert.InDelta(t, 0.0, down[0], 1e-9)
	assert.InDelta(t, 3.0, down[1], 1e-9)

	same := []float64{1, 2, 3}
	assert.Equal(t, same, resampleLinear(same, 4, 4))
}
