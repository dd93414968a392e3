package speech

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWav(sampleRate, channels int, pcm []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

func TestParseWav(t *testing.T) {
	pcm := make([]byte, 32000) // one second of 16 kHz mono
	info, data, err := ParseWav(buildWav(16000, 1, pcm))
	require.NoError(t, err)

	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitsPerSample)
	assert.Equal(t, len(pcm), info.DataLen)
	assert.Len(t, data, len(pcm))
	assert.InDelta(t, 1.0, info.Duration(), 1e-9)
}

func TestParseWav_Stereo(t *testing.T) {
	pcm := make([]byte, 64000) // one second of 16 kHz stereo
	info, _, err := ParseWav(buildWav(16000, 2, pcm))
	require.NoError(t, err)

	assert.Equal(t, 2, info.Channels)
	assert.InDelta(t, 1.0, info.Duration(), 1e-9)
}

func TestParseWav_NotWav(t *testing.T) {
	_, _, err := ParseWav([]byte("ID3 this is an mp3"))
	assert.Error(t, err)

	_, _, err = ParseWav(nil)
	assert.Error(t, err)
}

func TestParseWav_NonPCMRejected(t *testing.T) {
	wav := buildWav(16000, 1, make([]byte, 100))
	// Flip the format tag to IEEE float.
	binary.LittleEndian.PutUint16(wav[20:22], 3)

	_, _, err := ParseWav(wav)
	assert.Error(t, err)
}

func TestParseWav_TruncatedDataChunk(t *testing.T) {
	wav := buildWav(16000, 1, make([]byte, 1000))
	truncated := wav[:len(wav)-200]

	info, data, err := ParseWav(truncated)
	require.NoError(t, err)
	assert.Equal(t, 800, info.DataLen)
	assert.Len(t, data, 800)
}

func TestDownmixMono(t *testing.T) {
	// Two stereo frames: (100, 200) and (-100, 300).
	pcm := make([]byte, 8)
	samples := []int16{100, 200, -100, 300}
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	info := WavInfo{SampleRate: 16000, Channels: 2, BitsPerSample: 16, DataLen: len(pcm)}
	mono, out := DownmixMono(info, pcm)

	assert.Equal(t, 1, mono.Channels)
	assert.Equal(t, 4, mono.DataLen)
	require.Len(t, out, 4)
	assert.Equal(t, int16(150), int16(binary.LittleEndian.Uint16(out[0:])))
	assert.Equal(t, int16(100), int16(binary.LittleEndian.Uint16(out[2:])))
}

func TestDownmixMono_MonoPassthrough(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	info := WavInfo{SampleRate: 16000, Channels: 1, BitsPerSample: 16, DataLen: len(pcm)}

	out, data := DownmixMono(info, pcm)
	assert.Equal(t, info, out)
	assert.Equal(t, pcm, data)
}
