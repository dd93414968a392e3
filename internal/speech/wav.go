package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WavInfo describes a decoded PCM WAV payload.
type WavInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataLen       int
}

// Duration returns the audio length in seconds.
func (w WavInfo) Duration() float64 {
	bytesPerSecond := w.SampleRate * w.Channels * w.BitsPerSample / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return float64(w.DataLen) / float64(bytesPerSecond)
}

var errNotWav = errors.New("not a RIFF/WAVE file")

// ParseWav reads the RIFF header of a PCM WAV file and locates its data
// chunk. Only uncompressed PCM (format tag 1) is supported.
func ParseWav(data []byte) (WavInfo, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WavInfo{}, nil, errNotWav
	}

	var info WavInfo
	var pcm []byte
	haveFmt := false

	// Walk the chunk list; fmt and data may appear in any order.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkLen > len(data) {
			chunkLen = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return WavInfo{}, nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkLen)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return WavInfo{}, nil, fmt.Errorf("unsupported wav format tag %d, want PCM", format)
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkLen]
			info.DataLen = chunkLen
		}

		// Chunks are word-aligned.
		if chunkLen%2 == 1 {
			chunkLen++
		}
		offset = body + chunkLen
	}

	if !haveFmt || pcm == nil {
		return WavInfo{}, nil, errors.New("wav file missing fmt or data chunk")
	}
	if info.Channels < 1 || info.BitsPerSample != 16 {
		return WavInfo{}, nil, fmt.Errorf("unsupported wav layout: %d channels, %d bits", info.Channels, info.BitsPerSample)
	}

	return info, pcm, nil
}

// DownmixMono averages stereo 16-bit PCM samples into a single channel so
// the transcriber always receives mono LINEAR16 audio. Mono input is
// returned unchanged.
func DownmixMono(info WavInfo, pcm []byte) (WavInfo, []byte) {
	if info.Channels == 1 {
		return info, pcm
	}

	frameSize := info.Channels * 2
	frames := len(pcm) / frameSize
	mono := make([]byte, frames*2)

	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < info.Channels; c++ {
			sample := int(int16(binary.LittleEndian.Uint16(pcm[i*frameSize+c*2:])))
			sum += sample
		}
		avg := int16(sum / info.Channels)
		binary.LittleEndian.PutUint16(mono[i*2:], uint16(avg))
	}

	out := info
	out.Channels = 1
	out.DataLen = len(mono)
	return out, mono
}
