package recording

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

const (
	ContentTypeWAV = "audio/wav"
	ContentTypeMP3 = "audio/mpeg"
)

// ErrUnknownFormat is returned by Probe for data that is neither WAV nor MP3.
var ErrUnknownFormat = errors.New("recording: unknown audio format")

// Info describes a probed clip.
type Info struct {
	ContentType string
	SampleRate  int
	Channels    int
	Duration    time.Duration
}

// DetectContentType sniffs WAV and MP3 and falls back to net/http sniffing.
func DetectContentType(data []byte) string {
	switch {
	case isWAV(data):
		return ContentTypeWAV
	case isMP3(data):
		return ContentTypeMP3
	default:
		return http.DetectContentType(data)
	}
}

// Probe reads the format header and computes the clip duration.
func Probe(data []byte) (Info, error) {
	switch {
	case isWAV(data):
		return probeWAV(data)
	case isMP3(data):
		return probeMP3(data)
	default:
		return Info{}, ErrUnknownFormat
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")) {
		return true
	}
	// MPEG audio frame sync.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// probeWAV walks the RIFF chunks for fmt and data.
func probeWAV(data []byte) (Info, error) {
	info := Info{ContentType: ContentTypeWAV}
	var byteRate uint32
	var dataSize uint32
	haveFmt := false

	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return Info{}, fmt.Errorf("recording: truncated fmt chunk")
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			haveFmt = true
		case "data":
			dataSize = size
			if avail := uint32(len(data) - body); dataSize > avail {
				dataSize = avail
			}
		}

		// Chunks are word aligned.
		next := body + int(size) + int(size&1)
		if next <= off {
			break
		}
		off = next
	}

	if !haveFmt {
		return Info{}, fmt.Errorf("recording: wav without fmt chunk")
	}
	if byteRate > 0 {
		info.Duration = time.Duration(float64(dataSize) / float64(byteRate) * float64(time.Second))
	}
	return info, nil
}

func probeMP3(data []byte) (Info, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("recording: mp3 decode failed: %w", err)
	}

	info := Info{
		ContentType: ContentTypeMP3,
		SampleRate:  decoder.SampleRate(),
		Channels:    2, // go-mp3 always decodes to 16-bit stereo
	}
	// Length is in bytes of decoded 16-bit stereo PCM.
	if length := decoder.Length(); length > 0 && info.SampleRate > 0 {
		samples := float64(length) / 4
		info.Duration = time.Duration(samples / float64(info.SampleRate) * float64(time.Second))
	}
	return info, nil
}
