package recording

import (
	"bytes"
	"context"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ewilliams-labs/songradar/internal/logger"
)

// Transcoder converts uploads to mono 44.1 kHz WAV before fingerprinting.
// A disabled Transcoder passes every clip through unchanged.
type Transcoder struct {
	enabled    bool
	ffmpegPath string
	run        func(stream *ffmpeg.Stream) error
	log        logger.Logger
}

func NewTranscoder(enabled bool, ffmpegPath string) *Transcoder {
	return &Transcoder{
		enabled:    enabled,
		ffmpegPath: ffmpegPath,
		run:        func(stream *ffmpeg.Stream) error { return stream.Run() },
		log:        logger.New("recording"),
	}
}

// Prepare returns the clip to send upstream and its content type.
func (t *Transcoder) Prepare(ctx context.Context, data []byte, contentType string) ([]byte, string, error) {
	log := t.log.Function("Prepare").TraceFromContext(ctx)

	if isWAV(data) {
		return data, ContentTypeWAV, nil
	}
	if !t.enabled {
		if contentType == "" {
			contentType = DetectContentType(data)
		}
		return data, contentType, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var out, stderr bytes.Buffer
	stream := ffmpeg.Input("pipe:0").
		Output("pipe:1", ffmpeg.KwArgs{
			"f":        "wav",
			"ac":       1,
			"ar":       44100,
			"loglevel": "error",
		}).
		WithInput(bytes.NewReader(data)).
		WithOutput(&out).
		WithErrorOutput(&stderr)
	if t.ffmpegPath != "" {
		stream = stream.SetFfmpegPath(t.ffmpegPath)
	}

	done := log.Timer("transcode")
	err := t.run(stream)
	done()
	if err != nil {
		return nil, "", fmt.Errorf("recording: transcode: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	if !isWAV(out.Bytes()) {
		return nil, "", fmt.Errorf("recording: transcode produced no wav output")
	}
	log.Debug("transcoded clip", "in_bytes", len(data), "out_bytes", out.Len())
	return out.Bytes(), ContentTypeWAV, nil
}
