package acrcloud

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1" // #nosec G505 -- ACRCloud signature_version 1 is HMAC-SHA1
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

const (
	dataType         = "audio"
	signatureVersion = "1"
	sampleFileName   = "audio.wav"

	statusSuccess  = 0
	statusNoResult = 1001
)

// Identify uploads a signed audio sample and returns the fingerprint matches,
// best first. "No result" is an empty slice, not an error.
func (c *Client) Identify(ctx context.Context, audio []byte) ([]ports.FingerprintMatch, error) {
	log := c.log.Function("Identify").TraceFromContext(ctx)

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign(http.MethodPost, c.identifyPath(), timestamp)

	body, contentType, err := identifyForm(audio, c.accessKey, timestamp, signature)
	if err != nil {
		return nil, fmt.Errorf("acrcloud adapter: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identifyURL, body)
	if err != nil {
		return nil, fmt.Errorf("acrcloud adapter: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := upstream.Do(c.identifyHTTP, serviceIdentify, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ir identifyResponse
	if err := upstream.DecodeJSON(serviceIdentify, resp.Body, &ir); err != nil {
		return nil, err
	}

	switch ir.Status.Code {
	case statusSuccess:
	case statusNoResult:
		log.Debug("no fingerprint result", "msg", ir.Status.Msg)
		return []ports.FingerprintMatch{}, nil
	default:
		// Auth, quota and signature problems arrive as HTTP 200 with a
		// non-zero status code.
		return nil, &domain.UpstreamError{
			Service: serviceIdentify,
			Err:     fmt.Errorf("status code %d: %s", ir.Status.Code, ir.Status.Msg),
		}
	}

	matches := mapMatches(ir.Metadata.Music)
	log.Debug("fingerprint matches", "count", len(matches))
	return matches, nil
}

// sign builds the signature_version 1 HMAC-SHA1 signature, base64 encoded.
func (c *Client) sign(method, path, timestamp string) string {
	stringToSign := method + "\n" + path + "\n" + c.accessKey + "\n" + dataType + "\n" + signatureVersion + "\n" + timestamp
	mac := hmac.New(sha1.New, []byte(c.accessSecret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) identifyPath() string {
	u, err := url.Parse(c.identifyURL)
	if err != nil || u.Path == "" {
		return "/v1/identify"
	}
	return u.Path
}

func identifyForm(audio []byte, accessKey, timestamp, signature string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("sample", sampleFileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"access_key", accessKey},
		{"sample_bytes", strconv.Itoa(len(audio))},
		{"timestamp", timestamp},
		{"signature", signature},
		{"data_type", dataType},
		{"signature_version", signatureVersion},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
