package domain

import (
	"errors"
	"fmt"
)

// ErrNoMatch reports that an identification or search legitimately found
// nothing. It is an expected outcome, not a failure of the service.
var ErrNoMatch = errors.New("no match")

// ErrMalformedUpstreamResponse is returned only when an upstream body is not
// decodable at all. Well-typed but incomplete bodies are normalized instead.
var ErrMalformedUpstreamResponse = errors.New("malformed upstream response")

// Stage names a step of the identification flow.
type Stage string

const (
	StageStart             Stage = "start"
	StageFingerprinted     Stage = "fingerprinted"
	StageMetadataConfirmed Stage = "metadata_confirmed"
	StageLyricsEnriched    Stage = "lyrics_enriched"
	StageDone              Stage = "done"
)

// NoMatchError carries the stage at which nothing was found.
type NoMatchError struct {
	Stage Stage
	Query string
}

func (e *NoMatchError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("%s at stage %s", ErrNoMatch, e.Stage)
	}
	return fmt.Sprintf("%s at stage %s for %q", ErrNoMatch, e.Stage, e.Query)
}

func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// UpstreamError wraps a transport, auth or status failure from a third-party
// service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Service, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	default:
		return e.Service + ": upstream error"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err unless it already is an UpstreamError or a
// NoMatch, which pass through unchanged.
func NewUpstreamError(service string, err error) error {
	if err == nil {
		return nil
	}
	var up *UpstreamError
	if errors.As(err, &up) || errors.Is(err, ErrNoMatch) {
		return err
	}
	return &UpstreamError{Service: service, Err: err}
}
