// Package acrcloud talks to the ACRCloud identify and external-metadata APIs.
package acrcloud

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/songradar/internal/core/ports"
	"github.com/ewilliams-labs/songradar/internal/logger"
)

const (
	serviceIdentify = "acrcloud-identify"
	serviceMetadata = "acrcloud-metadata"

	// Platforms requested alongside every metadata query.
	metadataPlatforms = "spotify,youtube,applemusic"
)

// Options configures a Client.
type Options struct {
	IdentifyURL  string
	AccessKey    string
	AccessSecret string

	MetadataURL string
	Token       string

	// HTTPClient is the base client for both APIs. Its timeout is kept on
	// the bearer-authenticated metadata client.
	HTTPClient *http.Client
}

// Client is an HTTP client for ACRCloud.
type Client struct {
	identifyURL  string
	accessKey    string
	accessSecret string
	identifyHTTP *http.Client

	metadataURL  string
	metadataHTTP *http.Client

	now func() time.Time
	log logger.Logger
}

// compile-time interface assertions
var (
	_ ports.Fingerprinter    = (*Client)(nil)
	_ ports.MetadataSearcher = (*Client)(nil)
)

// NewClient constructs a new ACRCloud client.
func NewClient(opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	bearer := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: opts.Token,
		TokenType:   "Bearer",
	}))
	bearer.Timeout = base.Timeout

	return &Client{
		identifyURL:  strings.TrimRight(opts.IdentifyURL, "/"),
		accessKey:    opts.AccessKey,
		accessSecret: opts.AccessSecret,
		identifyHTTP: base,
		metadataURL:  strings.TrimRight(opts.MetadataURL, "/"),
		metadataHTTP: bearer,
		now:          time.Now,
		log:          logger.New("acrcloud"),
	}
}
