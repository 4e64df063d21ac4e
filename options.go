package orders

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIURL overrides Options.APIURL.
	EnvAPIURL = "ORDERS_API_URL"
	// EnvSessionURL overrides Options.SessionURL.
	EnvSessionURL = "ORDERS_SESSION_URL"

	defaultAPIURL        = "http://localhost:8000/api"
	defaultPageSize      = 20
	defaultMaxPages      = 3
	defaultSearchDelayMs = 1000
	defaultTimeoutMs     = 60000
)

// Options defines the client configuration.
type Options struct {
	APIURL        string `yaml:"apiURL" json:"apiURL,omitempty" short:"u" long:"api-url" description:"order API base url"`
	SessionURL    string `yaml:"sessionURL,omitempty" json:"sessionURL,omitempty" short:"s" long:"session-url" description:"afs url session snapshots are kept under, memory only when empty"`
	PageSize      int    `yaml:"pageSize,omitempty" json:"pageSize,omitempty" long:"page-size" description:"items per page"`
	MaxPages      int    `yaml:"maxPages,omitempty" json:"maxPages,omitempty" long:"max-pages" description:"pages retained by the catalog window"`
	SearchDelayMs int    `yaml:"searchDelayMs,omitempty" json:"searchDelayMs,omitempty" long:"search-delay" description:"search debounce delay in ms"`
	TimeoutMs     int    `yaml:"timeoutMs,omitempty" json:"timeoutMs,omitempty" long:"timeout" description:"http request timeout in ms"`
	Tracing       bool   `yaml:"tracing,omitempty" json:"tracing,omitempty" long:"tracing" description:"enable opentelemetry tracing of API calls"`
	TraceStdout   bool   `yaml:"traceStdout,omitempty" json:"traceStdout,omitempty" long:"trace-stdout" description:"export spans to stderr"`

	// Token, if set, is sent with every list fetch instead of the session token.
	Token string `yaml:"-" json:"-" long:"token" description:"bearer token override"`
}

// Init applies environment overrides and defaults.
func (o *Options) Init() {
	if value := os.Getenv(EnvAPIURL); value != "" {
		o.APIURL = value
	}
	if value := os.Getenv(EnvSessionURL); value != "" {
		o.SessionURL = value
	}
	if o.APIURL == "" {
		o.APIURL = defaultAPIURL
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.SearchDelayMs <= 0 {
		o.SearchDelayMs = defaultSearchDelayMs
	}
	if o.TimeoutMs <= 0 {
		o.TimeoutMs = defaultTimeoutMs
	}
}

// SearchDelay returns the search debounce delay.
func (o *Options) SearchDelay() time.Duration {
	return time.Duration(o.SearchDelayMs) * time.Millisecond
}

// Timeout returns the http request timeout.
func (o *Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// LoadOptions reads YAML options from an afs URL (file path, file://, mem://, ...).
func LoadOptions(ctx context.Context, URL string) (*Options, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &Options{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}
