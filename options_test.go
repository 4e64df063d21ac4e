package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestLoadOptions(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/orders/config.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0o644, strings.NewReader(`
apiURL: http://api.local/api
pageSize: 10
maxPages: 5
tracing: true
`)))
	options, err := LoadOptions(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, "http://api.local/api", options.APIURL)
	assert.Equal(t, 10, options.PageSize)
	assert.Equal(t, 5, options.MaxPages)
	assert.True(t, options.Tracing)

	_, err = LoadOptions(ctx, "mem://localhost/orders/missing.yaml")
	assert.Error(t, err)
}

func TestOptions_Init(t *testing.T) {
	testCases := []struct {
		description string
		options     Options
		env         map[string]string
		expect      Options
	}{
		{
			description: "defaults",
			expect:      Options{APIURL: defaultAPIURL, PageSize: 20, MaxPages: 3, SearchDelayMs: 1000, TimeoutMs: 60000},
		},
		{
			description: "env overrides file",
			options:     Options{APIURL: "http://file/api", PageSize: 5},
			env:         map[string]string{EnvAPIURL: "http://env/api", EnvSessionURL: "mem://localhost/session"},
			expect:      Options{APIURL: "http://env/api", SessionURL: "mem://localhost/session", PageSize: 5, MaxPages: 3, SearchDelayMs: 1000, TimeoutMs: 60000},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			t.Setenv(EnvAPIURL, "")
			t.Setenv(EnvSessionURL, "")
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			options := testCase.options
			options.Init()
			assert.Equal(t, testCase.expect, options)
		})
	}
}
