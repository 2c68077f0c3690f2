package apiclient_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padbind/apiclient"
	"github.com/Alia5/padbind/apitypes"
)

type call struct {
	path    string
	payload any
	params  map[string]string
}

// testClient answers from responses keyed by path pattern and records calls.
// A non-nil err fails every request, like a dial error.
func testClient(responses map[string]string, err error, calls *[]call) *apiclient.Client {
	return apiclient.WithTransport(apiclient.NewMockTransport(func(path string, payload any, params map[string]string) (string, error) {
		if calls != nil {
			*calls = append(*calls, call{path, payload, params})
		}
		if err != nil {
			return "", err
		}
		return responses[path], nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]string
		err       error
		call      func(c *apiclient.Client) (any, error)
		want      any
		wantCall  call
		wantErr   string
	}{
		{
			name:      "ping",
			responses: map[string]string{"ping": `{"server":"padbind","version":"dev"}`},
			call:      func(c *apiclient.Client) (any, error) { return c.Ping() },
			want:      &apitypes.PingResponse{Server: "padbind", Version: "dev"},
			wantCall:  call{path: "ping"},
		},
		{
			name:      "bind next",
			responses: map[string]string{"pad/{port}/bind/{input}": `{"port":1,"bind":{"input":"a","key":2,"label":"B button","default":256,"defaultLabel":"A button","pressed":false}}`},
			call:      func(c *apiclient.Client) (any, error) { return c.PadBind(1, "a", apiclient.BindNext) },
			want: &apitypes.PadBindResponse{Port: 1, Bind: apitypes.PadBind{
				Input: "a", Key: 2, Label: "B button", Default: 256, DefaultLabel: "A button",
			}},
			wantCall: call{path: "pad/{port}/bind/{input}", payload: "inc", params: map[string]string{"port": "1", "input": "a"}},
		},
		{
			name:      "dpad",
			responses: map[string]string{"pad/{port}/dpad": `{"port":3,"dpadMode":"rstick","binds":[]}`},
			call:      func(c *apiclient.Client) (any, error) { return c.PadDpad(3, "rstick") },
			want:      &apitypes.PadBindsResponse{Port: 3, DpadMode: "rstick", Binds: []apitypes.PadBind{}},
			wantCall:  call{path: "pad/{port}/dpad", payload: "rstick", params: map[string]string{"port": "3"}},
		},
		{
			name:      "hotkeys",
			responses: map[string]string{"hotkeys": `{"lifecycle":4294967296,"pressed":["fast_forward_hold"]}`},
			call:      func(c *apiclient.Client) (any, error) { return c.Hotkeys() },
			want:      &apitypes.HotkeysResponse{Lifecycle: 1 << 32, Pressed: []string{"fast_forward_hold"}},
			wantCall:  call{path: "hotkeys"},
		},
		{
			name:      "structured error",
			responses: map[string]string{"pad/{port}/binds": `{"status":404,"title":"Not Found","detail":"port 9 not found"}`},
			call:      func(c *apiclient.Client) (any, error) { return c.PadBinds(9) },
			wantErr:   "404 Not Found: port 9 not found",
		},
		{
			name:    "transport error",
			err:     errors.New("dial fail"),
			call:    func(c *apiclient.Client) (any, error) { return c.PadList() },
			wantErr: "dial fail",
		},
		{
			name:    "empty response",
			call:    func(c *apiclient.Client) (any, error) { return c.Catalog() },
			wantErr: "empty response",
		},
		{
			name:      "unknown field",
			responses: map[string]string{"pad/{port}/defaults": `{"port":0,"dpadMode":"lstick","binds":[],"extra":true}`},
			call:      func(c *apiclient.Client) (any, error) { return c.PadDefaults(0) },
			wantErr:   "decode:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			got, err := tt.call(testClient(tt.responses, tt.err, &calls))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantCall.path, calls[0].path)
			assert.Equal(t, tt.wantCall.payload, calls[0].payload)
			if tt.wantCall.params != nil {
				assert.Equal(t, tt.wantCall.params, calls[0].params)
			}
		})
	}
}

func TestStructuredErrorIsApiError(t *testing.T) {
	c := testClient(map[string]string{"catalog": `{"status":500,"title":"Internal Server Error","detail":"engine: engine stopped"}`}, nil, nil)
	_, err := c.Catalog()
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
}
