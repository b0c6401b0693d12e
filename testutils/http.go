package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// HTTPClient drives a handler over a real listener with a cookie jar, the way a browser would.
type HTTPClient struct {
	t       *testing.T
	client  *http.Client
	baseURL string
}

type Response struct {
	*http.Response
	Body []byte
}

func NewHTTPClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &HTTPClient{
		t:       t,
		client:  &http.Client{Jar: jar},
		baseURL: srv.URL,
	}
}

func (c *HTTPClient) Get(path string) *Response {
	return c.Request(http.MethodGet, path, nil, nil)
}

func (c *HTTPClient) Post(path string, body any) *Response {
	return c.Request(http.MethodPost, path, body, nil)
}

func (c *HTTPClient) Request(method, path string, body any, headers map[string]string) *Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return &Response{Response: resp, Body: data}
}

// Cookie returns the jar's current value for name, or "" once it has been cleared.
func (c *HTTPClient) Cookie(name string) string {
	u, err := url.Parse(c.baseURL)
	require.NoError(c.t, err)
	for _, cookie := range c.client.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func (r *Response) JSON(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func (r *Response) AssertStatus(t *testing.T, want int) {
	t.Helper()
	require.Equal(t, want, r.StatusCode, "unexpected status, body: %s", string(r.Body))
}
