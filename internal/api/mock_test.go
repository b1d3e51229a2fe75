package api

import (
	"io"
	"net/url"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser over fixed data that records Close
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient is a tls_client.HttpClient that answers every Do with
// the same response and keeps the last request and its body.
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	LastRequest *fhttp.Request
	LastBody    []byte
	Calls       int
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}
func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }
func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }
func (m *MockHttpClient) GetProxy() string { return "" }
func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}
func (m *MockHttpClient) GetFollowRedirect() bool { return false }
func (m *MockHttpClient) CloseIdleConnections() {}
func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }
func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) { return m.Response, m.Err }
func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) { return m.Response, m.Err }
func (m *MockHttpClient) Post(string, string, io.Reader) (*fhttp.Response, error) { return m.Response, m.Err }

func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if req.Body != nil {
		m.LastBody, _ = io.ReadAll(req.Body)
	}
	return m.Response, m.Err
}

// NewMockHttpClient creates a MockHttpClient returning body with the given
// status and content type
func NewMockHttpClient(body []byte, statusCode int, contentType string) *MockHttpClient {
	header := make(fhttp.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     header,
		},
	}
}

// NewMockHttpClientWithError creates a MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}

func newTestClient(t *testing.T, httpClient *MockHttpClient) *Client {
	t.Helper()
	c, err := NewClient("sk-test", WithHTTPClient(httpClient), WithBaseURL("https://api.example.com/v1/"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}
