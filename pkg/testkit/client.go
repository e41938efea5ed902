package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Client fires requests at a handler through httptest and replays the cookies
// it receives, like a browser talking to the API.
type Client struct {
	t       testing.TB
	handler http.Handler
	cookies map[string]*http.Cookie
	Header  http.Header
}

func NewClient(t testing.TB, h http.Handler) *Client {
	return &Client{t: t, handler: h, cookies: map[string]*http.Cookie{}, Header: http.Header{}}
}

// Response is a recorded reply.
type Response struct {
	t    testing.TB
	Code int
	Body []byte
	HTTP *http.Response
}

// Do sends body (marshalled to JSON unless it is nil, a string or []byte).
func (c *Client) Do(method, path string, body any) *Response {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err, "testkit: marshal body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	res := rec.Result()

	for _, ck := range res.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}

	return &Response{t: c.t, Code: rec.Code, Body: rec.Body.Bytes(), HTTP: res}
}

func (c *Client) Get(path string) *Response            { return c.Do(http.MethodGet, path, nil) }
func (c *Client) Post(path string, body any) *Response { return c.Do(http.MethodPost, path, body) }
func (c *Client) Put(path string, body any) *Response  { return c.Do(http.MethodPut, path, body) }

// Cookie returns the cookie the client currently holds under name.
func (c *Client) Cookie(name string) (*http.Cookie, bool) {
	ck, ok := c.cookies[name]
	return ck, ok
}

// SetCookie plants a cookie as if the server had set it.
func (c *Client) SetCookie(name, value string) {
	c.cookies[name] = &http.Cookie{Name: name, Value: value}
}

// Decode unmarshals the body into dest, failing the test on bad JSON.
func (r *Response) Decode(dest any) {
	r.t.Helper()
	require.NoError(r.t, json.Unmarshal(r.Body, dest), "testkit: decode body %s", string(r.Body))
}

// Error returns the {"error"} message of a failed response.
func (r *Response) Error() string {
	r.t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.Decode(&body)
	return body.Error
}

// AssertStatus checks the status code and prints the body on mismatch.
func (r *Response) AssertStatus(want int) bool {
	r.t.Helper()
	return assert.Equal(r.t, want, r.Code, "body: %s", string(r.Body))
}

// AssertJSON compares the body to expected after normalising both through
// JSON, so key order and whitespace never matter.
func (r *Response) AssertJSON(expected string) bool {
	r.t.Helper()

	var want, got any
	require.NoError(r.t, json.Unmarshal([]byte(expected), &want), "testkit: expected is not valid JSON")
	if !assert.NoError(r.t, json.Unmarshal(r.Body, &got), "body is not JSON: %s", string(r.Body)) {
		return false
	}
	return assert.Equal(r.t, want, got)
}
