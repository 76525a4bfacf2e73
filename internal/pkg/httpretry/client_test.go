package httpretry

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDoer struct {
	statuses []int
	calls    int
}

func (s *scriptedDoer) Do(*http.Request) (*http.Response, error) {
	status := s.statuses[s.calls]
	s.calls++
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     make(http.Header),
	}, nil
}

func fastRetryClient(doer HTTPDoer, maxRetries int) *RetryClient {
	rc := NewRetryClient(doer, maxRetries)
	rc.baseDelay = time.Millisecond
	rc.maxDelay = time.Millisecond
	return rc
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://example.com/x", nil)
	require.NoError(t, err)
	return req
}

func TestRetryClient_RetriesServerErrors(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{502, 500, 200}}

	resp, err := fastRetryClient(doer, 3).Do(newRequest(t))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 3, doer.calls)
}

func TestRetryClient_NoRetryOnClientError(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{404}}

	resp, err := fastRetryClient(doer, 3).Do(newRequest(t))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, 1, doer.calls)
}

func TestRetryClient_ExhaustedRetriesReturnLastResponse(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{503, 503, 503}}

	resp, err := fastRetryClient(doer, 2).Do(newRequest(t))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 3, doer.calls)
}

func TestRetryClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := newRequest(t).WithContext(ctx)

	doer := &scriptedDoer{statuses: []int{200}}
	_, err := fastRetryClient(doer, 3).Do(req)
	assert.Error(t, err)
	assert.Equal(t, 0, doer.calls)
}

func TestCalculateDelay_Bounds(t *testing.T) {
	rc := NewRetryClient(nil, 3)
	for attempt := 1; attempt <= 5; attempt++ {
		d := rc.calculateDelay(attempt)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, rc.maxDelay)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, isRetryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404} {
		assert.False(t, isRetryableStatus(code), "status %d", code)
	}
}
