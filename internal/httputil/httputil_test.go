// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Success(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("hello"))
	}))
	defer ts.Close()

	resp, err := Get(context.Background(), ts.Client(), ts.URL, "arxiv-extract-test/0.1", "application/pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "arxiv-extract-test/0.1", gotUA)
	assert.Equal(t, "application/pdf", gotAccept)
}

func TestGet_NonOKStatus(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("  try later \n"))
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL+"/pdf/1234.5678", "", "")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, ts.URL+"/pdf/1234.5678", se.URL)
	assert.Equal(t, "try later", se.Body)
	assert.Contains(t, err.Error(), "HTTP 503")

	// Failed requests are not retried.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_OmitsEmptyHeaders(t *testing.T) {
	var hasAccept bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAccept = r.Header["Accept"]
	}))
	defer ts.Close()

	resp, err := Get(context.Background(), ts.Client(), ts.URL, "ua", "")
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, hasAccept)
}

func TestGet_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get(ctx, ts.Client(), ts.URL, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStatusError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  StatusError
		want string
	}{
		{"no body", StatusError{URL: "https://x/y", StatusCode: 404}, "HTTP 404 from https://x/y"},
		{"with body", StatusError{URL: "https://x/y", StatusCode: 500, Body: "boom"}, "HTTP 500 from https://x/y: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
