package httpjson_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mdnkit/go-libmdn/apierror"
	"github.com/mdnkit/go-libmdn/internal/httpjson"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "test", r.Header.Get("X-Client"))
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"name":"fetch"}`))
		case "/bad":
			w.Write([]byte(`{"name":`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	header := http.Header{}
	header.Set("X-Client", "test")
	c := httpjson.New(ts.Client(), header, httpjson.Retry{})

	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Get(context.Background(), ts.URL+"/ok", &v))
	require.Equal(t, "fetch", v.Name)

	err := c.Get(context.Background(), ts.URL+"/missing", &v)
	var ae *apierror.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusNotFound, ae.Status())

	err = c.Get(context.Background(), ts.URL+"/bad", &v)
	var de *apierror.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, ts.URL+"/bad", de.Source)
}

func TestGetTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	u := ts.URL
	ts.Close()

	c := httpjson.New(nil, nil, httpjson.Retry{})
	var v any
	err := c.Get(context.Background(), u, &v)
	var ae *apierror.Error
	require.ErrorAs(t, err, &ae)
	require.Zero(t, ae.Status())
}

func TestGetCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := httpjson.New(ts.Client(), nil, httpjson.Retry{})
	var v any
	err := c.Get(ctx, ts.URL, &v)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestGetRetry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[1,2,3]`))
	}))
	defer ts.Close()

	c := httpjson.New(ts.Client(), nil, httpjson.Retry{
		Max:     3,
		WaitMin: time.Millisecond,
		WaitMax: 5 * time.Millisecond,
	})
	var v []int
	require.NoError(t, c.Get(context.Background(), ts.URL, &v))
	require.Equal(t, []int{1, 2, 3}, v)
	require.Equal(t, int32(3), calls.Load())
}

func TestGetErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.Error(w, "document not found: /en-US/docs/Nope", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := httpjson.New(ts.Client(), nil, httpjson.Retry{})
	var v any
	err := c.Get(context.Background(), ts.URL+"/gone", &v)
	require.EqualError(t, err, "document not found: /en-US/docs/Nope")
	require.True(t, apierror.IsNotFound(err))

	err = c.Get(context.Background(), ts.URL+"/down", &v)
	require.EqualError(t, err, "502 Bad Gateway")
	require.False(t, apierror.IsNotFound(err))
}
