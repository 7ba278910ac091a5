package apierror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mdnkit/go-libmdn/apierror"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := apierror.New(errors.New("test error"), 0)
	require.Equal(t, "test error", err.Error())

	err = apierror.New(nil, http.StatusNotFound)
	require.Equal(t, fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)), err.Error())

	err = apierror.New(nil, 0)
	require.Equal(t, "", err.Error())

	err = apierror.New(nil, 999)
	require.Equal(t, "999", err.Error())
}

func TestFromResponse(t *testing.T) {
	err := apierror.FromResponse(0, []byte(" hello world\n"))
	require.Equal(t, "hello world", err.Error())

	err = apierror.FromResponse(http.StatusTeapot, []byte(" hello world\n"))
	require.Equal(t, "hello world", err.Error())

	var ae *apierror.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusTeapot, ae.Status())

	err = apierror.FromResponse(http.StatusTeapot, nil)
	require.Equal(t, fmt.Sprintf("%d %s", http.StatusTeapot, http.StatusText(http.StatusTeapot)), err.Error())
}

func TestFromTransport(t *testing.T) {
	require.NoError(t, apierror.FromTransport(nil))

	errDial := errors.New("connection refused")
	err := apierror.FromTransport(errDial)
	require.ErrorIs(t, err, errDial)

	var ae *apierror.Error
	require.ErrorAs(t, err, &ae)
	require.Zero(t, ae.Status())
}

func TestIsNotFound(t *testing.T) {
	require.True(t, apierror.IsNotFound(apierror.New(nil, http.StatusNotFound)))
	require.True(t, apierror.IsNotFound(fmt.Errorf("wrapped: %w", apierror.New(nil, http.StatusNotFound))))
	require.False(t, apierror.IsNotFound(apierror.New(nil, http.StatusBadGateway)))
	require.False(t, apierror.IsNotFound(errors.New("404")))
}

func TestDecodeError(t *testing.T) {
	var v map[string]any
	jsonErr := json.Unmarshal([]byte("{not json"), &v)
	require.Error(t, jsonErr)

	err := apierror.NewDecodeError("/docs/Web/CSS", jsonErr)
	require.ErrorContains(t, err, "cannot decode /docs/Web/CSS")
	require.ErrorIs(t, err, jsonErr)

	var de *apierror.DecodeError
	require.ErrorAs(t, fmt.Errorf("read: %w", err), &de)
	require.Equal(t, "/docs/Web/CSS", de.Source)

	err = apierror.NewDecodeError("", jsonErr)
	require.ErrorContains(t, err, "cannot decode: ")
}

func TestUnwrap(t *testing.T) {
	errEOF := errors.New("end of file")
	err := apierror.New(errEOF, 0)
	require.ErrorIs(t, err, errEOF)
}
