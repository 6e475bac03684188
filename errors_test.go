//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package streamdl

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	u, err := url.Parse("asd://go.bug.st/test.txt")
	require.NoError(t, err)

	testCases := map[string]struct {
		err      *Error
		expected string
	}{
		"status":             {err: statusError(403), expected: "http status error: 403 Forbidden"},
		"status unknown":     {err: &Error{Kind: KindStatus}, expected: "http status error"},
		"total size":         {err: &Error{Kind: KindGetTotalSize}, expected: "missing content length"},
		"url without cause":  {err: &Error{Kind: KindURL, URL: u}, expected: "url error: asd://go.bug.st/test.txt"},
		"unknown with cause": {err: &Error{Kind: KindUnknown, Err: io.ErrUnexpectedEOF}, expected: "unknown error: unexpected EOF"},
		"file":               {err: fileError(&fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}), expected: "file creation error: open /x: permission denied"},
		"invalid kind":       {err: &Error{}, expected: "invalid kind 0"},
	}
	for scenario, tc := range testCases {
		t.Run(scenario, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}
	var err error = fileError(cause)

	require.ErrorIs(t, err, KindFileCreation)
	require.NotErrorIs(t, err, KindURL)
	require.ErrorIs(t, err, fs.ErrPermission)
	require.Equal(t, cause, errors.Unwrap(err))

	wrapped := errors.Join(errors.New("context"), statusError(500))
	require.ErrorIs(t, wrapped, KindStatus)
	var dlErr *Error
	require.ErrorAs(t, wrapped, &dlErr)
	require.Equal(t, 500, dlErr.StatusCode)
}

func TestTransportErrorClassification(t *testing.T) {
	urlErr := &url.Error{Op: "Get", URL: "http://example.com/a?b=c", Err: errors.New("dial tcp: connection refused")}
	e := transportError(urlErr)
	require.Equal(t, KindURL, e.Kind)
	require.NotNil(t, e.URL)
	require.Equal(t, "example.com", e.URL.Host)
	require.Equal(t, "c", e.URL.Query().Get("b"))
	require.Equal(t, error(urlErr), e.Err)

	e = transportError(&url.Error{Op: "parse", URL: "http://[::1", Err: errors.New("missing ']' in host")})
	require.Equal(t, KindURL, e.Kind)
	require.Nil(t, e.URL)

	e = transportError(io.ErrUnexpectedEOF)
	require.Equal(t, KindUnknown, e.Kind)
	require.Nil(t, e.URL)
	require.ErrorIs(t, e, io.ErrUnexpectedEOF)
}
