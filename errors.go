//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package streamdl

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Kind is the class of a download failure. Kind implements error so it can
// be used as the target of errors.Is.
type Kind int

const (
	// KindURL is a request or redirect failure reported by the transport.
	KindURL Kind = iota + 1
	// KindStatus is a response carrying an error HTTP status.
	KindStatus
	// KindGetTotalSize is a response without a usable Content-Length.
	KindGetTotalSize
	// KindFileCreation is a failure creating or writing the destination file.
	KindFileCreation
	// KindUnknown is any other transport failure.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url error"
	case KindStatus:
		return "http status error"
	case KindGetTotalSize:
		return "missing content length"
	case KindFileCreation:
		return "file creation error"
	case KindUnknown:
		return "unknown error"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}

func (k Kind) Error() string {
	return k.String()
}

// Error is the only error type returned by the download functions.
type Error struct {
	Kind Kind
	// URL is the offending URL for KindURL errors, nil if not known.
	URL *url.URL
	// StatusCode is the offending status for KindStatus errors, 0 if not known.
	StatusCode int
	// Err is the immediate cause. For KindFileCreation it is the *fs.PathError
	// returned by the filesystem, use errors.Is(err, fs.ErrPermission) and
	// similar to inspect the failure category.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.StatusCode != 0:
		return fmt.Sprintf("%s: %d %s", e.Kind, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	case e.URL != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.URL)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// transportError classifies a failure coming from the HTTP client or from
// the response body.
func transportError(err error) *Error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		res := &Error{Kind: KindURL, Err: err}
		if urlErr.URL != "" {
			if u, perr := url.Parse(urlErr.URL); perr == nil {
				res.URL = u
			}
		}
		return res
	}
	return &Error{Kind: KindUnknown, Err: err}
}

func statusError(statusCode int) *Error {
	return &Error{Kind: KindStatus, StatusCode: statusCode}
}

func fileError(err error) *Error {
	return &Error{Kind: KindFileCreation, Err: err}
}
