//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Package streamdl streams an HTTP resource to a file or to an in-memory
// consumer, reporting progress chunk by chunk through a caller supplied
// Progress implementation.
//
// Every failure is reported as an *Error carrying one Kind, so callers can
// tell a bad URL from a rejected request or a filesystem problem:
//
//	err := streamdl.DownloadFile("out.bin", "https://example.com/big.bin", &streamdl.Counter{})
//	if errors.Is(err, streamdl.KindStatus) {
//		...
//	}
package streamdl
