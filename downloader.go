//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package streamdl

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

// UserAgent is sent with every request.
const UserAgent = "Downloader"

const readBufferSize = 32 * 1024

// session is a response ready to be streamed, together with the size
// declared by the server.
type session struct {
	resp    *http.Response
	size    int64
	log     Logger
	release func()
}

// identityTransport returns a copy of rt that doesn't ask for compressed
// responses, otherwise the transport decompresses the body on the fly and
// drops the Content-Length. Transports other than *http.Transport are
// returned as is. The returned func closes the idle connections of the copy.
func identityTransport(rt http.RoundTripper) (http.RoundTripper, func()) {
	if rt == nil {
		rt = http.DefaultTransport
	}
	tr, ok := rt.(*http.Transport)
	if !ok || tr.DisableCompression {
		return rt, func() {}
	}
	tr = tr.Clone()
	tr.DisableCompression = true
	return tr, tr.CloseIdleConnections
}

// open performs the GET request and extracts the declared size. On error
// the response, if any, is already closed.
func open(ctx context.Context, reqURL string, config *Config) (*session, error) {
	log := config.logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("User-Agent", UserAgent)

	log.Debugf("GET %s", reqURL)
	client := config.HttpClient
	transport, release := identityTransport(client.Transport)
	client.Transport = transport
	resp, err := client.Do(req)
	if err != nil {
		release()
		return nil, transportError(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		discardBody(resp)
		release()
		return nil, statusError(resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		discardBody(resp)
		release()
		return nil, &Error{Kind: KindGetTotalSize}
	}
	log.Debugf("%s: %d %s, declared size %d", reqURL, resp.StatusCode, http.StatusText(resp.StatusCode), resp.ContentLength)

	return &session{
		resp:    resp,
		size:    resp.ContentLength,
		log:     log,
		release: release,
	}, nil
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (s *session) close() {
	_ = s.resp.Body.Close()
	s.release()
}

// stream reads the body until EOF. Each chunk is written to out (if not nil)
// and then passed to progress, before the next chunk is requested. It returns
// the number of bytes received.
func (s *session) stream(out io.Writer, progress Progress) (int64, error) {
	in := s.resp.Body
	buff := make([]byte, readBufferSize)
	var received int64
	for {
		n, err := in.Read(buff)
		if n > 0 {
			chunk := buff[:n]
			if out != nil {
				if _, werr := out.Write(chunk); werr != nil {
					return received, fileError(werr)
				}
			}
			received += int64(n)
			progress.Update(chunk)
		}
		if err == io.EOF {
			return received, nil
		}
		if err != nil {
			return received, transportError(err)
		}
	}
}

// DownloadFile downloads the specified url in the specified file, using the
// default configuration. An existing file is overwritten.
func DownloadFile(file string, reqURL string, progress Progress) error {
	return DownloadFileWithConfig(file, reqURL, progress, GetDefaultConfig())
}

// DownloadFileWithConfig downloads the specified url in the specified file
// using the given configuration.
func DownloadFileWithConfig(file string, reqURL string, progress Progress, config Config) error {
	return DownloadFileWithConfigAndContext(context.Background(), file, reqURL, progress, config)
}

// DownloadFileWithConfigAndContext downloads the specified url in the
// specified file using the given configuration and context.
//
// The file is created only after the server answered with a valid status and
// a Content-Length. progress.Init is called after the file has been created.
// If the download fails midway the partially written file is left on disk.
// The number of bytes received is not checked against the declared size.
func DownloadFileWithConfigAndContext(ctx context.Context, file string, reqURL string, progress Progress, config Config) error {
	s, err := open(ctx, reqURL, &config)
	if err != nil {
		return err
	}
	defer s.close()

	out, err := os.Create(file)
	if err != nil {
		return fileError(err)
	}
	s.log.Debugf("writing %s", file)

	progress.Init(s.size)
	received, err := s.stream(out, progress)
	if err != nil {
		_ = out.Close()
		s.log.Debugf("%s: failed after %d bytes: %s", reqURL, received, err)
		return err
	}
	if err := out.Close(); err != nil {
		return fileError(err)
	}
	s.log.Debugf("%s: completed, %d bytes written to %s", reqURL, received, file)
	return nil
}

// DownloadBuffer downloads the specified url without storing it, every chunk
// is passed only to progress. It uses the default configuration.
func DownloadBuffer(reqURL string, progress Progress) error {
	return DownloadBufferWithConfig(reqURL, progress, GetDefaultConfig())
}

// DownloadBufferWithConfig is DownloadBuffer using the given configuration.
func DownloadBufferWithConfig(reqURL string, progress Progress, config Config) error {
	return DownloadBufferWithConfigAndContext(context.Background(), reqURL, progress, config)
}

// DownloadBufferWithConfigAndContext is DownloadBuffer using the given
// configuration and context. Use a Collector as progress to keep the data.
func DownloadBufferWithConfigAndContext(ctx context.Context, reqURL string, progress Progress, config Config) error {
	s, err := open(ctx, reqURL, &config)
	if err != nil {
		return err
	}
	defer s.close()

	progress.Init(s.size)
	received, err := s.stream(nil, progress)
	if err != nil {
		s.log.Debugf("%s: failed after %d bytes: %s", reqURL, received, err)
		return err
	}
	s.log.Debugf("%s: completed, %d bytes received", reqURL, received)
	return nil
}

// DownloadFileAndPoll downloads the specified url in the specified file and
// calls the poll function every interval time to report progress, and once
// more when the download ends. The download itself runs in a separate
// goroutine, poll is always called from the calling goroutine.
func DownloadFileAndPoll(ctx context.Context, file string, reqURL string, config Config, poll func(current, total int64), interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	counter := &Counter{}
	done := make(chan error, 1)
	go func() {
		done <- DownloadFileWithConfigAndContext(ctx, file, reqURL, counter, config)
	}()
	for {
		select {
		case <-t.C:
			poll(counter.Completed(), counter.Total())
		case err := <-done:
			poll(counter.Completed(), counter.Total())
			return err
		}
	}
}
