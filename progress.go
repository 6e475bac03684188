//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package streamdl

import (
	"bytes"
	"sync"
)

// Progress receives the progress of a download.
//
// Init is called exactly once, with the size declared by the server, before
// the first call to Update. Update is called once per chunk received, in
// arrival order. The chunk is only valid for the duration of the call: an
// implementation that needs the bytes afterwards must copy them.
//
// Neither method can fail, an implementation must handle its own errors.
type Progress interface {
	Init(totalSize int64)
	Update(chunk []byte)
}

// Discard is a Progress that ignores everything.
var Discard Progress = discard{}

type discard struct{}

func (discard) Init(int64)    {}
func (discard) Update([]byte) {}

// ProgressFunc adapts a function to the Progress interface. The function is
// called after every chunk with the number of bytes received so far, clamped
// to the declared total when it is not 0, and the declared total.
type ProgressFunc func(completed, total int64)

// NewProgressFunc returns a Progress calling f after every chunk.
func NewProgressFunc(f ProgressFunc) Progress {
	return &funcProgress{f: f}
}

type funcProgress struct {
	f         ProgressFunc
	total     int64
	completed int64
}

func (p *funcProgress) Init(totalSize int64) {
	p.total = totalSize
	p.completed = 0
}

func (p *funcProgress) Update(chunk []byte) {
	p.completed = clamp(p.completed+int64(len(chunk)), p.total)
	p.f(p.completed, p.total)
}

func clamp(completed, total int64) int64 {
	if total > 0 {
		return min(completed, total)
	}
	return completed
}

// Counter is a Progress that counts the received bytes. Its getters may be
// called from other goroutines while the download is running.
type Counter struct {
	lock      sync.Mutex
	total     int64
	completed int64
}

func (c *Counter) Init(totalSize int64) {
	c.lock.Lock()
	c.total = totalSize
	c.completed = 0
	c.lock.Unlock()
}

// Update adds the chunk length, never going over a non zero declared total.
func (c *Counter) Update(chunk []byte) {
	c.lock.Lock()
	c.completed = clamp(c.completed+int64(len(chunk)), c.total)
	c.lock.Unlock()
}

// Completed returns the bytes read so far
func (c *Counter) Completed() int64 {
	c.lock.Lock()
	res := c.completed
	c.lock.Unlock()
	return res
}

// Total returns the size declared by the server, 0 before Init.
func (c *Counter) Total() int64 {
	c.lock.Lock()
	res := c.total
	c.lock.Unlock()
	return res
}

const maxPreallocation = 64 << 20

// Collector is a Progress that keeps a copy of every chunk, to be used with
// DownloadBuffer.
type Collector struct {
	buf bytes.Buffer
}

func (c *Collector) Init(totalSize int64) {
	c.buf.Reset()
	// the declared size comes from the server, don't trust it too much
	if totalSize > 0 && totalSize <= maxPreallocation {
		c.buf.Grow(int(totalSize))
	}
}

func (c *Collector) Update(chunk []byte) {
	_, _ = c.buf.Write(chunk)
}

// Bytes returns the data collected so far. The slice is valid until the
// next download using c.
func (c *Collector) Bytes() []byte {
	return c.buf.Bytes()
}

// Len returns the number of bytes collected.
func (c *Collector) Len() int {
	return c.buf.Len()
}

// MultiProgress returns a Progress that forwards every call to each of the
// given ones, in order.
func MultiProgress(progress ...Progress) Progress {
	all := make([]Progress, len(progress))
	copy(all, progress)
	return multiProgress(all)
}

type multiProgress []Progress

func (m multiProgress) Init(totalSize int64) {
	for _, p := range m {
		p.Init(totalSize)
	}
}

func (m multiProgress) Update(chunk []byte) {
	for _, p := range m {
		p.Update(chunk)
	}
}
