//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package streamdl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := &Counter{}
	require.Zero(t, c.Total())

	c.Init(10)
	c.Update(make([]byte, 4))
	require.Equal(t, int64(4), c.Completed())
	c.Update(make([]byte, 4))
	c.Update(make([]byte, 4))
	require.Equal(t, int64(10), c.Completed())
	require.Equal(t, int64(10), c.Total())

	// a new download starts from scratch
	c.Init(3)
	require.Zero(t, c.Completed())
	require.Equal(t, int64(3), c.Total())

	c.Init(0)
	c.Update(make([]byte, 4))
	require.Equal(t, int64(4), c.Completed())
}

func TestProgressFunc(t *testing.T) {
	var got [][2]int64
	p := NewProgressFunc(func(completed, total int64) {
		got = append(got, [2]int64{completed, total})
	})
	p.Init(5)
	p.Update([]byte("abc"))
	p.Update([]byte("def"))
	require.Equal(t, [][2]int64{{3, 5}, {5, 5}}, got)

	// no clamping without a declared size
	got = nil
	p.Init(0)
	p.Update([]byte("abc"))
	require.Equal(t, [][2]int64{{3, 0}}, got)
}

func TestCollector(t *testing.T) {
	c := &Collector{}
	c.Init(6)
	chunk := []byte("abc")
	c.Update(chunk)
	copy(chunk, "xyz")
	c.Update(chunk)
	require.Equal(t, []byte("abcxyz"), c.Bytes())
	require.Equal(t, 6, c.Len())

	c.Init(1 << 40)
	require.Zero(t, c.Len())
}

func TestMultiProgress(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := MultiProgress(a, Discard, b)
	m.Init(3)
	m.Update([]byte("x"))
	m.Update([]byte("yz"))
	for _, r := range []*recorder{a, b} {
		require.Equal(t, []string{"init", "update", "update"}, r.calls)
		require.Equal(t, []int{1, 2}, r.sizes)
		require.Equal(t, "xyz", r.data.String())
	}
}
