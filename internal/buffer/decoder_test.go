// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buffer

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

func alignedBuf(n int) []byte {
	ab := NewAlignedBytes(n, 4096)
	ab.SetLen(n)
	return ab.Bytes()
}

func TestDecoderFetchSucceeds(t *testing.T) {
	buf := alignedBuf(int(unsafe.Sizeof(fusekernel.InHeader{})))
	h := (*fusekernel.InHeader)(unsafe.Pointer(&buf[0]))
	h.Len = uint32(len(buf))
	h.Opcode = uint32(fusekernel.OpGetattr)
	h.Unique = 42

	d := NewDecoder(buf)
	got, err := Fetch[fusekernel.InHeader](&d)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Unique)
	assert.Equal(t, 0, d.Remaining())
}

func TestDecoderFetchNotEnough(t *testing.T) {
	buf := make([]byte, 4)
	d := NewDecoder(buf)
	_, err := Fetch[fusekernel.InHeader](&d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotEnough))
}

func TestDecoderFetchAlignMismatch(t *testing.T) {
	// fusekernel.Attr requires 8-byte alignment; offset the buffer so the
	// fetch cursor starts 4 bytes into an aligned allocation.
	ab := NewAlignedBytes(4096, 4096)
	ab.SetLen(4096)
	buf := ab.Bytes()[4:]

	d := NewDecoder(buf)
	_, err := Fetch[fusekernel.Attr](&d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlignMismatch))
}

func TestDecoderFetchSliceOverflow(t *testing.T) {
	buf := alignedBuf(64)
	d := NewDecoder(buf)
	_, err := FetchSlice[fusekernel.ForgetOne](&d, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNumOverflow))
}

func TestDecoderFetchCBytes(t *testing.T) {
	buf := alignedBuf(8)
	copy(buf, "ab\x00cdef")

	d := NewDecoder(buf)
	cb, err := d.FetchCBytes()
	require.NoError(t, err)
	assert.Equal(t, "ab", string(cb))
	assert.Equal(t, 4, d.Remaining())
}

func TestDecoderFetchCBytesNoNul(t *testing.T) {
	buf := alignedBuf(4)
	copy(buf, "abcd")

	d := NewDecoder(buf)
	_, err := d.FetchCBytes()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotEnough))
}

func TestAllConsumingSucceeds(t *testing.T) {
	buf := alignedBuf(8)
	d := NewDecoder(buf)

	err := AllConsuming(&d, func(d *Decoder) error {
		d.FetchAll()
		return nil
	})
	require.NoError(t, err)
}

func TestAllConsumingTooMuchData(t *testing.T) {
	// InterruptIn is 8 bytes; leave 8 more bytes unconsumed.
	buf := alignedBuf(16)
	d := NewDecoder(buf)

	err := AllConsuming(&d, func(d *Decoder) error {
		_, ferr := Fetch[fusekernel.InterruptIn](d)
		require.NoError(t, ferr)
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooMuchData))
}
