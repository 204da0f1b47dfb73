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
	"fmt"
	"reflect"
	"unsafe"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// OutMessageHeaderSize is the size of the leading header in every
// properly-constructed OutMessage. Reset brings the message back to this
// size.
const OutMessageHeaderSize = int(unsafe.Sizeof(fusekernel.OutHeader{}))

// MaxReadSize bounds the payload an OutMessage can carry: the largest read
// reply body the kernel will ever ask for, plus slack for header-sized
// replies that exceed a bare struct (e.g. a full page of directory
// entries). It matches the configured buffer_size of spec.md §6.
const MaxReadSize = 128*1024 + 512

// OutMessage provides a mechanism for constructing a single contiguous fuse
// reply message from multiple appended segments, where the leading segment
// is always a fusekernel.OutHeader.
//
// Must be initialized with Reset before use; the zero value's header is
// unusable until then.
type OutMessage struct {
	buf [OutMessageHeaderSize + MaxReadSize]byte
	len int
}

// Reset resets m so it is ready to be reused. Afterward its contents are
// solely a zeroed fusekernel.OutHeader.
func (m *OutMessage) Reset() {
	for i := 0; i < OutMessageHeaderSize; i++ {
		m.buf[i] = 0
	}
	m.len = OutMessageHeaderSize
}

// OutHeader returns a pointer to the header at the start of the message.
func (m *OutMessage) OutHeader() *fusekernel.OutHeader {
	return (*fusekernel.OutHeader)(unsafe.Pointer(&m.buf[0]))
}

// Grow grows m's buffer by n bytes, returning a pointer to the start of the
// new, zeroed segment. It returns nil if there is not enough room.
func (m *OutMessage) Grow(n int) unsafe.Pointer {
	p := m.GrowNoZero(n)
	if p == nil {
		return nil
	}
	zero := (*[1 << 30]byte)(p)[:n:n]
	for i := range zero {
		zero[i] = 0
	}
	return p
}

// GrowNoZero is equivalent to Grow, except the new segment's contents are
// left as whatever was previously in the buffer. Use with caution.
func (m *OutMessage) GrowNoZero(n int) unsafe.Pointer {
	if n < 0 || m.len+n > len(m.buf) {
		return nil
	}
	p := unsafe.Pointer(&m.buf[m.len])
	m.len += n
	return p
}

// ShrinkTo shrinks m to size n. It panics if n is greater than Len() or
// less than OutMessageHeaderSize.
func (m *OutMessage) ShrinkTo(n int) {
	if n < OutMessageHeaderSize || n > m.len {
		panic(fmt.Sprintf("ShrinkTo(%d): out of range (header %d, current %d)", n, OutMessageHeaderSize, m.len))
	}
	m.len = n
}

// Append grows m by len(src) and copies src over the new segment. It
// panics if there is not enough room.
func (m *OutMessage) Append(src []byte) {
	p := m.GrowNoZero(len(src))
	if p == nil {
		panic(fmt.Sprintf("can't grow %d bytes", len(src)))
	}
	dst := (*[1 << 30]byte)(p)[:len(src):len(src)]
	copy(dst, src)
}

// AppendString is like Append, but accepts string input without forcing the
// caller to convert it to a []byte first.
func (m *OutMessage) AppendString(src string) {
	p := m.GrowNoZero(len(src))
	if p == nil {
		panic(fmt.Sprintf("can't grow %d bytes", len(src)))
	}
	dst := (*[1 << 30]byte)(p)[:len(src):len(src)]
	copy(dst, src)
}

// Len returns the current size of the message, including the leading
// header.
func (m *OutMessage) Len() int {
	return m.len
}

// Bytes returns a reference to the current contents of the buffer,
// including the leading header. The returned slice aliases m and is
// invalidated by the next Reset/Grow/ShrinkTo call.
func (m *OutMessage) Bytes() []byte {
	l := m.len
	sh := reflect.SliceHeader{
		Data: uintptr(unsafe.Pointer(&m.buf[0])),
		Len:  l,
		Cap:  l,
	}
	return *(*[]byte)(unsafe.Pointer(&sh))
}

// WriteFragments appends the fragments of a FragmentSink to m, returning
// the slices needed to write the whole reply (the header plus each
// fragment) without copying the fragments into m. This is the path
// ReplyContext.reply uses: the header is built in-place via OutHeader,
// while the body fragments — which may alias borrowed request or
// filesystem-owned data — are passed straight through to the vectored
// write.
func (m *OutMessage) WriteFragments(sink *FragmentSink) [][]byte {
	out := make([][]byte, 0, 1+len(sink.Fragments()))
	out = append(out, m.Bytes())
	out = append(out, sink.Fragments()...)
	return out
}
