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
	"reflect"
	"unsafe"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// Encoder is the capability a reply value implements to push its on-wire
// representation onto an outgoing message, possibly as more than one
// fragment (e.g. a fixed header followed by a borrowed data blob, so the
// blob need not be copied).
type Encoder interface {
	// CollectBytes appends this value's wire fragments, in order, to sink.
	CollectBytes(sink *FragmentSink)
}

// FragmentSink accumulates the byte-slice fragments of a single reply ahead
// of a vectored write. It is the Go analogue of the `C: Extend<IoSlice>`
// container the Rust Encode trait is generic over.
type FragmentSink struct {
	fragments [][]byte
}

// Add appends one fragment. The fragment is not copied; it must remain
// valid until the sink is flushed by a writer.
func (s *FragmentSink) Add(b []byte) {
	if len(b) == 0 {
		return
	}
	s.fragments = append(s.fragments, b)
}

// Fragments returns the accumulated fragments in push order.
func (s *FragmentSink) Fragments() [][]byte {
	return s.fragments
}

// Len returns the total byte count across all fragments.
func (s *FragmentSink) Len() int {
	n := 0
	for _, f := range s.fragments {
		n += len(f)
	}
	return n
}

// AsAbiBytes reinterprets raw's storage as a byte slice with no copy. The
// result aliases raw and must not outlive it.
func AsAbiBytes[T fusekernel.AbiRecord](raw *T) []byte {
	return fusekernel.AsBytes(raw)
}

// AddRecord is a convenience wrapper for the common case of a reply
// fragment that is a single fixed-layout ABI record.
func AddRecord[T fusekernel.AbiRecord](sink *FragmentSink, raw *T) {
	sink.Add(AsAbiBytes(raw))
}

// AddCBytes appends a NUL-terminated byte string as a fragment, including
// the trailing NUL, mirroring how directory-entry and symlink-target
// replies carry embedded names on the wire.
func AddCBytes(sink *FragmentSink, s string) {
	b := make([]byte, len(s)+1)
	copy(b, s)
	sink.Add(b)
}

// stringBytes returns a zero-copy view of s's bytes, without the trailing
// NUL AddCBytes adds; used where a fragment must carry a string verbatim
// (e.g. read data that happens to come from a string source).
func stringBytes(s string) []byte {
	var b []byte
	strHeader := (*reflect.StringHeader)(unsafe.Pointer(&s))
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = strHeader.Data
	sh.Len = strHeader.Len
	sh.Cap = strHeader.Len
	return b
}
