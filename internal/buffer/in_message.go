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
	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// InMessage is an incoming message read from the kernel: a
// fusekernel.InHeader followed by an opcode-specific tail. It owns no
// storage of its own; it is a thin view over a caller-supplied
// AlignedBytes, reinitialized for every message read off the connection.
type InMessage struct {
	header *fusekernel.InHeader
	dec    Decoder
}

// Init parses buf's leading InHeader and prepares the remainder for
// decoding. buf must be the exact byte span the kernel wrote for one
// message (an AlignedBytes' Bytes() after SetLen). It fails with
// ErrNotEnough if buf is shorter than an InHeader, or if the header's
// declared Len disagrees with len(buf) — the invariant of spec.md §3.
func (m *InMessage) Init(buf []byte) error {
	d := NewDecoder(buf)

	h, err := Fetch[fusekernel.InHeader](&d)
	if err != nil {
		return err
	}

	if int(h.Len) != len(buf) {
		return notEnough(int(h.Len), len(buf))
	}

	m.header = h
	m.dec = d
	return nil
}

// Header returns the header parsed by the most recent call to Init.
func (m *InMessage) Header() *fusekernel.InHeader {
	return m.header
}

// Decoder returns the cursor positioned just after the header, ready to
// decode the opcode-specific tail via Fetch/FetchSlice/FetchCBytes.
func (m *InMessage) Decoder() *Decoder {
	return &m.dec
}
