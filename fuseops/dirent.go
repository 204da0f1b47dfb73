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

package fuseops

import (
	"strings"
	"time"
	"unsafe"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// Dirent is a single entry a ReadDir implementation reports back, in the
// order it should be listed.
//
// Offset is the value the kernel will pass back as OpReadDir.Offset on the
// next call if it wants to resume right after this entry. There is no
// artificial limit on Name's length beyond what fits in a uint32 and in the
// caller-supplied destination buffer; this is a deliberate relaxation of
// drafts of this protocol that imposed PATH_MAX-1.
type Dirent struct {
	Offset DirOffset
	Inode  InodeID
	Name   string
	Type   DirentType
}

// direntAlign is the byte alignment every on-wire directory entry,
// including its trailing name and padding, must satisfy.
const direntAlign = fusekernel.DirentAlign

// AppendDirent appends d's wire representation to buf and returns the
// result. It reports false (and returns buf unmodified) if d does not fit
// in cap(buf)-len(buf), the same "didn't fit, stop filling this page"
// signal callers of the kernel's own readdir buffer rely on.
func AppendDirent(buf []byte, d Dirent) ([]byte, bool) {
	const headerSize = int(unsafe.Sizeof(fusekernel.Dirent{}))

	if strings.IndexByte(d.Name, 0) != -1 {
		return buf, false
	}

	namelen := len(d.Name)
	recLen := headerSize + namelen
	padded := (recLen + direntAlign - 1) &^ (direntAlign - 1)

	if len(buf)+padded > cap(buf) {
		return buf, false
	}

	start := len(buf)
	buf = buf[:start+padded]

	hdr := (*fusekernel.Dirent)(unsafe.Pointer(&buf[start]))
	hdr.Ino = uint64(d.Inode)
	hdr.Off = uint64(d.Offset)
	hdr.Namelen = uint32(namelen)
	hdr.Type = uint32(d.Type)

	copy(buf[start+headerSize:], d.Name)
	for i := start + headerSize + namelen; i < start+padded; i++ {
		buf[i] = 0
	}

	return buf, true
}

// DirentPlus is the FUSE_READDIRPLUS counterpart of Dirent: it carries a
// full ChildInodeEntry alongside the listing, letting the kernel populate
// its dcache without a follow-up LOOKUP per entry.
type DirentPlus struct {
	Dirent Dirent
	Entry  ChildInodeEntry
}

// AppendDirentPlus is the FUSE_READDIRPLUS analogue of AppendDirent: it
// prepends a fusekernel.EntryOut to each record before the fixed dirent
// header, per fuse_kernel.h's fuse_direntplus layout. now is used to
// convert the entry's absolute expiry times into the kernel's
// relative-seconds-remaining form.
func AppendDirentPlus(buf []byte, d DirentPlus, now time.Time) ([]byte, bool) {
	const entrySize = int(unsafe.Sizeof(fusekernel.EntryOut{}))
	const headerSize = int(unsafe.Sizeof(fusekernel.Dirent{}))

	if strings.IndexByte(d.Dirent.Name, 0) != -1 {
		return buf, false
	}

	namelen := len(d.Dirent.Name)
	recLen := entrySize + headerSize + namelen
	padded := (recLen + direntAlign - 1) &^ (direntAlign - 1)

	if len(buf)+padded > cap(buf) {
		return buf, false
	}

	start := len(buf)
	buf = buf[:start+padded]

	entry := (*fusekernel.EntryOut)(unsafe.Pointer(&buf[start]))
	*entry = toEntryOut(d.Entry, now)

	hdr := (*fusekernel.Dirent)(unsafe.Pointer(&buf[start+entrySize]))
	hdr.Ino = uint64(d.Dirent.Inode)
	hdr.Off = uint64(d.Dirent.Offset)
	hdr.Namelen = uint32(namelen)
	hdr.Type = uint32(d.Dirent.Type)

	copy(buf[start+entrySize+headerSize:], d.Dirent.Name)
	for i := start + entrySize + headerSize + namelen; i < start+padded; i++ {
		buf[i] = 0
	}

	return buf, true
}
