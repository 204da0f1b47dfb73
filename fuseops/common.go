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

// Package fuseops defines the typed operation and reply vocabulary that
// sits between the wire-level fusekernel records and a user-supplied
// FileSystem implementation. See the FileSystem interface for the
// boundary every supported kernel request crosses.
package fuseops

import (
	"time"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// InodeID is a kernel-assigned identifier for an inode, unique within one
// mounted file system.
type InodeID uint64

// RootInodeID is the fixed identifier of the root directory.
const RootInodeID = InodeID(fusekernel.RootID)

// HandleID is a file-system-assigned identifier for an open file or
// directory handle.
type HandleID uint64

// DirOffset is the opaque cursor a directory listing hands back to the
// kernel in a Dirent's Offset field, and receives back unchanged in the
// next OpReadDir.Offset. It is not necessarily a byte offset into anything;
// file systems may use it however they like, with zero meaning "start of
// directory" by protocol convention.
type DirOffset uint64

// GenerationNumber distinguishes reincarnations of the same InodeID (e.g.
// after an inode is forgotten and reused). File systems that never reuse
// InodeIDs may always return zero.
type GenerationNumber uint64

// InodeAttributes mirrors the subset of a stat(2) result FUSE cares about.
type InodeAttributes struct {
	Size   uint64
	Nlink  uint32
	Mode   uint32 // includes the file type bits, as in st_mode
	UID    uint32
	GID    uint32
	Rdev   uint32
	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
	Blocks uint64
}

// toFuseAttr converts a into the kernel's wire Attr for the given inode,
// rounding times down to the nearest second plus a nanosecond remainder,
// the same split the kernel's struct imposes.
func (a InodeAttributes) toFuseAttr(id InodeID) fusekernel.Attr {
	return fusekernel.Attr{
		Ino:       uint64(id),
		Size:      a.Size,
		Blocks:    a.Blocks,
		Atime:     uint64(a.Atime.Unix()),
		Mtime:     uint64(a.Mtime.Unix()),
		Ctime:     uint64(a.Ctime.Unix()),
		AtimeNsec: uint32(a.Atime.Nanosecond()),
		MtimeNsec: uint32(a.Mtime.Nanosecond()),
		CtimeNsec: uint32(a.Ctime.Nanosecond()),
		Mode:      a.Mode,
		Nlink:     a.Nlink,
		UID:       a.UID,
		GID:       a.GID,
		Rdev:      a.Rdev,
	}
}

// ConvertAttr is the inverse of toFuseAttr, used by tests and by file
// systems that want to inspect what a kernel Attr round-trips to.
func ConvertAttr(a *fusekernel.Attr) InodeAttributes {
	return InodeAttributes{
		Size:   a.Size,
		Nlink:  a.Nlink,
		Mode:   a.Mode,
		UID:    a.UID,
		GID:    a.GID,
		Rdev:   a.Rdev,
		Atime:  time.Unix(int64(a.Atime), int64(a.AtimeNsec)),
		Mtime:  time.Unix(int64(a.Mtime), int64(a.MtimeNsec)),
		Ctime:  time.Unix(int64(a.Ctime), int64(a.CtimeNsec)),
		Blocks: a.Blocks,
	}
}

// ChildInodeEntry is what a file system supplies in response to an
// operation that resolves or creates a name in a directory (LookUpInode,
// MkDir, MkNode, CreateFile, SymLink, Link).
type ChildInodeEntry struct {
	Child            InodeID
	Generation       GenerationNumber
	Attributes       InodeAttributes
	AttributesExpiry time.Time
	EntryExpiry      time.Time
}

func durationToKernel(d time.Time, now time.Time) (sec uint64, nsec uint32) {
	if d.Before(now) {
		return 0, 0
	}
	remaining := d.Sub(now)
	return uint64(remaining / time.Second), uint32(remaining % time.Second)
}

// toEntryOut builds the wire EntryOut for a resolved/created child inode,
// converting e's absolute expiry timestamps into the kernel's
// relative-seconds-remaining form as of now.
func toEntryOut(e ChildInodeEntry, now time.Time) fusekernel.EntryOut {
	entrySec, entryNsec := durationToKernel(e.EntryExpiry, now)
	attrSec, attrNsec := durationToKernel(e.AttributesExpiry, now)

	return fusekernel.EntryOut{
		Nodeid:         uint64(e.Child),
		Generation:     uint64(e.Generation),
		EntryValid:     entrySec,
		AttrValid:      attrSec,
		EntryValidNsec: entryNsec,
		AttrValidNsec:  attrNsec,
		Attr:           e.Attributes.toFuseAttr(e.Child),
	}
}

// OpHeader carries the fields common to every request, copied by value out
// of the request's fusekernel.InHeader so operation views remain usable
// after the backing buffer is released.
type OpHeader struct {
	Header fusekernel.InHeader
	ID     InodeID
	UID    uint32
	GID    uint32
	PID    uint32
}

// Unique returns the kernel-assigned request id this operation must be
// replied to with.
func (h OpHeader) Unique() uint64 { return h.Header.Unique }

func newOpHeader(h *fusekernel.InHeader) OpHeader {
	return OpHeader{
		Header: *h,
		ID:     InodeID(h.NodeID),
		UID:    h.UID,
		GID:    h.GID,
		PID:    h.PID,
	}
}
