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

// Package fusekernel mirrors the wire structures of the Linux kernel's FUSE
// protocol, byte for byte. Every exported struct here has the same field
// order, width and padding as the corresponding struct in the kernel's
// fuse_kernel.h, so that a correctly-aligned prefix of a request buffer can
// be reinterpreted as one of these types without copying.
//
// Source of truth: libfuse's include/fuse_kernel.h, protocol major version
// 7, minor version 31.
package fusekernel

// KernelVersion is the major version number of the FUSE wire protocol this
// package implements.
const KernelVersion = 7

// KernelMinorVersion is the minor version number of the FUSE wire protocol
// this package implements.
const KernelMinorVersion = 31

// MinKernelMinorVersion is the oldest minor version this package will
// happily talk to.
const MinKernelMinorVersion = 13

// RootID is the node ID of the root inode of a mounted file system.
const RootID = 1

// Protocol is a (major, minor) FUSE protocol version pair.
type Protocol struct {
	Major uint32
	Minor uint32
}

// LT reports whether p is strictly older than other.
func (p Protocol) LT(other Protocol) bool {
	return p.Major < other.Major ||
		(p.Major == other.Major && p.Minor < other.Minor)
}

// GE reports whether p is at least as new as other.
func (p Protocol) GE(other Protocol) bool {
	return !p.LT(other)
}

// Attr mirrors struct fuse_attr. All of the kernel's structs are padded to a
// 64-bit boundary so that 32-bit userspace keeps working under a 64-bit
// kernel; the padding field below exists for that reason, not because Go
// needs it.
type Attr struct {
	Ino       uint64
	Size      uint64
	Blocks    uint64
	Atime     uint64
	Mtime     uint64
	Ctime     uint64
	AtimeNsec uint32
	MtimeNsec uint32
	CtimeNsec uint32
	Mode      uint32
	Nlink     uint32
	UID       uint32
	GID       uint32
	Rdev      uint32
	BlkSize   uint32
	Padding   uint32
}

// Kstatfs mirrors struct fuse_kstatfs.
type Kstatfs struct {
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Bsize   uint32
	Namelen uint32
	Frsize  uint32
	Padding uint32
	Spare   [6]uint32
}

// FileLock mirrors struct fuse_file_lock.
type FileLock struct {
	Start uint64
	End   uint64
	Type  uint32
	PID   uint32 // tgid
}

// InHeader mirrors struct fuse_in_header; it prefixes every request.
type InHeader struct {
	Len     uint32
	Opcode  uint32
	Unique  uint64
	NodeID  uint64
	UID     uint32
	GID     uint32
	PID     uint32
	Padding uint32
}

// OutHeader mirrors struct fuse_out_header; it prefixes every reply.
type OutHeader struct {
	Len    uint32
	Error  int32
	Unique uint64
}

// EntryOut mirrors struct fuse_entry_out.
type EntryOut struct {
	Nodeid         uint64
	Generation     uint64
	EntryValid     uint64
	AttrValid      uint64
	EntryValidNsec uint32
	AttrValidNsec  uint32
	Attr           Attr
}

// ForgetIn mirrors struct fuse_forget_in.
type ForgetIn struct {
	Nlookup uint64
}

// ForgetOne mirrors struct fuse_forget_one, an element of a batch forget
// request.
type ForgetOne struct {
	NodeID  uint64
	Nlookup uint64
}

// BatchForgetIn mirrors struct fuse_batch_forget_in.
type BatchForgetIn struct {
	Count uint32
	Dummy uint32
}

// GetattrIn mirrors struct fuse_getattr_in.
type GetattrIn struct {
	GetattrFlags uint32
	Dummy        uint32
	Fh           uint64
}

// AttrOut mirrors struct fuse_attr_out.
type AttrOut struct {
	AttrValid     uint64
	AttrValidNsec uint32
	Dummy         uint32
	Attr          Attr
}

// MknodIn mirrors struct fuse_mknod_in.
type MknodIn struct {
	Mode    uint32
	Rdev    uint32
	Umask   uint32
	Padding uint32
}

// MkdirIn mirrors struct fuse_mkdir_in.
type MkdirIn struct {
	Mode  uint32
	Umask uint32
}

// RenameIn mirrors struct fuse_rename_in.
type RenameIn struct {
	Newdir uint64
}

// Rename2In mirrors struct fuse_rename2_in.
type Rename2In struct {
	Newdir  uint64
	Flags   uint32
	Padding uint32
}

// LinkIn mirrors struct fuse_link_in.
type LinkIn struct {
	Oldnodeid uint64
}

// SetattrIn mirrors struct fuse_setattr_in.
type SetattrIn struct {
	Valid     uint32
	Padding   uint32
	Fh        uint64
	Size      uint64
	LockOwner uint64
	Atime     uint64
	Mtime     uint64
	Ctime     uint64
	AtimeNsec uint32
	MtimeNsec uint32
	CtimeNsec uint32
	Mode      uint32
	Unused4   uint32
	UID       uint32
	GID       uint32
	Unused5   uint32
}

// OpenIn mirrors struct fuse_open_in.
type OpenIn struct {
	Flags  uint32
	Unused uint32
}

// CreateIn mirrors struct fuse_create_in.
type CreateIn struct {
	Flags   uint32
	Mode    uint32
	Umask   uint32
	Padding uint32
}

// OpenOut mirrors struct fuse_open_out.
type OpenOut struct {
	Fh        uint64
	OpenFlags uint32
	Padding   uint32
}

// ReleaseIn mirrors struct fuse_release_in.
type ReleaseIn struct {
	Fh           uint64
	Flags        uint32
	ReleaseFlags uint32
	LockOwner    uint64
}

// FlushIn mirrors struct fuse_flush_in.
type FlushIn struct {
	Fh        uint64
	Unused    uint32
	Padding   uint32
	LockOwner uint64
}

// ReadIn mirrors struct fuse_read_in.
type ReadIn struct {
	Fh        uint64
	Offset    uint64
	Size      uint32
	ReadFlags uint32
	LockOwner uint64
	Flags     uint32
	Padding   uint32
}

// WriteIn mirrors struct fuse_write_in.
type WriteIn struct {
	Fh         uint64
	Offset     uint64
	Size       uint32
	WriteFlags uint32
	LockOwner  uint64
	Flags      uint32
	Padding    uint32
}

// WriteOut mirrors struct fuse_write_out.
type WriteOut struct {
	Size    uint32
	Padding uint32
}

// StatfsOut mirrors struct fuse_statfs_out.
type StatfsOut struct {
	St Kstatfs
}

// FsyncIn mirrors struct fuse_fsync_in.
type FsyncIn struct {
	Fh         uint64
	FsyncFlags uint32
	Padding    uint32
}

// SetxattrIn mirrors struct fuse_setxattr_in.
type SetxattrIn struct {
	Size  uint32
	Flags uint32
}

// GetxattrIn mirrors struct fuse_getxattr_in.
type GetxattrIn struct {
	Size    uint32
	Padding uint32
}

// GetxattrOut mirrors struct fuse_getxattr_out.
type GetxattrOut struct {
	Size    uint32
	Padding uint32
}

// LkIn mirrors struct fuse_lk_in.
type LkIn struct {
	Fh      uint64
	Owner   uint64
	Lk      FileLock
	LkFlags uint32
	Padding uint32
}

// LkOut mirrors struct fuse_lk_out.
type LkOut struct {
	Lk FileLock
}

// AccessIn mirrors struct fuse_access_in.
type AccessIn struct {
	Mask    uint32
	Padding uint32
}

// InitIn mirrors struct fuse_init_in.
type InitIn struct {
	Major        uint32
	Minor        uint32
	MaxReadahead uint32
	Flags        uint32
}

// InitOut mirrors struct fuse_init_out.
type InitOut struct {
	Major               uint32
	Minor               uint32
	MaxReadahead        uint32
	Flags               uint32
	MaxBackground       uint16
	CongestionThreshold uint16
	MaxWrite            uint32
	TimeGran            uint32
	MaxPages            uint16
	Padding             uint16
	Unused              [8]uint32
}

// InterruptIn mirrors struct fuse_interrupt_in.
type InterruptIn struct {
	Unique uint64
}

// BmapIn mirrors struct fuse_bmap_in.
type BmapIn struct {
	Block     uint64
	BlockSize uint32
	Padding   uint32
}

// BmapOut mirrors struct fuse_bmap_out.
type BmapOut struct {
	Block uint64
}

// FallocateIn mirrors struct fuse_fallocate_in.
type FallocateIn struct {
	Fh      uint64
	Offset  uint64
	Length  uint64
	Mode    uint32
	Padding uint32
}

// CopyFileRangeIn mirrors struct fuse_copy_file_range_in.
type CopyFileRangeIn struct {
	FhIn    uint64
	OffIn   uint64
	NodeOut uint64
	FhOut   uint64
	OffOut  uint64
	Len     uint64
	Flags   uint64
}

// LseekIn mirrors struct fuse_lseek_in.
type LseekIn struct {
	Fh      uint64
	Offset  uint64
	Whence  uint32
	Padding uint32
}

// LseekOut mirrors struct fuse_lseek_out.
type LseekOut struct {
	Offset uint64
}

// Dirent mirrors the fixed-size prefix of struct fuse_dirent; the trailing
// name is not represented here, since it is a dynamically-sized byte run
// that callers append by hand (see fuseutil.AppendDirent).
type Dirent struct {
	Ino     uint64
	Off     uint64
	Namelen uint32
	Type    uint32
}

// DirentAlign is the alignment, in bytes, that every on-wire directory entry
// (including its trailing name and padding) must satisfy.
const DirentAlign = 8
