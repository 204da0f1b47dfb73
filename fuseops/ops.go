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
	"fmt"
	"time"

	"github.com/kylelemons/godebug/pretty"

	"github.com/datenlord/async-fuse/internal/buffer"
	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// Operation is the common interface implemented by every OpXxx type in this
// package. A value's concrete type tells a FileSystem implementation (via a
// type switch, or via the dedicated per-operation FileSystem method that
// receives it) exactly which request and response fields are available;
// there is no generic "Reply" type, by design (see the Open Question
// resolution in DESIGN.md).
//
// The set of implementers is closed: opSeal is unexported, so only this
// package can define new operations.
type Operation interface {
	OpHeader() OpHeader
	Name() string
	// DebugString renders the full operation, request and reply fields
	// included, for the debug logger. Unlike Name it is cheap only when a
	// DebugLogger is actually configured; callers should not invoke it on
	// a hot path that might be running without one.
	DebugString() string
	Replies() bool
	opSeal()
}

// baseOp is embedded by every OpXxx struct and supplies the parts of
// Operation that do not vary per operation.
type baseOp struct {
	header OpHeader
}

func (o *baseOp) OpHeader() OpHeader { return o.header }
func (o *baseOp) opSeal()            {}

// noReply is embedded by the handful of operations the protocol defines as
// having no reply at all (not even an empty ack): FORGET, BATCH_FORGET and
// INTERRUPT. Everything else embeds ackReply.
type noReply struct{}

func (noReply) Replies() bool { return false }

type ackReply struct{}

func (ackReply) Replies() bool { return true }

func decodeName(d *buffer.Decoder) (string, error) {
	cb, err := d.FetchCBytes()
	if err != nil {
		return "", err
	}
	return string(cb), nil
}

// ---------------------------------------------------------------------
// LookUp
// ---------------------------------------------------------------------

// OpLookUp corresponds to FUSE_LOOKUP: resolve Name inside the directory
// named by OpHeader.ID.
type OpLookUp struct {
	baseOp
	ackReply
	ChildName string
	ReplyEntry
}

func (op *OpLookUp) Name() string { return "LookUpInode" }
func (op *OpLookUp) DebugString() string { return pretty.Sprint(*op) }

func decodeLookUp(h OpHeader, d *buffer.Decoder) (Operation, error) {
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpLookUp{baseOp: baseOp{h}, ChildName: name}, nil
}

// ---------------------------------------------------------------------
// Forget / BatchForget
// ---------------------------------------------------------------------

// OpForget corresponds to FUSE_FORGET: the kernel is dropping Nlookup
// references to OpHeader.ID from its dcache. There is no reply.
type OpForget struct {
	baseOp
	noReply
	Nlookup uint64
}

func (op *OpForget) Name() string { return "ForgetInode" }
func (op *OpForget) DebugString() string { return pretty.Sprint(*op) }

func decodeForget(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.ForgetIn](d)
	if err != nil {
		return nil, err
	}
	return &OpForget{baseOp: baseOp{h}, Nlookup: in.Nlookup}, nil
}

// ForgetItem is one entry of an OpBatchForget request.
type ForgetItem struct {
	ID      InodeID
	Nlookup uint64
}

// OpBatchForget corresponds to FUSE_BATCH_FORGET: the same as OpForget but
// for many inodes in a single request. There is no reply.
type OpBatchForget struct {
	baseOp
	noReply
	Items []ForgetItem
}

func (op *OpBatchForget) Name() string { return "BatchForget" }
func (op *OpBatchForget) DebugString() string { return pretty.Sprint(*op) }

func decodeBatchForget(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.BatchForgetIn](d)
	if err != nil {
		return nil, err
	}
	raw, err := buffer.FetchSlice[fusekernel.ForgetOne](d, int(in.Count))
	if err != nil {
		return nil, err
	}
	items := make([]ForgetItem, len(raw))
	for i, r := range raw {
		items[i] = ForgetItem{ID: InodeID(r.NodeID), Nlookup: r.Nlookup}
	}
	return &OpBatchForget{baseOp: baseOp{h}, Items: items}, nil
}

// ---------------------------------------------------------------------
// GetAttr / SetAttr
// ---------------------------------------------------------------------

// OpGetAttr corresponds to FUSE_GETATTR.
type OpGetAttr struct {
	baseOp
	ackReply
	Handle    HandleID
	HasHandle bool
	ReplyAttr
}

func (op *OpGetAttr) Name() string { return "GetInodeAttributes" }
func (op *OpGetAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeGetAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.GetattrIn](d)
	if err != nil {
		return nil, err
	}
	op := &OpGetAttr{baseOp: baseOp{h}}
	if fusekernel.GetattrFlags(in.GetattrFlags)&fusekernel.GetattrFh != 0 {
		op.HasHandle = true
		op.Handle = HandleID(in.Fh)
	}
	return op, nil
}

// SetAttrInput names which fields of InodeAttributes the kernel actually
// wants changed; fields not named here must be left alone by the file
// system, not merely ignored on the wire.
type SetAttrInput struct {
	Valid fusekernel.SetattrValid

	Size  uint64
	Mode  uint32
	UID   uint32
	GID   uint32
	Atime time.Time
	Mtime time.Time

	Handle    HandleID
	HasHandle bool
}

// OpSetAttr corresponds to FUSE_SETATTR.
type OpSetAttr struct {
	baseOp
	ackReply
	Input SetAttrInput
	ReplyAttr
}

func (op *OpSetAttr) Name() string { return "SetInodeAttributes" }
func (op *OpSetAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeSetAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.SetattrIn](d)
	if err != nil {
		return nil, err
	}

	valid := fusekernel.SetattrValid(in.Valid)
	input := SetAttrInput{
		Valid: valid,
		Size:  in.Size,
		Mode:  in.Mode,
		UID:   in.UID,
		GID:   in.GID,
		Atime: time.Unix(int64(in.Atime), int64(in.AtimeNsec)),
		Mtime: time.Unix(int64(in.Mtime), int64(in.MtimeNsec)),
	}
	if valid&fusekernel.SetattrFh != 0 {
		input.HasHandle = true
		input.Handle = HandleID(in.Fh)
	}

	return &OpSetAttr{baseOp: baseOp{h}, Input: input}, nil
}

// ---------------------------------------------------------------------
// ReadLink / SymLink
// ---------------------------------------------------------------------

// OpReadLink corresponds to FUSE_READLINK.
type OpReadLink struct {
	baseOp
	ackReply
	ReplyReadLink
}

func (op *OpReadLink) Name() string { return "ReadSymlink" }
func (op *OpReadLink) DebugString() string { return pretty.Sprint(*op) }

func decodeReadLink(h OpHeader, d *buffer.Decoder) (Operation, error) {
	return &OpReadLink{baseOp: baseOp{h}}, nil
}

// OpSymLink corresponds to FUSE_SYMLINK: create a symlink named Name inside
// OpHeader.ID whose target is Target.
type OpSymLink struct {
	baseOp
	ackReply
	ChildName string
	Target    string
	ReplyEntry
}

func (op *OpSymLink) Name() string { return "CreateSymlink" }
func (op *OpSymLink) DebugString() string { return pretty.Sprint(*op) }

func decodeSymLink(h OpHeader, d *buffer.Decoder) (Operation, error) {
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	target, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpSymLink{baseOp: baseOp{h}, ChildName: name, Target: target}, nil
}

// ---------------------------------------------------------------------
// MkNod / MkDir
// ---------------------------------------------------------------------

// OpMkNode corresponds to FUSE_MKNOD.
type OpMkNode struct {
	baseOp
	ackReply
	ChildName string
	Mode      uint32
	Rdev      uint32
	Umask     uint32
	ReplyEntry
}

func (op *OpMkNode) Name() string { return "MkNode" }
func (op *OpMkNode) DebugString() string { return pretty.Sprint(*op) }

func decodeMkNode(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.MknodIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpMkNode{
		baseOp:    baseOp{h},
		ChildName: name,
		Mode:      in.Mode,
		Rdev:      in.Rdev,
		Umask:     in.Umask,
	}, nil
}

// OpMkDir corresponds to FUSE_MKDIR.
type OpMkDir struct {
	baseOp
	ackReply
	ChildName string
	Mode      uint32
	Umask     uint32
	ReplyEntry
}

func (op *OpMkDir) Name() string { return "MkDir" }
func (op *OpMkDir) DebugString() string { return pretty.Sprint(*op) }

func decodeMkDir(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.MkdirIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpMkDir{baseOp: baseOp{h}, ChildName: name, Mode: in.Mode, Umask: in.Umask}, nil
}

// ---------------------------------------------------------------------
// Unlink / Rmdir
// ---------------------------------------------------------------------

// OpUnlink corresponds to FUSE_UNLINK.
type OpUnlink struct {
	baseOp
	ackReply
	ChildName string
}

func (op *OpUnlink) Name() string { return "Unlink" }
func (op *OpUnlink) DebugString() string { return pretty.Sprint(*op) }

func decodeUnlink(h OpHeader, d *buffer.Decoder) (Operation, error) {
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpUnlink{baseOp: baseOp{h}, ChildName: name}, nil
}

// OpRmDir corresponds to FUSE_RMDIR.
type OpRmDir struct {
	baseOp
	ackReply
	ChildName string
}

func (op *OpRmDir) Name() string { return "RmDir" }
func (op *OpRmDir) DebugString() string { return pretty.Sprint(*op) }

func decodeRmDir(h OpHeader, d *buffer.Decoder) (Operation, error) {
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpRmDir{baseOp: baseOp{h}, ChildName: name}, nil
}

// ---------------------------------------------------------------------
// Rename
// ---------------------------------------------------------------------

// OpRename corresponds to FUSE_RENAME and FUSE_RENAME2. Flags is always
// zero for a plain FUSE_RENAME request.
type OpRename struct {
	baseOp
	ackReply
	OldName   string
	NewName   string
	NewParent InodeID
	Flags     uint32
}

func (op *OpRename) Name() string { return "Rename" }
func (op *OpRename) DebugString() string { return pretty.Sprint(*op) }

func decodeRename(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.RenameIn](d)
	if err != nil {
		return nil, err
	}
	oldName, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	newName, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpRename{
		baseOp:    baseOp{h},
		OldName:   oldName,
		NewName:   newName,
		NewParent: InodeID(in.Newdir),
	}, nil
}

func decodeRename2(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.Rename2In](d)
	if err != nil {
		return nil, err
	}
	oldName, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	newName, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpRename{
		baseOp:    baseOp{h},
		OldName:   oldName,
		NewName:   newName,
		NewParent: InodeID(in.Newdir),
		Flags:     in.Flags,
	}, nil
}

// ---------------------------------------------------------------------
// Link
// ---------------------------------------------------------------------

// OpLink corresponds to FUSE_LINK: create a hard link named NewName inside
// OpHeader.ID pointing at the existing inode OldID.
type OpLink struct {
	baseOp
	ackReply
	OldID   InodeID
	NewName string
	ReplyEntry
}

func (op *OpLink) Name() string { return "CreateLink" }
func (op *OpLink) DebugString() string { return pretty.Sprint(*op) }

func decodeLink(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.LinkIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpLink{baseOp: baseOp{h}, OldID: InodeID(in.Oldnodeid), NewName: name}, nil
}

// ---------------------------------------------------------------------
// Open / Create / Release (files)
// ---------------------------------------------------------------------

// OpOpenFile corresponds to FUSE_OPEN.
type OpOpenFile struct {
	baseOp
	ackReply
	Flags uint32
	ReplyOpen
}

func (op *OpOpenFile) Name() string { return "OpenFile" }
func (op *OpOpenFile) DebugString() string { return pretty.Sprint(*op) }

func decodeOpenFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.OpenIn](d)
	if err != nil {
		return nil, err
	}
	return &OpOpenFile{baseOp: baseOp{h}, Flags: in.Flags}, nil
}

// OpCreateFile corresponds to FUSE_CREATE: atomically create and open Name
// inside OpHeader.ID.
type OpCreateFile struct {
	baseOp
	ackReply
	ChildName string
	Flags     uint32
	Mode      uint32
	Umask     uint32
	ReplyEntry
	ReplyOpen
}

func (op *OpCreateFile) Name() string { return "CreateFile" }
func (op *OpCreateFile) DebugString() string { return pretty.Sprint(*op) }

func decodeCreateFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.CreateIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpCreateFile{
		baseOp:    baseOp{h},
		ChildName: name,
		Flags:     in.Flags,
		Mode:      in.Mode,
		Umask:     in.Umask,
	}, nil
}

// OpReleaseFileHandle corresponds to FUSE_RELEASE.
type OpReleaseFileHandle struct {
	baseOp
	ackReply
	Handle HandleID
}

func (op *OpReleaseFileHandle) Name() string { return "ReleaseFileHandle" }
func (op *OpReleaseFileHandle) DebugString() string { return pretty.Sprint(*op) }

func decodeReleaseFileHandle(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.ReleaseIn](d)
	if err != nil {
		return nil, err
	}
	return &OpReleaseFileHandle{baseOp: baseOp{h}, Handle: HandleID(in.Fh)}, nil
}

// ---------------------------------------------------------------------
// OpenDir / ReadDir(Plus) / ReleaseDir
// ---------------------------------------------------------------------

// OpOpenDir corresponds to FUSE_OPENDIR.
type OpOpenDir struct {
	baseOp
	ackReply
	Flags uint32
	ReplyOpen
}

func (op *OpOpenDir) Name() string { return "OpenDir" }
func (op *OpOpenDir) DebugString() string { return pretty.Sprint(*op) }

func decodeOpenDir(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.OpenIn](d)
	if err != nil {
		return nil, err
	}
	return &OpOpenDir{baseOp: baseOp{h}, Flags: in.Flags}, nil
}

// OpReadDir corresponds to FUSE_READDIR (Plus indicates the request came in
// as FUSE_READDIRPLUS, in which case Dst must be filled via
// AppendDirentPlus instead of AppendDirent).
//
// Dst is a buffer, sized by the dispatcher to the kernel-requested Size,
// that the FileSystem implementation fills by repeated calls to
// AppendDirent/AppendDirentPlus; BytesWritten records how much of it was
// used.
type OpReadDir struct {
	baseOp
	ackReply
	Handle       HandleID
	Offset       DirOffset
	Size         uint32
	Plus         bool
	Dst          []byte
	BytesWritten int
}

func (op *OpReadDir) Name() string { return "ReadDir" }
func (op *OpReadDir) DebugString() string { return pretty.Sprint(*op) }

func decodeReadDirCommon(h OpHeader, d *buffer.Decoder, plus bool) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.ReadIn](d)
	if err != nil {
		return nil, err
	}
	return &OpReadDir{
		baseOp: baseOp{h},
		Handle: HandleID(in.Fh),
		Offset: DirOffset(in.Offset),
		Size:   in.Size,
		Plus:   plus,
	}, nil
}

func decodeReadDir(h OpHeader, d *buffer.Decoder) (Operation, error) {
	return decodeReadDirCommon(h, d, false)
}

func decodeReadDirPlus(h OpHeader, d *buffer.Decoder) (Operation, error) {
	return decodeReadDirCommon(h, d, true)
}

// OpReleaseDirHandle corresponds to FUSE_RELEASEDIR.
type OpReleaseDirHandle struct {
	baseOp
	ackReply
	Handle HandleID
}

func (op *OpReleaseDirHandle) Name() string { return "ReleaseDirHandle" }
func (op *OpReleaseDirHandle) DebugString() string { return pretty.Sprint(*op) }

func decodeReleaseDirHandle(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.ReleaseIn](d)
	if err != nil {
		return nil, err
	}
	return &OpReleaseDirHandle{baseOp: baseOp{h}, Handle: HandleID(in.Fh)}, nil
}

// ---------------------------------------------------------------------
// Read / Write
// ---------------------------------------------------------------------

// OpReadFile corresponds to FUSE_READ. Dst is allocated by the dispatcher
// to hold up to Size bytes; the FileSystem implementation writes into it
// directly and sets BytesRead, avoiding an extra copy/allocation for the
// common case of a full-buffer read.
type OpReadFile struct {
	baseOp
	ackReply
	Handle    HandleID
	Offset    int64
	Size      uint32
	Dst       []byte
	BytesRead int
}

func (op *OpReadFile) Name() string { return "ReadFile" }
func (op *OpReadFile) DebugString() string { return pretty.Sprint(*op) }

func decodeReadFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.ReadIn](d)
	if err != nil {
		return nil, err
	}
	return &OpReadFile{
		baseOp: baseOp{h},
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Size:   in.Size,
	}, nil
}

// OpWriteFile corresponds to FUSE_WRITE. Data is a view directly into the
// request buffer; it must not be retained past the operation's lifetime.
type OpWriteFile struct {
	baseOp
	ackReply
	Handle HandleID
	Offset int64
	Data   []byte
	ReplyWrite
}

func (op *OpWriteFile) Name() string { return "WriteFile" }
func (op *OpWriteFile) DebugString() string { return pretty.Sprint(*op) }

func decodeWriteFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.WriteIn](d)
	if err != nil {
		return nil, err
	}
	data := d.FetchAll()
	if uint32(len(data)) != in.Size {
		return nil, fmt.Errorf("fuseops: write size mismatch: header says %d, body has %d", in.Size, len(data))
	}
	return &OpWriteFile{
		baseOp: baseOp{h},
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Data:   data,
	}, nil
}

// ---------------------------------------------------------------------
// StatFS / Flush / Fsync(dir)
// ---------------------------------------------------------------------

// OpStatFS corresponds to FUSE_STATFS.
type OpStatFS struct {
	baseOp
	ackReply
	ReplyStatFs
}

func (op *OpStatFS) Name() string { return "StatFS" }
func (op *OpStatFS) DebugString() string { return pretty.Sprint(*op) }

func decodeStatFS(h OpHeader, d *buffer.Decoder) (Operation, error) {
	return &OpStatFS{baseOp: baseOp{h}}, nil
}

// OpFlushFile corresponds to FUSE_FLUSH.
type OpFlushFile struct {
	baseOp
	ackReply
	Handle HandleID
}

func (op *OpFlushFile) Name() string { return "FlushFile" }
func (op *OpFlushFile) DebugString() string { return pretty.Sprint(*op) }

func decodeFlushFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.FlushIn](d)
	if err != nil {
		return nil, err
	}
	return &OpFlushFile{baseOp: baseOp{h}, Handle: HandleID(in.Fh)}, nil
}

// OpSyncFile corresponds to FUSE_FSYNC.
type OpSyncFile struct {
	baseOp
	ackReply
	Handle       HandleID
	DataSyncOnly bool
}

func (op *OpSyncFile) Name() string { return "SyncFile" }
func (op *OpSyncFile) DebugString() string { return pretty.Sprint(*op) }

func decodeSyncFile(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.FsyncIn](d)
	if err != nil {
		return nil, err
	}
	return &OpSyncFile{
		baseOp:       baseOp{h},
		Handle:       HandleID(in.Fh),
		DataSyncOnly: fusekernel.FsyncFlags(in.FsyncFlags)&fusekernel.FsyncFdatasync != 0,
	}, nil
}

// OpSyncDir corresponds to FUSE_FSYNCDIR.
type OpSyncDir struct {
	baseOp
	ackReply
	Handle       HandleID
	DataSyncOnly bool
}

func (op *OpSyncDir) Name() string { return "SyncDir" }
func (op *OpSyncDir) DebugString() string { return pretty.Sprint(*op) }

func decodeSyncDir(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.FsyncIn](d)
	if err != nil {
		return nil, err
	}
	return &OpSyncDir{
		baseOp:       baseOp{h},
		Handle:       HandleID(in.Fh),
		DataSyncOnly: fusekernel.FsyncFlags(in.FsyncFlags)&fusekernel.FsyncFdatasync != 0,
	}, nil
}

// ---------------------------------------------------------------------
// Extended attributes
// ---------------------------------------------------------------------

// OpSetXAttr corresponds to FUSE_SETXATTR.
type OpSetXAttr struct {
	baseOp
	ackReply
	ChildName string
	Value     []byte
	Flags     uint32
}

func (op *OpSetXAttr) Name() string { return "SetXAttr" }
func (op *OpSetXAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeSetXAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.SetxattrIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	value := d.FetchAll()
	if uint32(len(value)) != in.Size {
		return nil, fmt.Errorf("fuseops: setxattr size mismatch: header says %d, body has %d", in.Size, len(value))
	}
	return &OpSetXAttr{baseOp: baseOp{h}, ChildName: name, Value: value, Flags: in.Flags}, nil
}

// OpGetXAttr corresponds to FUSE_GETXATTR. If the kernel's requested Size
// is zero it wants only ReplyXAttrSize; otherwise it wants ReplyXAttrData
// with at most Size bytes.
type OpGetXAttr struct {
	baseOp
	ackReply
	ChildName string
	Size      uint32
	ReplyXAttrSize
	ReplyXAttrData
}

func (op *OpGetXAttr) Name() string { return "GetXAttr" }
func (op *OpGetXAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeGetXAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.GetxattrIn](d)
	if err != nil {
		return nil, err
	}
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpGetXAttr{baseOp: baseOp{h}, ChildName: name, Size: in.Size}, nil
}

// OpListXAttr corresponds to FUSE_LISTXATTR: the reply Data is a
// NUL-separated list of attribute names, as returned by listxattr(2).
type OpListXAttr struct {
	baseOp
	ackReply
	Size uint32
	ReplyXAttrSize
	ReplyXAttrData
}

func (op *OpListXAttr) Name() string { return "ListXAttr" }
func (op *OpListXAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeListXAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.GetxattrIn](d)
	if err != nil {
		return nil, err
	}
	return &OpListXAttr{baseOp: baseOp{h}, Size: in.Size}, nil
}

// OpRemoveXAttr corresponds to FUSE_REMOVEXATTR.
type OpRemoveXAttr struct {
	baseOp
	ackReply
	ChildName string
}

func (op *OpRemoveXAttr) Name() string { return "RemoveXAttr" }
func (op *OpRemoveXAttr) DebugString() string { return pretty.Sprint(*op) }

func decodeRemoveXAttr(h OpHeader, d *buffer.Decoder) (Operation, error) {
	name, err := decodeName(d)
	if err != nil {
		return nil, err
	}
	return &OpRemoveXAttr{baseOp: baseOp{h}, ChildName: name}, nil
}

// ---------------------------------------------------------------------
// Access / Interrupt / Bmap / Fallocate / CopyFileRange / Lseek
// ---------------------------------------------------------------------

// OpAccess corresponds to FUSE_ACCESS.
type OpAccess struct {
	baseOp
	ackReply
	Mask uint32
}

func (op *OpAccess) Name() string { return "Access" }
func (op *OpAccess) DebugString() string { return pretty.Sprint(*op) }

func decodeAccess(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.AccessIn](d)
	if err != nil {
		return nil, err
	}
	return &OpAccess{baseOp: baseOp{h}, Mask: in.Mask}, nil
}

// OpInterrupt corresponds to FUSE_INTERRUPT: the kernel is asking the file
// system to cancel the in-flight request with unique id IntrUnique, if
// still outstanding. There is no reply.
type OpInterrupt struct {
	baseOp
	noReply
	IntrUnique uint64
}

func (op *OpInterrupt) Name() string { return "Interrupt" }
func (op *OpInterrupt) DebugString() string { return pretty.Sprint(*op) }

func decodeInterrupt(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.InterruptIn](d)
	if err != nil {
		return nil, err
	}
	return &OpInterrupt{baseOp: baseOp{h}, IntrUnique: in.Unique}, nil
}

// OpBmap corresponds to FUSE_BMAP (block mapping for swap-file-style
// direct block access; rarely implemented by modern file systems).
type OpBmap struct {
	baseOp
	ackReply
	Block     uint64
	BlockSize uint32
	Result    uint64
}

func (op *OpBmap) Name() string { return "Bmap" }
func (op *OpBmap) DebugString() string { return pretty.Sprint(*op) }

func decodeBmap(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.BmapIn](d)
	if err != nil {
		return nil, err
	}
	return &OpBmap{baseOp: baseOp{h}, Block: in.Block, BlockSize: in.BlockSize}, nil
}

// OpFallocate corresponds to FUSE_FALLOCATE.
type OpFallocate struct {
	baseOp
	ackReply
	Handle HandleID
	Offset int64
	Length int64
	Mode   uint32
}

func (op *OpFallocate) Name() string { return "Fallocate" }
func (op *OpFallocate) DebugString() string { return pretty.Sprint(*op) }

func decodeFallocate(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.FallocateIn](d)
	if err != nil {
		return nil, err
	}
	return &OpFallocate{
		baseOp: baseOp{h},
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Length: int64(in.Length),
		Mode:   in.Mode,
	}, nil
}

// OpCopyFileRange corresponds to FUSE_COPY_FILE_RANGE.
type OpCopyFileRange struct {
	baseOp
	ackReply
	HandleIn  HandleID
	OffsetIn  int64
	InodeOut  InodeID
	HandleOut HandleID
	OffsetOut int64
	Len       uint64
	Flags     uint64
	ReplyWrite
}

func (op *OpCopyFileRange) Name() string { return "CopyFileRange" }
func (op *OpCopyFileRange) DebugString() string { return pretty.Sprint(*op) }

func decodeCopyFileRange(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.CopyFileRangeIn](d)
	if err != nil {
		return nil, err
	}
	return &OpCopyFileRange{
		baseOp:    baseOp{h},
		HandleIn:  HandleID(in.FhIn),
		OffsetIn:  int64(in.OffIn),
		InodeOut:  InodeID(in.NodeOut),
		HandleOut: HandleID(in.FhOut),
		OffsetOut: int64(in.OffOut),
		Len:       in.Len,
		Flags:     in.Flags,
	}, nil
}

// OpLseek corresponds to FUSE_LSEEK (SEEK_DATA/SEEK_HOLE passthrough).
type OpLseek struct {
	baseOp
	ackReply
	Handle HandleID
	Offset int64
	Whence int32
	ReplyLseek
}

func (op *OpLseek) Name() string { return "Lseek" }
func (op *OpLseek) DebugString() string { return pretty.Sprint(*op) }

func decodeLseek(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.LseekIn](d)
	if err != nil {
		return nil, err
	}
	return &OpLseek{
		baseOp: baseOp{h},
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Whence: int32(in.Whence),
	}, nil
}

// ---------------------------------------------------------------------
// Init (handshake only, never reaches FileSystem — see server.go)
// ---------------------------------------------------------------------

// OpInit corresponds to FUSE_INIT. The server negotiates this directly in
// its handshake (the initialization sequence described in SPEC_FULL.md); it
// is never delivered to a FileSystem implementation, the same way
// jacobsa/fuse's Connection handles INIT internally rather than through the
// FileSystem interface.
type OpInit struct {
	baseOp
	ackReply
	Major        uint32
	Minor        uint32
	MaxReadahead uint32
	Flags        fusekernel.InitFlags
}

func (op *OpInit) Name() string { return "Init" }
func (op *OpInit) DebugString() string { return pretty.Sprint(*op) }

func decodeInit(h OpHeader, d *buffer.Decoder) (Operation, error) {
	in, err := buffer.Fetch[fusekernel.InitIn](d)
	if err != nil {
		return nil, err
	}
	return &OpInit{
		baseOp:       baseOp{h},
		Major:        in.Major,
		Minor:        in.Minor,
		MaxReadahead: in.MaxReadahead,
		Flags:        fusekernel.InitFlags(in.Flags),
	}, nil
}

// ---------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------

type decodeFunc func(h OpHeader, d *buffer.Decoder) (Operation, error)

var decoders = map[fusekernel.Opcode]decodeFunc{
	fusekernel.OpLookup:        decodeLookUp,
	fusekernel.OpForget:        decodeForget,
	fusekernel.OpBatchForget:   decodeBatchForget,
	fusekernel.OpGetattr:       decodeGetAttr,
	fusekernel.OpSetattr:       decodeSetAttr,
	fusekernel.OpReadlink:      decodeReadLink,
	fusekernel.OpSymlink:       decodeSymLink,
	fusekernel.OpMknod:         decodeMkNode,
	fusekernel.OpMkdir:         decodeMkDir,
	fusekernel.OpUnlink:        decodeUnlink,
	fusekernel.OpRmdir:         decodeRmDir,
	fusekernel.OpRename:        decodeRename,
	fusekernel.OpRename2:       decodeRename2,
	fusekernel.OpLink:          decodeLink,
	fusekernel.OpOpen:          decodeOpenFile,
	fusekernel.OpCreate:        decodeCreateFile,
	fusekernel.OpRelease:       decodeReleaseFileHandle,
	fusekernel.OpOpendir:       decodeOpenDir,
	fusekernel.OpReaddir:       decodeReadDir,
	fusekernel.OpReaddirplus:   decodeReadDirPlus,
	fusekernel.OpReleasedir:    decodeReleaseDirHandle,
	fusekernel.OpRead:          decodeReadFile,
	fusekernel.OpWrite:         decodeWriteFile,
	fusekernel.OpStatfs:        decodeStatFS,
	fusekernel.OpFlush:         decodeFlushFile,
	fusekernel.OpFsync:         decodeSyncFile,
	fusekernel.OpFsyncdir:      decodeSyncDir,
	fusekernel.OpSetxattr:      decodeSetXAttr,
	fusekernel.OpGetxattr:      decodeGetXAttr,
	fusekernel.OpListxattr:     decodeListXAttr,
	fusekernel.OpRemovexattr:   decodeRemoveXAttr,
	fusekernel.OpAccess:        decodeAccess,
	fusekernel.OpInterrupt:     decodeInterrupt,
	fusekernel.OpBmap:          decodeBmap,
	fusekernel.OpFallocate:     decodeFallocate,
	fusekernel.OpCopyFileRange: decodeCopyFileRange,
	fusekernel.OpLseek:         decodeLseek,
	fusekernel.OpInit:          decodeInit,
}

// ParseOp decodes the body following h into a concrete Operation, selecting
// the decoder by h.Opcode. It returns an error wrapping one of
// buffer.ErrNotEnough, buffer.ErrTooMuchData, buffer.ErrAlignMismatch,
// buffer.ErrNumOverflow or buffer.ErrInvalidValue on a malformed request, or
// an *UnknownOpcodeError if the kernel sent an opcode this package does not
// recognize (which a caller should translate to ENOSYS on the wire, not
// treat as fatal).
func ParseOp(h *fusekernel.InHeader, d *buffer.Decoder) (Operation, error) {
	decode, ok := decoders[fusekernel.Opcode(h.Opcode)]
	if !ok {
		return nil, &UnknownOpcodeError{Opcode: fusekernel.Opcode(h.Opcode)}
	}

	var op Operation
	err := buffer.AllConsuming(d, func(d *buffer.Decoder) (err error) {
		op, err = decode(newOpHeader(h), d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// UnknownOpcodeError is returned by ParseOp for a request whose opcode this
// package does not implement.
type UnknownOpcodeError struct {
	Opcode fusekernel.Opcode
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("fuseops: unknown opcode %s (%d)", e.Opcode, uint32(e.Opcode))
}
