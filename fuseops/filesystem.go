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

import "context"

// FileSystem is the interface a caller of the server package implements to
// back a mounted file system. Each method corresponds to exactly one kernel
// request type and receives a pointer to the concrete Operation struct that
// request decodes to; the implementation populates that same struct's
// response fields (ReplyEntry, ReplyAttr, and so on) in place and returns a
// nil error on success, or a *syscall.Errno-compatible error to be relayed
// to the kernel as a negative errno.
//
// This mirrors jacobsa/fuse's legacy FileSystem shape rather than a single
// dispatch(Operation) method: naming one method per request, with its own
// concrete parameter type, is what gives the reply-of relation its static,
// compiler-checked binding in a language without sealed traits or method
// overloading (see DESIGN.md's Open Question resolution).
//
// FUSE_INIT never reaches this interface; the server negotiates it directly
// during its handshake.
type FileSystem interface {
	LookUpInode(ctx context.Context, op *OpLookUp) error
	GetInodeAttributes(ctx context.Context, op *OpGetAttr) error
	SetInodeAttributes(ctx context.Context, op *OpSetAttr) error
	ForgetInode(ctx context.Context, op *OpForget) error
	BatchForget(ctx context.Context, op *OpBatchForget) error

	MkDir(ctx context.Context, op *OpMkDir) error
	MkNode(ctx context.Context, op *OpMkNode) error
	CreateFile(ctx context.Context, op *OpCreateFile) error
	CreateLink(ctx context.Context, op *OpLink) error
	CreateSymlink(ctx context.Context, op *OpSymLink) error
	Rename(ctx context.Context, op *OpRename) error
	RmDir(ctx context.Context, op *OpRmDir) error
	Unlink(ctx context.Context, op *OpUnlink) error

	OpenDir(ctx context.Context, op *OpOpenDir) error
	ReadDir(ctx context.Context, op *OpReadDir) error
	ReleaseDirHandle(ctx context.Context, op *OpReleaseDirHandle) error
	SyncDir(ctx context.Context, op *OpSyncDir) error

	OpenFile(ctx context.Context, op *OpOpenFile) error
	ReadFile(ctx context.Context, op *OpReadFile) error
	WriteFile(ctx context.Context, op *OpWriteFile) error
	SyncFile(ctx context.Context, op *OpSyncFile) error
	FlushFile(ctx context.Context, op *OpFlushFile) error
	ReleaseFileHandle(ctx context.Context, op *OpReleaseFileHandle) error
	ReadSymlink(ctx context.Context, op *OpReadLink) error

	GetXAttr(ctx context.Context, op *OpGetXAttr) error
	ListXAttr(ctx context.Context, op *OpListXAttr) error
	SetXAttr(ctx context.Context, op *OpSetXAttr) error
	RemoveXAttr(ctx context.Context, op *OpRemoveXAttr) error

	Access(ctx context.Context, op *OpAccess) error
	StatFS(ctx context.Context, op *OpStatFS) error
	Bmap(ctx context.Context, op *OpBmap) error
	Fallocate(ctx context.Context, op *OpFallocate) error
	CopyFileRange(ctx context.Context, op *OpCopyFileRange) error
	Lseek(ctx context.Context, op *OpLseek) error

	// Interrupt is invoked when the kernel asks to cancel an outstanding
	// request. FUSE_INTERRUPT has no reply; implementations that track
	// in-flight requests may use this to cancel their own work.
	Interrupt(ctx context.Context, op *OpInterrupt) error

	// Destroy is called once the connection's read loop has ended (the
	// kernel closes /dev/fuse as part of unmounting), giving the file
	// system a chance to flush and release any held resources.
	Destroy()
}
