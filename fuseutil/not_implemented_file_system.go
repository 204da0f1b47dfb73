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

package fuseutil

import (
	"context"
	"syscall"

	"github.com/datenlord/async-fuse/fuseops"
)

// NotImplementedFileSystem responds to every operation with ENOSYS. Embed it
// in your own type to inherit default implementations for the methods you
// don't care about, so your type keeps implementing fuseops.FileSystem even
// as new methods are added to that interface.
type NotImplementedFileSystem struct{}

var _ fuseops.FileSystem = &NotImplementedFileSystem{}

func (fs *NotImplementedFileSystem) LookUpInode(ctx context.Context, op *fuseops.OpLookUp) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.OpGetAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) SetInodeAttributes(ctx context.Context, op *fuseops.OpSetAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ForgetInode(ctx context.Context, op *fuseops.OpForget) error {
	return nil
}

func (fs *NotImplementedFileSystem) BatchForget(ctx context.Context, op *fuseops.OpBatchForget) error {
	return nil
}

func (fs *NotImplementedFileSystem) MkDir(ctx context.Context, op *fuseops.OpMkDir) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) MkNode(ctx context.Context, op *fuseops.OpMkNode) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) CreateFile(ctx context.Context, op *fuseops.OpCreateFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) CreateLink(ctx context.Context, op *fuseops.OpLink) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) CreateSymlink(ctx context.Context, op *fuseops.OpSymLink) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Rename(ctx context.Context, op *fuseops.OpRename) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) RmDir(ctx context.Context, op *fuseops.OpRmDir) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Unlink(ctx context.Context, op *fuseops.OpUnlink) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) OpenDir(ctx context.Context, op *fuseops.OpOpenDir) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ReadDir(ctx context.Context, op *fuseops.OpReadDir) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ReleaseDirHandle(ctx context.Context, op *fuseops.OpReleaseDirHandle) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) SyncDir(ctx context.Context, op *fuseops.OpSyncDir) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) OpenFile(ctx context.Context, op *fuseops.OpOpenFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ReadFile(ctx context.Context, op *fuseops.OpReadFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) WriteFile(ctx context.Context, op *fuseops.OpWriteFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) SyncFile(ctx context.Context, op *fuseops.OpSyncFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) FlushFile(ctx context.Context, op *fuseops.OpFlushFile) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ReleaseFileHandle(ctx context.Context, op *fuseops.OpReleaseFileHandle) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ReadSymlink(ctx context.Context, op *fuseops.OpReadLink) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) GetXAttr(ctx context.Context, op *fuseops.OpGetXAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) ListXAttr(ctx context.Context, op *fuseops.OpListXAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) SetXAttr(ctx context.Context, op *fuseops.OpSetXAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) RemoveXAttr(ctx context.Context, op *fuseops.OpRemoveXAttr) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Access(ctx context.Context, op *fuseops.OpAccess) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) StatFS(ctx context.Context, op *fuseops.OpStatFS) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Bmap(ctx context.Context, op *fuseops.OpBmap) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Fallocate(ctx context.Context, op *fuseops.OpFallocate) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) CopyFileRange(ctx context.Context, op *fuseops.OpCopyFileRange) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Lseek(ctx context.Context, op *fuseops.OpLseek) error {
	return syscall.ENOSYS
}

func (fs *NotImplementedFileSystem) Interrupt(ctx context.Context, op *fuseops.OpInterrupt) error {
	return nil
}

func (fs *NotImplementedFileSystem) Destroy() {}
