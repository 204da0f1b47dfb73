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
	"context"
	"fmt"
)

// Dispatch invokes the FileSystem method matching op's concrete type. It is
// the single place that binds an Operation's dynamic type back to its
// static FileSystem method, so that a server loop can hold operations as
// the Operation interface right up until the call.
func Dispatch(ctx context.Context, fs FileSystem, op Operation) error {
	switch o := op.(type) {
	case *OpLookUp:
		return fs.LookUpInode(ctx, o)
	case *OpGetAttr:
		return fs.GetInodeAttributes(ctx, o)
	case *OpSetAttr:
		return fs.SetInodeAttributes(ctx, o)
	case *OpForget:
		return fs.ForgetInode(ctx, o)
	case *OpBatchForget:
		return fs.BatchForget(ctx, o)
	case *OpMkDir:
		return fs.MkDir(ctx, o)
	case *OpMkNode:
		return fs.MkNode(ctx, o)
	case *OpCreateFile:
		return fs.CreateFile(ctx, o)
	case *OpLink:
		return fs.CreateLink(ctx, o)
	case *OpSymLink:
		return fs.CreateSymlink(ctx, o)
	case *OpRename:
		return fs.Rename(ctx, o)
	case *OpRmDir:
		return fs.RmDir(ctx, o)
	case *OpUnlink:
		return fs.Unlink(ctx, o)
	case *OpOpenDir:
		return fs.OpenDir(ctx, o)
	case *OpReadDir:
		return fs.ReadDir(ctx, o)
	case *OpReleaseDirHandle:
		return fs.ReleaseDirHandle(ctx, o)
	case *OpSyncDir:
		return fs.SyncDir(ctx, o)
	case *OpOpenFile:
		return fs.OpenFile(ctx, o)
	case *OpReadFile:
		return fs.ReadFile(ctx, o)
	case *OpWriteFile:
		return fs.WriteFile(ctx, o)
	case *OpSyncFile:
		return fs.SyncFile(ctx, o)
	case *OpFlushFile:
		return fs.FlushFile(ctx, o)
	case *OpReleaseFileHandle:
		return fs.ReleaseFileHandle(ctx, o)
	case *OpReadLink:
		return fs.ReadSymlink(ctx, o)
	case *OpGetXAttr:
		return fs.GetXAttr(ctx, o)
	case *OpListXAttr:
		return fs.ListXAttr(ctx, o)
	case *OpSetXAttr:
		return fs.SetXAttr(ctx, o)
	case *OpRemoveXAttr:
		return fs.RemoveXAttr(ctx, o)
	case *OpAccess:
		return fs.Access(ctx, o)
	case *OpStatFS:
		return fs.StatFS(ctx, o)
	case *OpBmap:
		return fs.Bmap(ctx, o)
	case *OpFallocate:
		return fs.Fallocate(ctx, o)
	case *OpCopyFileRange:
		return fs.CopyFileRange(ctx, o)
	case *OpLseek:
		return fs.Lseek(ctx, o)
	case *OpInterrupt:
		return fs.Interrupt(ctx, o)
	default:
		return fmt.Errorf("fuseops: Dispatch: unhandled operation type %T", op)
	}
}
