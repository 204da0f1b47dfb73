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

// Package hellofs implements a read-only, fixed-layout file system used to
// demonstrate and exercise the fuseops.FileSystem interface end to end.
package hellofs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	fallocate "github.com/detailyang/go-fallocate"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/datenlord/async-fuse/fuseops"
	"github.com/datenlord/async-fuse/fuseutil"
)

const (
	rootInode fuseops.InodeID = fuseops.RootInodeID + iota
	helloInode
	dirInode
	worldInode
)

const helloContents = "Hello, world!"

type inodeInfo struct {
	attributes fuseops.InodeAttributes
	dir        bool
	children   []fuseops.Dirent
}

// NewHelloFS returns a file system with a fixed structure that looks like
// this:
//
//	hello
//	dir/
//	    world
//
// Each file's contents are backed by a real temporary file, so that
// OpFallocate has something to preallocate space on.
func NewHelloFS(clock timeutil.Clock) (fuseops.FileSystem, error) {
	backing, err := os.CreateTemp("", "hellofs-")
	if err != nil {
		return nil, fmt.Errorf("hellofs: creating backing file: %w", err)
	}
	if _, err := backing.WriteString(helloContents); err != nil {
		backing.Close()
		return nil, fmt.Errorf("hellofs: writing backing file: %w", err)
	}

	fs := &helloFS{
		clock:   clock,
		backing: backing,
	}
	fs.inodes = map[fuseops.InodeID]inodeInfo{
		rootInode: {
			attributes: fuseops.InodeAttributes{
				Nlink: 1,
				Mode:  syscall.S_IFDIR | 0555,
			},
			dir: true,
			children: []fuseops.Dirent{
				{Offset: 1, Inode: helloInode, Name: "hello", Type: fuseops.DT_File},
				{Offset: 2, Inode: dirInode, Name: "dir", Type: fuseops.DT_Dir},
			},
		},
		helloInode: {
			attributes: fuseops.InodeAttributes{
				Nlink: 1,
				Mode:  syscall.S_IFREG | 0444,
				Size:  uint64(len(helloContents)),
			},
		},
		dirInode: {
			attributes: fuseops.InodeAttributes{
				Nlink: 1,
				Mode:  syscall.S_IFDIR | 0555,
			},
			dir: true,
			children: []fuseops.Dirent{
				{Offset: 1, Inode: worldInode, Name: "world", Type: fuseops.DT_File},
			},
		},
		worldInode: {
			attributes: fuseops.InodeAttributes{
				Nlink: 1,
				Mode:  syscall.S_IFREG | 0444,
				Size:  uint64(len(helloContents)),
			},
		},
	}
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)

	return fs, nil
}

type helloFS struct {
	fuseutil.NotImplementedFileSystem

	clock   timeutil.Clock
	backing *os.File

	// A mutex that must be held when touching inodes. See documentation
	// for each method.
	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	inodes map[fuseops.InodeID]inodeInfo
}

func (fs *helloFS) checkInvariants() {
	if _, ok := fs.inodes[rootInode]; !ok {
		panic("hellofs: root inode missing from table")
	}
	for id, info := range fs.inodes {
		if !info.dir {
			continue
		}
		for _, child := range info.children {
			if _, ok := fs.inodes[child.Inode]; !ok {
				panic(fmt.Sprintf("hellofs: inode %d names missing child %d", id, child.Inode))
			}
		}
	}
}

func findChildInode(name string, children []fuseops.Dirent) (fuseops.InodeID, error) {
	for _, e := range children {
		if e.Name == name {
			return e.Inode, nil
		}
	}
	return 0, syscall.ENOENT
}

func (fs *helloFS) patchAttributes(attr *fuseops.InodeAttributes) {
	now := fs.clock.Now()
	attr.Atime = now
	attr.Mtime = now
	attr.Ctime = now
}

func (fs *helloFS) LookUpInode(ctx context.Context, op *fuseops.OpLookUp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentInfo, ok := fs.inodes[op.OpHeader().ID]
	if !ok {
		return syscall.ENOENT
	}

	child, err := findChildInode(op.ChildName, parentInfo.children)
	if err != nil {
		return err
	}

	op.Entry.Child = child
	op.Entry.Attributes = fs.inodes[child].attributes
	fs.patchAttributes(&op.Entry.Attributes)

	return nil
}

func (fs *helloFS) GetInodeAttributes(ctx context.Context, op *fuseops.OpGetAttr) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	info, ok := fs.inodes[op.OpHeader().ID]
	if !ok {
		return syscall.ENOENT
	}

	op.Attributes = info.attributes
	fs.patchAttributes(&op.Attributes)

	return nil
}

func (fs *helloFS) OpenDir(ctx context.Context, op *fuseops.OpOpenDir) error {
	return nil
}

func (fs *helloFS) ReadDir(ctx context.Context, op *fuseops.OpReadDir) error {
	fs.mu.Lock()
	info, ok := fs.inodes[op.OpHeader().ID]
	fs.mu.Unlock()
	if !ok {
		return syscall.ENOENT
	}
	if !info.dir {
		return syscall.ENOTDIR
	}

	entries := info.children
	if int(op.Offset) > len(entries) {
		return syscall.EIO
	}
	entries = entries[op.Offset:]

	op.Dst = make([]byte, 0, op.Size)
	for _, e := range entries {
		next, ok := fuseops.AppendDirent(op.Dst, e)
		if !ok {
			break
		}
		op.Dst = next
	}
	op.BytesWritten = len(op.Dst)

	return nil
}

// OpenFile hands back the inode id itself as the handle: hellofs has at
// most one open instance of each file's shared backing descriptor, so
// there is no real handle table to allocate from.
func (fs *helloFS) OpenFile(ctx context.Context, op *fuseops.OpOpenFile) error {
	op.Handle = fuseops.HandleID(op.OpHeader().ID)
	return nil
}

func (fs *helloFS) ReleaseFileHandle(ctx context.Context, op *fuseops.OpReleaseFileHandle) error {
	return nil
}

func (fs *helloFS) ReadFile(ctx context.Context, op *fuseops.OpReadFile) error {
	reader := strings.NewReader(helloContents)

	op.Dst = make([]byte, op.Size)
	n, err := reader.ReadAt(op.Dst, op.Offset)
	if err != nil && err != io.EOF {
		return err
	}
	op.BytesRead = n

	return nil
}

// Fallocate preallocates space on the backing file shared by hello and
// world, demonstrating the OpFallocate path end to end. hellofs's files
// are fixed-size and read-only, so this does not change what ReadFile
// reports; it only proves the space reservation itself works.
func (fs *helloFS) Fallocate(ctx context.Context, op *fuseops.OpFallocate) error {
	if op.Handle != fuseops.HandleID(helloInode) && op.Handle != fuseops.HandleID(worldInode) {
		return syscall.ENOENT
	}
	return fallocate.Fallocate(fs.backing, op.Offset, op.Length)
}

func (fs *helloFS) Destroy() {
	name := fs.backing.Name()
	fs.backing.Close()
	os.Remove(name)
}
