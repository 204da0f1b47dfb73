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

package fuse

import (
	"context"
	"fmt"

	"github.com/datenlord/async-fuse/fuseops"
)

// MountedFileSystem tracks the status of a single Mount call, letting the
// caller wait for the file system to be unmounted.
type MountedFileSystem struct {
	dir string

	joinStatus          error
	joinStatusAvailable chan struct{}
}

// Dir returns the directory on which the file system is mounted.
func (mfs *MountedFileSystem) Dir() string {
	return mfs.dir
}

// Join blocks until the file system has been unmounted, returning the
// error (if any) with which serving stopped. It returns ctx.Err() if ctx
// is done first; the mount itself is left running in that case.
func (mfs *MountedFileSystem) Join(ctx context.Context) error {
	select {
	case <-mfs.joinStatusAvailable:
		return mfs.joinStatus
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mount mounts fs at dir, and returns once the kernel has accepted the
// mount and the FUSE_INIT handshake has completed. The file system is
// then served in background goroutines until it is unmounted (see
// Unmount) or the kernel severs the connection; use the returned
// MountedFileSystem's Join method to wait for that to happen.
//
// This is spec.md §6's entry point, wiring together openDevFuse and
// mountDevFuse (the mount(2) half), newConnection (the INIT handshake),
// and Server (the steady-state dispatch loop).
func Mount(dir string, fs fuseops.FileSystem, cfg *MountConfig) (*MountedFileSystem, error) {
	var effective MountConfig
	if cfg != nil {
		effective = *cfg
	}
	effective = effective.withDefaults()

	dev, err := openDevFuse()
	if err != nil {
		return nil, fmt.Errorf("fuse: open /dev/fuse: %w", err)
	}

	if err := mountDevFuse(dev, dir, effective); err != nil {
		dev.Close()
		return nil, fmt.Errorf("fuse: mount: %w", err)
	}

	conn, err := newConnection(effective, dev)
	if err != nil {
		unmount(dir)
		return nil, fmt.Errorf("fuse: connect: %w", err)
	}

	mfs := &MountedFileSystem{
		dir:                 dir,
		joinStatusAvailable: make(chan struct{}),
	}

	server := NewServer(fs)

	go func() {
		mfs.joinStatus = server.Serve(conn)
		conn.Close()
		close(mfs.joinStatusAvailable)
	}()

	return mfs, nil
}
