// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package fuse

import (
	"errors"
	"syscall"
)

// Errors corresponding to kernel error numbers. These may be returned by a
// fuseops.FileSystem method and are relayed to the kernel as the negated
// value in the reply's out_header.error field (§7 of the design this
// package implements). Plain syscall.Errno values work equally well; these
// constants exist for parity with the names jacobsa/fuse's FileSystem
// implementations have always returned.
const (
	EIO       = syscall.EIO
	ENOENT    = syscall.ENOENT
	ENOSYS    = syscall.ENOSYS
	ENOTEMPTY = syscall.ENOTEMPTY
	EINVAL    = syscall.EINVAL
	EEXIST    = syscall.EEXIST
	ENOTDIR   = syscall.ENOTDIR
	EISDIR    = syscall.EISDIR
	EPERM     = syscall.EPERM
	ERANGE    = syscall.ERANGE
	ENODATA   = syscall.ENODATA
)

// ErrExternallyManagedMountPoint is returned by unmount when the mount
// point is a /dev/fd/N descriptor handed to us by an external mounting
// process (e.g. mount(8) using the fusermount helper's fd-passing
// protocol), which owns tearing it down itself.
var ErrExternallyManagedMountPoint = errors.New("fuse: mount point is externally managed")
