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
	"log"
	"os"
)

// Default values for the fields of MountConfig, matching spec.md §6's
// Configuration table.
const (
	DefaultPageSize      = 4096
	DefaultMaxBackground = 10
	DefaultMaxWriteSize  = 128 * 1024
	DefaultBufferSize    = 128*1024 + 512
	DefaultWorkerCount   = 16
)

// MountConfig holds configuration for a mount operation, and for the
// Connection and Server it constructs.
type MountConfig struct {
	// PageSize is the alignment of every buffer handed to the kernel for a
	// read. Must be a power of two and at least 8.
	PageSize int

	// MaxBackground bounds the number of in-flight requests, and is the
	// capacity of the underlying buffer pool. It is also advertised to the
	// kernel as max_background during the INIT handshake.
	MaxBackground int

	// MaxWriteSize bounds the body size of a single write the kernel will
	// send, and is advertised to the kernel during the INIT handshake.
	MaxWriteSize uint32

	// BufferSize is the capacity of each pooled per-request buffer. It must
	// be large enough to hold the largest message the kernel can send,
	// including the largest possible write body.
	BufferSize int

	// WorkerCount is the number of goroutines reading from /dev/fuse
	// concurrently. The spec's default is 16 reader tasks.
	WorkerCount int

	// InitFlags is the bitset of optional capability flags this file system
	// advertises accepting, intersected with what the kernel itself
	// advertises supporting during the INIT handshake.
	InitFlags uint32

	// OpContext, if non-nil, is the parent context for every op dispatched
	// to the file system. Defaults to context.Background().
	OpContext context.Context

	// DebugLogger, if non-nil, receives one line per received request and
	// one line per reply. Nil disables debug logging (the default).
	DebugLogger *log.Logger

	// ErrorLogger, if non-nil, receives one line for any error returned by
	// the file system that isn't expected in the ordinary course of
	// operation (see Connection.shouldLogError). Defaults to a logger
	// writing to os.Stderr; set to nil to disable.
	ErrorLogger *log.Logger

	// Options is a bag of mount(8)-style "-o" option strings, merged into
	// the data string passed to the mount(2) syscall beyond the core
	// fd/rootmode/user_id/group_id fields.
	Options map[string]string

	// EnableAsyncReads controls whether the kernel is allowed to issue
	// multiple concurrent read requests per open file handle.
	EnableAsyncReads bool

	// DisableWritebackCaching disables the kernel's writeback cache, which
	// is enabled by default.
	DisableWritebackCaching bool

	// EnableSymlinkCaching allows the kernel to cache symlink targets, if
	// it also advertises support for doing so.
	EnableSymlinkCaching bool

	// EnableNoOpenSupport tells the kernel that returning ENOSYS from
	// OpenFile means no further OpenFile calls are needed for this file
	// system (Linux >= 3.16), if the kernel advertises support.
	EnableNoOpenSupport bool

	// EnableNoOpendirSupport is the OpenDir analogue of
	// EnableNoOpenSupport (Linux >= 5.1).
	EnableNoOpendirSupport bool

	// EnableReaddirplus advertises support for FUSE_READDIRPLUS.
	EnableReaddirplus bool

	// EnableAutoReaddirplus, only meaningful alongside EnableReaddirplus,
	// lets the kernel choose between plain readdir and readdirplus
	// adaptively rather than always using the latter.
	EnableAutoReaddirplus bool

	// Subtype sets the FUSE subtype shown in /proc/mounts, e.g. "myfs".
	Subtype string

	// FSName sets the FUSE fsname shown in /proc/mounts.
	FSName string

	// ReadOnly requests a read-only mount.
	ReadOnly bool

	// AllowOther allows users other than the one performing the mount to
	// access the file system (requires user_allow_other in fuse.conf, or
	// root).
	AllowOther bool
}

// toConfig fills in zero-valued fields of cfg with their documented
// defaults, returning the result. The receiver is not mutated.
func (cfg MountConfig) withDefaults() MountConfig {
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxBackground == 0 {
		cfg.MaxBackground = DefaultMaxBackground
	}
	if cfg.MaxWriteSize == 0 {
		cfg.MaxWriteSize = DefaultMaxWriteSize
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.OpContext == nil {
		cfg.OpContext = context.Background()
	}
	if cfg.ErrorLogger == nil {
		cfg.ErrorLogger = log.New(os.Stderr, "fuse: ", log.Ldate|log.Ltime|log.Lmicroseconds)
	}
	return cfg
}
