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
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/datenlord/async-fuse/fuseops"
	"github.com/datenlord/async-fuse/internal/buffer"
	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// ReplyContext is constructed by Connection for each op read from the
// kernel and handed to the worker goroutine dispatching it. It holds the
// only path back to the kernel for that request's reply, and enforces
// that exactly one reply is ever sent.
//
// A ReplyContext must not be copied after first use; pass it by pointer.
type ReplyContext struct {
	conn   *Connection
	header fusekernel.InHeader
	op     fuseops.Operation

	mu      sync.Mutex
	replied bool
}

func newReplyContext(conn *Connection, header fusekernel.InHeader, op fuseops.Operation) *ReplyContext {
	return &ReplyContext{conn: conn, header: header, op: op}
}

// Reply sends a success reply built from op's populated response fields.
// now is the wall-clock time used to convert absolute cache-expiration
// times on the op into the kernel's relative-duration wire form. It
// panics if called more than once, or after ReplyErr, for the same
// context — the at-most-one-reply invariant of spec.md §4.G.
func (rc *ReplyContext) Reply(now time.Time) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.replied {
		panic(fmt.Sprintf("fuse: Reply called twice for request %d", rc.header.Unique))
	}
	rc.replied = true

	if !rc.op.Replies() {
		return nil
	}

	var sink buffer.FragmentSink
	if err := fuseops.EncodeReply(rc.op, now, &sink); err != nil {
		return rc.writeErr(syscall.EIO)
	}

	return rc.conn.writeSuccess(rc.header.Unique, &sink)
}

// ReplyErr sends an error reply carrying errno, with no body. It panics
// under the same double-reply conditions as Reply.
func (rc *ReplyContext) ReplyErr(errno syscall.Errno) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.replied {
		panic(fmt.Sprintf("fuse: ReplyErr called twice for request %d", rc.header.Unique))
	}
	rc.replied = true

	if !rc.op.Replies() {
		return nil
	}

	return rc.writeErr(errno)
}

// writeErr assumes rc.mu is held and rc.replied has already been set.
func (rc *ReplyContext) writeErr(errno syscall.Errno) error {
	return rc.conn.writeErrno(rc.header.Unique, errno)
}

// closeUnreplied is invoked by the dispatch worker's deferred cleanup.
// Per the "Unreplied context" Open Question resolution in DESIGN.md, a
// handler that returns without having called Reply/ReplyErr gets an
// implicit EIO on its behalf, logged so the gap is visible, rather than
// silently leaving the kernel request to time out.
func (rc *ReplyContext) closeUnreplied() {
	rc.mu.Lock()
	alreadyReplied := rc.replied
	rc.replied = true
	rc.mu.Unlock()

	if alreadyReplied {
		return
	}

	if rc.conn.errorLogger != nil {
		rc.conn.errorLogger.Printf(
			"Op 0x%08x %T] dropped without a reply; sending EIO", rc.header.Unique, rc.op)
	}

	if !rc.op.Replies() {
		return
	}
	_ = rc.conn.writeErrno(rc.header.Unique, syscall.EIO)
}

// callerFileLine is used by Connection's debug logging to attribute a log
// line to its call site, matching jacobsa/fuse's debugLog behavior.
func callerFileLine(calldepth int) string {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		file = "???"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
