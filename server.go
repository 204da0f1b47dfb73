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
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"sync"
	"syscall"
	"time"

	"github.com/jacobsa/reqtrace"
	"golang.org/x/sys/unix"

	"github.com/datenlord/async-fuse/fuseops"
	"github.com/datenlord/async-fuse/internal/buffer"
)

// fTraceByPID enables a hacky mode that groups every op issued by a given
// PID into one reqtrace span, mirroring jacobsa/fuse's
// fuseops.commonOp.maybeTraceByPID. Not something to turn on in
// production; the process-exit poll below can leak a goroutine if a PID
// is reused or kill(2) is denied.
var fTraceByPID = flag.Bool(
	"fuse.trace_by_pid",
	false,
	"Group requests into reqtrace spans by the PID that issued them.")

var gPIDMapMu sync.Mutex

// gPIDMap holds the traced context already opened for a PID, so that
// every request from that process shares one span instead of opening a
// new one each time.
//
// GUARDED_BY(gPIDMapMu)
var gPIDMap = make(map[int]context.Context)

// maybeTraceByPID returns in unchanged unless reqtrace is enabled and
// -fuse.trace_by_pid was passed, in which case it returns a context
// carrying a trace shared by every request from pid.
func maybeTraceByPID(in context.Context, pid int) context.Context {
	if !reqtrace.Enabled() || !*fTraceByPID {
		return in
	}

	gPIDMapMu.Lock()
	defer gPIDMapMu.Unlock()

	if existing, ok := gPIDMap[pid]; ok {
		return existing
	}

	out, report := reqtrace.Trace(in, fmt.Sprintf("PID %v", pid))
	gPIDMap[pid] = out
	go reportWhenPIDGone(pid, report)

	return out
}

// reportWhenPIDGone polls for pid's exit, closes its trace and evicts it
// from gPIDMap once the process is gone.
func reportWhenPIDGone(pid int, report reqtrace.ReportFunc) {
	const pollPeriod = 50 * time.Millisecond
	for {
		err := unix.Kill(pid, 0)
		if err == unix.ESRCH {
			break
		}
		if err == unix.EPERM {
			log.Printf("fuse: kill(2) on PID %d denied; leaking its trace", pid)
			return
		}
		if err != nil {
			panic(fmt.Sprintf("fuse: kill(%d, 0): %v", pid, err))
		}
		time.Sleep(pollPeriod)
	}

	report(nil)

	gPIDMapMu.Lock()
	delete(gPIDMap, pid)
	gPIDMapMu.Unlock()
}

// Server relays requests read from a Connection to a fuseops.FileSystem,
// implementing the steady-state half of spec.md §4.I's dispatch loop.
//
// Serve runs cfg.WorkerCount goroutines each performing a blocking read
// from the connection; every message that comes back spawns its own
// goroutine to decode, dispatch and reply, so a slow file system call
// never blocks the next read. This is the Go rendering of the
// specification's "cooperative task scheduling with a work-stealing
// executor over a small pool of reader tasks": the reader goroutines are
// the pool, and Go's own scheduler plays the role of the work-stealing
// executor for the per-request dispatch goroutines it spawns.
type Server struct {
	fs fuseops.FileSystem
}

// NewServer returns a Server that relays requests to fs.
func NewServer(fs fuseops.FileSystem) *Server {
	return &Server{fs: fs}
}

// Serve reads and dispatches requests from conn until the kernel tears
// down the mount (read returns ENODEV) or a fatal I/O error occurs. It
// calls fs.Destroy exactly once before returning.
func (s *Server) Serve(conn *Connection) error {
	defer s.fs.Destroy()

	workers := conn.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.readLoop(conn)
		}()
	}

	wg.Wait()
	close(errs)

	var first error
	for err := range errs {
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// readLoop is the body of one reader goroutine: read a message, hand it
// off to its own dispatch goroutine, and go back to reading immediately.
func (s *Server) readLoop(conn *Connection) error {
	for {
		inMsg, release, err := conn.readMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		go s.handle(conn, inMsg, release)
	}
}

// handle decodes, dispatches and replies to a single request. It always
// releases the request's pool buffer, and always sends exactly one reply
// (ReplyContext.closeUnreplied covers the case where dispatch panics or a
// handler forgets to reply).
func (s *Server) handle(conn *Connection, inMsg *buffer.InMessage, release func()) {
	defer release()

	header := inMsg.Header()
	op, err := fuseops.ParseOp(header, inMsg.Decoder())
	if err != nil {
		errno := syscall.EINVAL
		var unknown *fuseops.UnknownOpcodeError
		if errors.As(err, &unknown) {
			errno = syscall.ENOSYS
		}
		conn.logDebug(header.Unique, "<- decode error for opcode %d: %v", header.Opcode, err)
		_ = conn.writeErrno(header.Unique, errno)
		return
	}

	rc := newReplyContext(conn, *header, op)
	defer rc.closeUnreplied()

	conn.logDebug(header.Unique, "<- %s", op.DebugString())

	ctx := maybeTraceByPID(conn.cfg.OpContext, int(header.PID))
	ctx, report := reqtrace.StartSpan(ctx, op.Name())

	dispatchErr := fuseops.Dispatch(ctx, s.fs, op)
	report(dispatchErr)
	if dispatchErr != nil {
		errno := errnoFromError(dispatchErr)
		if s.shouldLogError(op, errno) {
			conn.logError(header.Unique, op, dispatchErr)
		}
		conn.logDebug(header.Unique, "-> Error: %v", dispatchErr)
		_ = rc.ReplyErr(errno)
		return
	}

	conn.logDebug(header.Unique, "-> %s OK", op.Name())
	_ = rc.Reply(time.Now())
}

// errnoFromError extracts a syscall.Errno from a file system's returned
// error, defaulting to EIO for anything else (spec.md §7: "Filesystem
// errors: any errno returned by the user filesystem").
func errnoFromError(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}

// shouldLogError skips errors that happen as a matter of course and would
// otherwise spook users watching the error log, mirroring
// jacobsa/fuse's Connection.shouldLogError.
func (s *Server) shouldLogError(op fuseops.Operation, errno syscall.Errno) bool {
	switch op.(type) {
	case *fuseops.OpLookUp:
		if errno == syscall.ENOENT {
			return false
		}
	case *fuseops.OpGetXAttr, *fuseops.OpListXAttr:
		if errno == syscall.ENOSYS || errno == syscall.ENODATA || errno == syscall.ERANGE {
			return false
		}
	}
	return true
}
