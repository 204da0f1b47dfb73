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
	"io"
	"log"
	"os"
	"syscall"

	"github.com/datenlord/async-fuse/fuseops"
	"github.com/datenlord/async-fuse/internal/buffer"
	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// Ask the Linux kernel for larger read requests. Reading a page at a time
// is a drag; ask for a larger size (cf. jacobsa/fuse's connection.go,
// which documents the kernel-side plumbing this constant feeds).
const maxReadahead = 1 << 20

// Connection represents the /dev/fuse endpoint for a single mount: it owns
// the descriptor, the buffer pool requests are read into, and the
// negotiated protocol version. It implements spec.md §4.E.
//
// Connection does not itself dispatch requests to a fuseops.FileSystem;
// that is Server's job. Connection only knows how to read one message at
// a time and write one reply at a time.
type Connection struct {
	cfg         MountConfig
	debugLogger *log.Logger
	errorLogger *log.Logger

	dev      *os.File
	protocol fusekernel.Protocol
	pool     *buffer.Pool
}

// newConnection wraps dev, which must already be attached to a mount
// point, and performs the FUSE_INIT handshake (spec.md §4.I step 1).
func newConnection(cfg MountConfig, dev *os.File) (*Connection, error) {
	cfg = cfg.withDefaults()

	c := &Connection{
		cfg:         cfg,
		debugLogger: cfg.DebugLogger,
		errorLogger: cfg.ErrorLogger,
		dev:         dev,
		pool:        buffer.NewPool(cfg.MaxBackground, cfg.BufferSize, cfg.PageSize),
	}

	if err := c.handshake(); err != nil {
		c.Close()
		return nil, fmt.Errorf("fuse: init handshake: %w", err)
	}

	return c, nil
}

// handshake performs spec.md §4.I's single-shot initialization: read the
// first message, assert it is FUSE_INIT, and reply with the negotiated
// parameters. A violation of the "first message is FUSE_INIT" or
// "declared length matches bytes read" invariants is a protocol assertion
// failure and panics, per §7's "unrecoverable" classification.
func (c *Connection) handshake() error {
	buf, err := c.pool.Acquire(c.cfg.OpContext)
	if err != nil {
		return err
	}
	defer c.pool.Release(buf)

	n, err := c.dev.Read(buf.Full())
	if err != nil {
		return fmt.Errorf("reading init message: %w", err)
	}
	buf.SetLen(n)

	var inMsg buffer.InMessage
	if err := inMsg.Init(buf.Bytes()); err != nil {
		panic(fmt.Sprintf("fuse: malformed init message: %v", err))
	}

	header := inMsg.Header()
	if fusekernel.Opcode(header.Opcode) != fusekernel.OpInit {
		panic(fmt.Sprintf("fuse: expected FUSE_INIT as first message, got opcode %d", header.Opcode))
	}

	op, err := fuseops.ParseOp(header, inMsg.Decoder())
	if err != nil {
		panic(fmt.Sprintf("fuse: malformed FUSE_INIT body: %v", err))
	}
	initOp := op.(*fuseops.OpInit)

	kernelProto := fusekernel.Protocol{Major: initOp.Major, Minor: initOp.Minor}
	minProto := fusekernel.Protocol{Major: fusekernel.KernelVersion, Minor: fusekernel.MinKernelMinorVersion}
	if kernelProto.LT(minProto) {
		return fmt.Errorf("kernel protocol %+v is older than the minimum supported %+v", kernelProto, minProto)
	}

	c.protocol = fusekernel.Protocol{Major: fusekernel.KernelVersion, Minor: fusekernel.KernelMinorVersion}
	if kernelProto.LT(c.protocol) {
		c.protocol = kernelProto
	}

	out := fusekernel.InitOut{
		Major:               c.protocol.Major,
		Minor:               c.protocol.Minor,
		MaxReadahead:        maxReadahead,
		MaxBackground:       uint16(c.cfg.MaxBackground),
		CongestionThreshold: 10,
		MaxWrite:            c.cfg.MaxWriteSize,
		TimeGran:            1,
		MaxPages:            0,
	}

	var flags fusekernel.InitFlags
	flags |= fusekernel.InitBigWrites
	if c.cfg.EnableAsyncReads {
		flags |= fusekernel.InitAsyncRead
	}
	if !c.cfg.DisableWritebackCaching {
		flags |= fusekernel.InitWritebackCache
	}
	if c.cfg.EnableSymlinkCaching && fusekernel.InitFlags(initOp.Flags)&fusekernel.InitCacheSymlinks != 0 {
		flags |= fusekernel.InitCacheSymlinks
	}
	if c.cfg.EnableNoOpenSupport && fusekernel.InitFlags(initOp.Flags)&fusekernel.InitNoOpenSupport != 0 {
		flags |= fusekernel.InitNoOpenSupport
	}
	if c.cfg.EnableNoOpendirSupport && fusekernel.InitFlags(initOp.Flags)&fusekernel.InitNoOpendirSupport != 0 {
		flags |= fusekernel.InitNoOpendirSupport
	}
	if c.cfg.EnableReaddirplus {
		flags |= fusekernel.InitDoReaddirplus
		if c.cfg.EnableAutoReaddirplus {
			flags |= fusekernel.InitReaddirplusAuto
		}
	}
	flags |= fusekernel.InitFlags(c.cfg.InitFlags)
	out.Flags = uint32(flags)

	var outMsg buffer.OutMessage
	outMsg.Reset()
	*outMsg.OutHeader() = fusekernel.OutHeader{Unique: header.Unique}
	outMsg.Append(buffer.AsAbiBytes(&out))
	outMsg.OutHeader().Len = uint32(outMsg.Len())

	return c.writeRaw(outMsg.Bytes())
}

// readMessage reads the next message from the kernel into a freshly
// acquired pool buffer. The caller must invoke the returned release func
// once it is done with the returned InMessage, typically after the reply
// has been sent.
//
// It returns io.EOF once the kernel has torn down the mount (read
// returned ENODEV), matching spec.md §4.I's termination rule. EINTR and
// EAGAIN are retried transparently; any other read error is returned
// as-is and is fatal to the caller's read loop.
func (c *Connection) readMessage() (*buffer.InMessage, func(), error) {
	buf, err := c.pool.Acquire(c.cfg.OpContext)
	if err != nil {
		return nil, nil, err
	}

	for {
		n, err := c.dev.Read(buf.Full())
		if err != nil {
			if pe, ok := err.(*os.PathError); ok {
				switch pe.Err {
				case syscall.ENODEV:
					c.pool.Release(buf)
					return nil, nil, io.EOF
				case syscall.EINTR, syscall.EAGAIN:
					continue
				}
			}
			c.pool.Release(buf)
			return nil, nil, err
		}

		buf.SetLen(n)
		inMsg := &buffer.InMessage{}
		if err := inMsg.Init(buf.Bytes()); err != nil {
			c.pool.Release(buf)
			panic(fmt.Sprintf("fuse: malformed request: %v", err))
		}

		release := func() { c.pool.Release(buf) }
		return inMsg, release, nil
	}
}

// writeRaw writes msg to the kernel in one system call, asserting that
// every byte was accepted (spec.md §4.E's writer contract).
func (c *Connection) writeRaw(msg []byte) error {
	n, err := syscall.Write(int(c.dev.Fd()), msg)
	if err != nil {
		return err
	}
	if n != len(msg) {
		return fmt.Errorf("fuse: short write: wrote %d bytes, expected %d", n, len(msg))
	}
	return nil
}

// writeSuccess builds and sends a success reply for the request named by
// unique, whose body is the fragments already accumulated in sink.
func (c *Connection) writeSuccess(unique uint64, sink *buffer.FragmentSink) error {
	var outMsg buffer.OutMessage
	outMsg.Reset()

	total := outMsg.Len() + sink.Len()
	if total > 1<<32-1 {
		panic(fmt.Sprintf("fuse: reply for request %d overflows out_header.len (%d bytes)", unique, total))
	}

	*outMsg.OutHeader() = fusekernel.OutHeader{
		Len:    uint32(total),
		Error:  0,
		Unique: unique,
	}

	frags := outMsg.WriteFragments(sink)
	return c.writev(frags)
}

// writeErrno builds and sends an error reply: a bare OutHeader with no
// body, error set to the negated errno (spec.md §4.G's reply_err).
func (c *Connection) writeErrno(unique uint64, errno syscall.Errno) error {
	var outMsg buffer.OutMessage
	outMsg.Reset()
	*outMsg.OutHeader() = fusekernel.OutHeader{
		Len:    uint32(outMsg.Len()),
		Error:  -int32(errno),
		Unique: unique,
	}
	return c.writeRaw(outMsg.Bytes())
}

// writev writes frags to the kernel as a single vectored write, the same
// atomicity guarantee writeRaw gives a contiguous buffer.
func (c *Connection) writev(frags [][]byte) error {
	if len(frags) == 1 {
		return c.writeRaw(frags[0])
	}

	n, err := writev(int(c.dev.Fd()), frags)
	if err != nil {
		return err
	}

	want := 0
	for _, f := range frags {
		want += len(f)
	}
	if n != want {
		return fmt.Errorf("fuse: short vectored write: wrote %d bytes, expected %d", n, want)
	}
	return nil
}

// Close closes the underlying /dev/fuse descriptor. Must not be called
// until every request read from the connection has been replied to.
func (c *Connection) Close() error {
	return c.dev.Close()
}

// logDebug writes a single line to the configured debug logger, if any,
// tagging it with the request's unique id. It is a no-op when no
// DebugLogger was configured, which is the common case outside of
// development.
func (c *Connection) logDebug(unique uint64, format string, v ...interface{}) {
	if c.debugLogger == nil {
		return
	}
	where := callerFileLine(2)
	c.debugLogger.Printf("%s Op 0x%08x] "+format, append([]interface{}{where, unique}, v...)...)
}

// logError writes a single line to the configured error logger, if any,
// describing the error an op's handler returned.
func (c *Connection) logError(unique uint64, op fuseops.Operation, err error) {
	if c.errorLogger == nil {
		return
	}
	c.errorLogger.Printf("Op 0x%08x %s] -> Error: %v", unique, op.Name(), err)
}
