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

package fusekernel

// SetattrValid is the bit set carried in SetattrIn.Valid, indicating which
// fields of the request the kernel actually wants applied.
type SetattrValid uint32

const (
	SetattrMode      SetattrValid = 1 << 0
	SetattrUID       SetattrValid = 1 << 1
	SetattrGID       SetattrValid = 1 << 2
	SetattrSize      SetattrValid = 1 << 3
	SetattrAtime     SetattrValid = 1 << 4
	SetattrMtime     SetattrValid = 1 << 5
	SetattrHandle    SetattrValid = 1 << 6
	SetattrAtimeNow  SetattrValid = 1 << 7
	SetattrMtimeNow  SetattrValid = 1 << 8
	SetattrLockOwner SetattrValid = 1 << 9
	SetattrCtime     SetattrValid = 1 << 10
)

// OpenFlags mirrors the flags a client may pass in OpenIn.Flags / observe in
// OpenOut.OpenFlags.
type OpenFlags uint32

const (
	// OpenDirectIO instructs the kernel to bypass the page cache for this
	// handle.
	OpenDirectIO OpenFlags = 1 << 0
	// OpenKeepCache preserves cached data across this open.
	OpenKeepCache OpenFlags = 1 << 1
	// OpenNonSeekable marks a handle that does not support seeking.
	OpenNonSeekable OpenFlags = 1 << 2
	// OpenCacheDir enables readdir caching for a directory handle.
	OpenCacheDir OpenFlags = 1 << 3
	// OpenStream indicates the underlying file is a stream, not seekable and
	// not supporting mmap.
	OpenStream OpenFlags = 1 << 4
)

// InitFlags mirrors the capability bits exchanged during the INIT handshake.
type InitFlags uint32

const (
	InitAsyncRead        InitFlags = 1 << 0
	InitPosixLocks       InitFlags = 1 << 1
	InitFileOps          InitFlags = 1 << 2
	InitAtomicOTrunc     InitFlags = 1 << 3
	InitExportSupport    InitFlags = 1 << 4
	InitBigWrites        InitFlags = 1 << 5
	InitDontMask         InitFlags = 1 << 6
	InitSpliceWrite      InitFlags = 1 << 7
	InitSpliceMove       InitFlags = 1 << 8
	InitSpliceRead       InitFlags = 1 << 9
	InitFlockLocks       InitFlags = 1 << 10
	InitHasIoctlDir      InitFlags = 1 << 11
	InitAutoInvalData    InitFlags = 1 << 12
	InitDoReaddirplus    InitFlags = 1 << 13
	InitReaddirplusAuto  InitFlags = 1 << 14
	InitAsyncDIO         InitFlags = 1 << 15
	InitWritebackCache   InitFlags = 1 << 16
	InitNoOpenSupport    InitFlags = 1 << 17
	InitParallelDirops   InitFlags = 1 << 18
	InitHandleKillpriv   InitFlags = 1 << 19
	InitPosixACL         InitFlags = 1 << 20
	InitAbortError       InitFlags = 1 << 21
	InitMaxPages         InitFlags = 1 << 22
	InitCacheSymlinks    InitFlags = 1 << 23
	InitNoOpendirSupport InitFlags = 1 << 24
	InitExplicitInvalData InitFlags = 1 << 25
)

// ReleaseFlags mirrors ReleaseIn.ReleaseFlags.
type ReleaseFlags uint32

const (
	ReleaseFlush       ReleaseFlags = 1 << 0
	ReleaseFlockUnlock ReleaseFlags = 1 << 1
)

// GetattrFlags mirrors GetattrIn.GetattrFlags.
type GetattrFlags uint32

const (
	// GetattrFh indicates Fh holds a valid open file handle, so the lookup
	// can be scoped to it rather than the path.
	GetattrFh GetattrFlags = 1 << 0
)

// ReadFlags mirrors ReadIn.ReadFlags.
type ReadFlags uint32

const (
	ReadLockOwner ReadFlags = 1 << 1
)

// WriteFlags mirrors WriteIn.WriteFlags.
type WriteFlags uint32

const (
	WriteCache     WriteFlags = 1 << 0
	WriteLockOwner WriteFlags = 1 << 1
	WriteKillPriv  WriteFlags = 1 << 2
)

// FsyncFlags mirrors FsyncIn.FsyncFlags and FlushIn's equivalent semantics.
type FsyncFlags uint32

const (
	FsyncFdatasync FsyncFlags = 1 << 0
)

// LkFlags mirrors LkIn.LkFlags.
type LkFlags uint32

const (
	LkFlock LkFlags = 1 << 0
)
