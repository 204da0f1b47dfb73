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

import (
	"reflect"
	"unsafe"
)

// AbiRecord is implemented only by the fixed-size wire structs declared in
// this package. It carries no methods of its own; its purpose is to close
// the set of types that AsBytes and the decoder in internal/buffer are
// willing to reinterpret a byte prefix as. A type outside this package
// cannot implement it, since the unexported method lives here.
type AbiRecord interface {
	fuseAbiRecord()
}

// abiRecord is embedded by every wire struct to satisfy AbiRecord. It adds
// no storage: all of these types remain identical in layout to their C
// counterparts.
type abiRecord struct{}

func (abiRecord) fuseAbiRecord() {}

// The remaining declarations register every struct in kernel.go as a member
// of the closed AbiRecord set, by giving each the unexported marker method.
// Structs are listed in the same order as kernel.go.

func (Attr) fuseAbiRecord()            {}
func (Kstatfs) fuseAbiRecord()         {}
func (FileLock) fuseAbiRecord()        {}
func (InHeader) fuseAbiRecord()        {}
func (OutHeader) fuseAbiRecord()       {}
func (EntryOut) fuseAbiRecord()        {}
func (ForgetIn) fuseAbiRecord()        {}
func (ForgetOne) fuseAbiRecord()       {}
func (BatchForgetIn) fuseAbiRecord()   {}
func (GetattrIn) fuseAbiRecord()       {}
func (AttrOut) fuseAbiRecord()         {}
func (MknodIn) fuseAbiRecord()         {}
func (MkdirIn) fuseAbiRecord()         {}
func (RenameIn) fuseAbiRecord()        {}
func (Rename2In) fuseAbiRecord()       {}
func (LinkIn) fuseAbiRecord()          {}
func (SetattrIn) fuseAbiRecord()       {}
func (OpenIn) fuseAbiRecord()          {}
func (CreateIn) fuseAbiRecord()        {}
func (OpenOut) fuseAbiRecord()         {}
func (ReleaseIn) fuseAbiRecord()       {}
func (FlushIn) fuseAbiRecord()         {}
func (ReadIn) fuseAbiRecord()          {}
func (WriteIn) fuseAbiRecord()         {}
func (WriteOut) fuseAbiRecord()        {}
func (StatfsOut) fuseAbiRecord()       {}
func (FsyncIn) fuseAbiRecord()         {}
func (SetxattrIn) fuseAbiRecord()      {}
func (GetxattrIn) fuseAbiRecord()      {}
func (GetxattrOut) fuseAbiRecord()     {}
func (LkIn) fuseAbiRecord()            {}
func (LkOut) fuseAbiRecord()           {}
func (AccessIn) fuseAbiRecord()        {}
func (InitIn) fuseAbiRecord()          {}
func (InitOut) fuseAbiRecord()         {}
func (InterruptIn) fuseAbiRecord()     {}
func (BmapIn) fuseAbiRecord()          {}
func (BmapOut) fuseAbiRecord()         {}
func (FallocateIn) fuseAbiRecord()     {}
func (CopyFileRangeIn) fuseAbiRecord() {}
func (LseekIn) fuseAbiRecord()         {}
func (LseekOut) fuseAbiRecord()        {}

// AsBytes reinterprets raw as its underlying byte representation, with no
// copy. The returned slice aliases raw's memory and must not outlive it, nor
// be retained past the next mutation of raw.
func AsBytes[T AbiRecord](raw *T) []byte {
	n := int(unsafe.Sizeof(*raw))
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = uintptr(unsafe.Pointer(raw))
	sh.Len = n
	sh.Cap = n
	return b
}
