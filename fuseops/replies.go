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

import "time"

// The types in this file are the reply shapes an operation's response
// fields are drawn from. They are embedded directly into the relevant
// OpXxx struct (see ops.go) rather than being a separate value a
// FileSystem constructs and hands back: a FileSystem implementation
// populates op.Entry, op.Attributes and so on, in the same struct the
// request arrived in, the way jacobsa/fuse's legacy fuseops.Op types work.
// This is what gives the reply-of relation its static binding in Go: the
// compiler will not let an implementation of, say, ReadFile populate an
// Entry field, because ReadFileOp has no such field.

// ReplyEntry is embedded by every operation that resolves or creates a
// child inode by name.
type ReplyEntry struct {
	Entry ChildInodeEntry
}

// ReplyAttr is embedded by every operation whose reply is a bare stat.
type ReplyAttr struct {
	Attributes       InodeAttributes
	AttributesExpiry time.Time
}

// ReplyOpen is embedded by OpOpen and OpOpenDir.
type ReplyOpen struct {
	Handle    HandleID
	KeepCache bool
}

// ReplyWrite is embedded by OpWrite and OpCopyFileRange.
type ReplyWrite struct {
	Size uint32
}

// ReplyStatFs is embedded by OpStatFs.
type ReplyStatFs struct {
	Blocks     uint64
	BlocksFree uint64
	BlocksAvail uint64
	Files      uint64
	FilesFree  uint64
	BlockSize  uint32
	NameLength uint32
	FragSize   uint32
}

// ReplyReadLink is embedded by OpReadLink.
type ReplyReadLink struct {
	Target string
}

// ReplyLseek is embedded by OpLseek.
type ReplyLseek struct {
	Offset uint64
}

// ReplyXAttrSize is embedded by OpGetXAttr and OpListXAttr for the
// size-query form of those calls (Size == 0 in the request means "tell me
// how large the answer would be").
type ReplyXAttrSize struct {
	Size uint32
}

// ReplyXAttrData is embedded by OpGetXAttr and OpListXAttr for the
// data-returning form of those calls.
type ReplyXAttrData struct {
	Data []byte
}
