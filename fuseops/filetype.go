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

import "os"

// DirentType is the on-wire type tag of a directory entry, matching the
// kernel's d_type values (see dirent(3)).
type DirentType uint32

const (
	DT_Unknown DirentType = 0
	DT_FIFO    DirentType = 1
	DT_Char    DirentType = 2
	DT_Dir     DirentType = 4
	DT_Block   DirentType = 6
	DT_File    DirentType = 8
	DT_Link    DirentType = 10
	DT_Socket  DirentType = 12
)

// String returns a short human-readable name, used by debug logging.
func (t DirentType) String() string {
	switch t {
	case DT_Socket:
		return "socket"
	case DT_Link:
		return "symlink"
	case DT_File:
		return "file"
	case DT_Block:
		return "block_device"
	case DT_Dir:
		return "dir"
	case DT_Char:
		return "char_device"
	case DT_FIFO:
		return "named_pipe"
	default:
		return "unknown"
	}
}

// DirentTypeFromFileMode derives the wire type tag from a Go os.FileMode,
// the way a file system backed by a real directory tree usually has one on
// hand already.
func DirentTypeFromFileMode(m os.FileMode) DirentType {
	switch {
	case m&os.ModeSymlink != 0:
		return DT_Link
	case m.IsDir():
		return DT_Dir
	case m&os.ModeSocket != 0:
		return DT_Socket
	case m&os.ModeDevice != 0:
		if m&os.ModeCharDevice != 0 {
			return DT_Char
		}
		return DT_Block
	case m&os.ModeNamedPipe != 0:
		return DT_FIFO
	case m.IsRegular():
		return DT_File
	default:
		return DT_Unknown
	}
}
