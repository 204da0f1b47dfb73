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

import (
	"time"

	"github.com/datenlord/async-fuse/internal/buffer"
	"github.com/datenlord/async-fuse/internal/fusekernel"
)

func encodeAttr(sink *buffer.FragmentSink, r ReplyAttr, id InodeID, now time.Time) {
	sec, nsec := durationToKernel(r.AttributesExpiry, now)
	out := fusekernel.AttrOut{
		AttrValid:     sec,
		AttrValidNsec: nsec,
		Attr:          r.Attributes.toFuseAttr(id),
	}
	buffer.AddRecord(sink, &out)
}

func encodeOpen(sink *buffer.FragmentSink, r ReplyOpen) {
	var flags uint32
	if r.KeepCache {
		flags |= uint32(fusekernel.OpenKeepCache)
	}
	out := fusekernel.OpenOut{Fh: uint64(r.Handle), OpenFlags: flags}
	buffer.AddRecord(sink, &out)
}

// EncodeReply serializes op's populated response fields into sink, ready to
// be written out as the body following an OutHeader. It must not be called
// for an operation whose Replies method reports false (FORGET,
// BATCH_FORGET, INTERRUPT have no reply at all, not even an empty one).
func EncodeReply(op Operation, now time.Time, sink *buffer.FragmentSink) error {
	switch o := op.(type) {
	case *OpLookUp:
		out := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &out)

	case *OpGetAttr:
		encodeAttr(sink, o.ReplyAttr, o.OpHeader().ID, now)

	case *OpSetAttr:
		encodeAttr(sink, o.ReplyAttr, o.OpHeader().ID, now)

	case *OpReadLink:
		sink.Add([]byte(o.Target))

	case *OpSymLink:
		out := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &out)

	case *OpMkNode:
		out := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &out)

	case *OpMkDir:
		out := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &out)

	case *OpLink:
		out := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &out)

	case *OpOpenFile:
		encodeOpen(sink, o.ReplyOpen)

	case *OpCreateFile:
		entryOut := toEntryOut(o.Entry, now)
		buffer.AddRecord(sink, &entryOut)
		encodeOpen(sink, o.ReplyOpen)

	case *OpOpenDir:
		encodeOpen(sink, o.ReplyOpen)

	case *OpReadDir:
		sink.Add(o.Dst[:o.BytesWritten])

	case *OpReadFile:
		sink.Add(o.Dst[:o.BytesRead])

	case *OpWriteFile:
		out := fusekernel.WriteOut{Size: o.Size}
		buffer.AddRecord(sink, &out)

	case *OpStatFS:
		out := fusekernel.StatfsOut{St: fusekernel.Kstatfs{
			Blocks:  o.Blocks,
			Bfree:   o.BlocksFree,
			Bavail:  o.BlocksAvail,
			Files:   o.Files,
			Ffree:   o.FilesFree,
			Bsize:   o.BlockSize,
			Namelen: o.NameLength,
			Frsize:  o.FragSize,
		}}
		buffer.AddRecord(sink, &out)

	case *OpGetXAttr:
		if o.Size == 0 {
			out := fusekernel.GetxattrOut{Size: o.ReplyXAttrSize.Size}
			buffer.AddRecord(sink, &out)
		} else {
			sink.Add(o.Data)
		}

	case *OpListXAttr:
		if o.Size == 0 {
			out := fusekernel.GetxattrOut{Size: o.ReplyXAttrSize.Size}
			buffer.AddRecord(sink, &out)
		} else {
			sink.Add(o.Data)
		}

	case *OpBmap:
		out := fusekernel.BmapOut{Block: o.Result}
		buffer.AddRecord(sink, &out)

	case *OpCopyFileRange:
		out := fusekernel.WriteOut{Size: o.Size}
		buffer.AddRecord(sink, &out)

	case *OpLseek:
		out := fusekernel.LseekOut{Offset: uint64(o.Offset)}
		buffer.AddRecord(sink, &out)

	// OpUnlink, OpRmDir, OpRename, OpAccess, OpFallocate, OpSetXAttr,
	// OpRemoveXAttr, OpFlushFile, OpSyncFile, OpSyncDir,
	// OpReleaseFileHandle, OpReleaseDirHandle all have an empty-body
	// success reply: just the OutHeader, no fragments.
	default:
	}

	return nil
}
