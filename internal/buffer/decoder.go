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

package buffer

import (
	"bytes"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/datenlord/async-fuse/internal/fusekernel"
)

// DecodeError is the taxonomy of ways a Decoder can reject a malformed
// request frame. Callers compare against the sentinels below with
// errors.Is; Error() carries the offending lengths for logging.
type DecodeError struct {
	Kind DecodeErrorKind
	msg  string
}

func (e *DecodeError) Error() string { return e.msg }

// Is lets errors.Is(err, ErrNotEnough) (etc.) match any DecodeError of the
// same Kind, regardless of the formatted message.
func (e *DecodeError) Is(target error) bool {
	other, ok := target.(*DecodeError)
	return ok && other.Kind == e.Kind
}

// DecodeErrorKind enumerates the distinct decode failure modes of §7 of the
// specification this package implements.
type DecodeErrorKind int

const (
	// ErrNotEnoughKind means the cursor held fewer bytes than required.
	ErrNotEnoughKind DecodeErrorKind = iota
	// ErrTooMuchDataKind means AllConsuming found bytes left over.
	ErrTooMuchDataKind
	// ErrAlignMismatchKind means the cursor's start address violated the
	// requested type's alignment.
	ErrAlignMismatchKind
	// ErrNumOverflowKind means a slice-length computation overflowed.
	ErrNumOverflowKind
	// ErrInvalidValueKind means a value was structurally fine but
	// semantically nonsensical (e.g. an unrecognized opcode).
	ErrInvalidValueKind
)

var (
	// ErrNotEnough matches any DecodeError signaling an under-length cursor.
	ErrNotEnough = &DecodeError{Kind: ErrNotEnoughKind, msg: "not enough bytes remaining"}
	// ErrTooMuchData matches any DecodeError signaling leftover bytes.
	ErrTooMuchData = &DecodeError{Kind: ErrTooMuchDataKind, msg: "too much data: bytes remained after decoding"}
	// ErrAlignMismatch matches any DecodeError signaling a misaligned fetch.
	ErrAlignMismatch = &DecodeError{Kind: ErrAlignMismatchKind, msg: "cursor address is not correctly aligned"}
	// ErrNumOverflow matches any DecodeError signaling an overflowed size computation.
	ErrNumOverflow = &DecodeError{Kind: ErrNumOverflowKind, msg: "slice length computation overflowed"}
	// ErrInvalidValue matches any DecodeError signaling a semantically invalid value.
	ErrInvalidValue = &DecodeError{Kind: ErrInvalidValueKind, msg: "invalid value"}
)

func notEnough(need, have int) error {
	return &DecodeError{Kind: ErrNotEnoughKind, msg: fmt.Sprintf("need %d bytes, have %d", need, have)}
}

func alignMismatch(addr uintptr, align int) error {
	return &DecodeError{Kind: ErrAlignMismatchKind, msg: fmt.Sprintf("address %#x is not a multiple of %d", addr, align)}
}

// Decoder is a cursor over a borrowed byte slice, yielding zero-copy typed
// views into it. It never allocates and never copies the bytes it reads
// from; every Fetch* method only narrows the remaining slice.
type Decoder struct {
	remaining []byte
}

// NewDecoder wraps b for decoding. b is borrowed, not copied: the returned
// Decoder, and any view later fetched from it, must not outlive b.
func NewDecoder(b []byte) Decoder {
	return Decoder{remaining: b}
}

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.remaining)
}

// Fetch advances the cursor by sizeof(T) and returns a pointer aliasing
// that prefix of the cursor, reinterpreted as *T. It fails with ErrNotEnough
// if fewer than sizeof(T) bytes remain, or ErrAlignMismatch if the cursor's
// current address is not a multiple of alignof(T).
func Fetch[T fusekernel.AbiRecord](d *Decoder) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))

	if len(d.remaining) < size {
		return nil, notEnough(size, len(d.remaining))
	}

	addr := uintptr(unsafe.Pointer(&d.remaining[0]))
	align := uintptr(unsafe.Alignof(zero))
	if addr%align != 0 {
		return nil, alignMismatch(addr, int(align))
	}

	v := (*T)(unsafe.Pointer(&d.remaining[0]))
	d.remaining = d.remaining[size:]
	return v, nil
}

// FetchSlice advances the cursor by n*sizeof(T) and returns a slice
// aliasing that prefix, reinterpreted as []T. It fails with ErrNumOverflow
// if n*sizeof(T) overflows an int, ErrNotEnough if too few bytes remain, or
// ErrAlignMismatch as in Fetch.
func FetchSlice[T fusekernel.AbiRecord](d *Decoder, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))

	if n < 0 || (size > 0 && n > (1<<62)/size) {
		return nil, ErrNumOverflow
	}
	total := n * size

	if len(d.remaining) < total {
		return nil, notEnough(total, len(d.remaining))
	}

	if total > 0 {
		addr := uintptr(unsafe.Pointer(&d.remaining[0]))
		align := uintptr(unsafe.Alignof(zero))
		if addr%align != 0 {
			return nil, alignMismatch(addr, int(align))
		}
	}

	var out []T
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&out))
	if total > 0 {
		sh.Data = uintptr(unsafe.Pointer(&d.remaining[0]))
	}
	sh.Len = n
	sh.Cap = n

	d.remaining = d.remaining[total:]
	return out, nil
}

// FetchAll consumes and returns every remaining byte.
func (d *Decoder) FetchAll() []byte {
	b := d.remaining
	d.remaining = nil
	return b
}

// CBytes is a borrowed byte run terminated by, but not including, a NUL
// byte. It exists to give fetched C strings a distinct type from an
// arbitrary []byte, the way the Rust original's CBytes newtype does.
type CBytes []byte

// FetchCBytes consumes bytes up to and including the first NUL byte,
// returning the pre-NUL portion. It fails with ErrNotEnough if no NUL byte
// is present in the remaining cursor.
func (d *Decoder) FetchCBytes() (CBytes, error) {
	i := bytes.IndexByte(d.remaining, 0)
	if i < 0 {
		return nil, notEnough(len(d.remaining)+1, len(d.remaining))
	}

	cb := CBytes(d.remaining[:i])
	d.remaining = d.remaining[i+1:]
	return cb, nil
}

// AllConsuming runs f, then requires the cursor to be fully drained
// afterward; if bytes remain, it returns ErrTooMuchData (f's own result, if
// any, takes precedence).
func AllConsuming(d *Decoder, f func(*Decoder) error) error {
	if err := f(d); err != nil {
		return err
	}
	if len(d.remaining) != 0 {
		return &DecodeError{Kind: ErrTooMuchDataKind, msg: fmt.Sprintf("%d bytes left over after decoding", len(d.remaining))}
	}
	return nil
}
