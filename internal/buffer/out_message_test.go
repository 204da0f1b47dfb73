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
	"crypto/rand"
	"io"
	"testing"
)

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, b)
	return b, err
}

func TestOutMessageAppend(t *testing.T) {
	var om OutMessage
	om.Reset()

	const wantPayloadStr = "tacoburrito"
	wantPayload := []byte(wantPayloadStr)
	om.Append(wantPayload[:4])
	om.Append(wantPayload[4:])

	wantLen := OutMessageHeaderSize + len(wantPayloadStr)

	if got, want := om.Len(), wantLen; got != want {
		t.Errorf("om.Len() = %d, want %d", got, want)
	}

	b := om.Bytes()
	if got, want := len(b), wantLen; got != want {
		t.Fatalf("len(om.Bytes()) = %d, want %d", got, want)
	}

	want := append(make([]byte, OutMessageHeaderSize), wantPayload...)
	if !bytes.Equal(b, want) {
		t.Error("messages differ")
	}
}

func TestOutMessageAppendString(t *testing.T) {
	var om OutMessage
	om.Reset()

	const wantPayload = "tacoburrito"
	om.AppendString(wantPayload[:4])
	om.AppendString(wantPayload[4:])

	wantLen := OutMessageHeaderSize + len(wantPayload)

	if got, want := om.Len(), wantLen; got != want {
		t.Errorf("om.Len() = %d, want %d", got, want)
	}

	b := om.Bytes()
	if got, want := len(b), wantLen; got != want {
		t.Fatalf("len(om.Bytes()) = %d, want %d", got, want)
	}

	want := append(make([]byte, OutMessageHeaderSize), wantPayload...)
	if !bytes.Equal(b, want) {
		t.Error("messages differ")
	}
}

func TestOutMessageShrinkTo(t *testing.T) {
	var om OutMessage
	om.Reset()
	om.AppendString("taco")
	om.AppendString("burrito")

	om.ShrinkTo(OutMessageHeaderSize + len("taco"))

	wantLen := OutMessageHeaderSize + len("taco")

	if got, want := om.Len(), wantLen; got != want {
		t.Errorf("om.Len() = %d, want %d", got, want)
	}

	b := om.Bytes()
	if got, want := len(b), wantLen; got != want {
		t.Fatalf("len(om.Bytes()) = %d, want %d", got, want)
	}

	want := append(make([]byte, OutMessageHeaderSize), "taco"...)
	if !bytes.Equal(b, want) {
		t.Error("messages differ")
	}
}

func TestOutMessageReset(t *testing.T) {
	var om OutMessage
	om.Reset()
	h := om.OutHeader()

	const trials = 10
	for i := 0; i < trials; i++ {
		garbage, err := randBytes(128)
		if err != nil {
			t.Fatalf("randBytes: %v", err)
		}

		p := om.GrowNoZero(128)
		if p == nil {
			t.Fatal("GrowNoZero failed")
		}
		dst := (*[128]byte)(p)
		copy(dst[:], garbage)

		om.Reset()

		if got, want := om.Len(), OutMessageHeaderSize; got != want {
			t.Fatalf("om.Len() = %d, want %d", got, want)
		}

		if h.Len != 0 {
			t.Fatalf("non-zero Len %v", h.Len)
		}
		if h.Error != 0 {
			t.Fatalf("non-zero Error %v", h.Error)
		}
		if h.Unique != 0 {
			t.Fatalf("non-zero Unique %v", h.Unique)
		}
	}
}

func TestOutMessageGrow(t *testing.T) {
	var om OutMessage
	om.Reset()

	const payloadSize = 1234
	if p := om.Grow(payloadSize); p == nil {
		t.Fatal("Grow failed")
	}

	wantLen := payloadSize + OutMessageHeaderSize
	if got, want := om.Len(), wantLen; got != want {
		t.Errorf("om.Len() = %d, want %d", got, want)
	}

	b := om.Bytes()
	if got, want := len(b), wantLen; got != want {
		t.Fatalf("len(om.Bytes()) = %d, want %d", got, want)
	}

	for i, x := range b[OutMessageHeaderSize:] {
		if x != 0 {
			t.Fatalf("non-zero byte 0x%02x at payload offset %d", x, i)
		}
	}
}

func TestOutMessageWriteFragments(t *testing.T) {
	var om OutMessage
	om.Reset()

	var sink FragmentSink
	sink.Add([]byte("hello"))
	sink.Add([]byte("world"))

	frags := om.WriteFragments(&sink)
	if len(frags) != 3 {
		t.Fatalf("len(frags) = %d, want 3", len(frags))
	}
	if got, want := len(frags[0]), OutMessageHeaderSize; got != want {
		t.Fatalf("len(frags[0]) = %d, want %d", got, want)
	}
	if string(frags[1]) != "hello" || string(frags[2]) != "world" {
		t.Fatalf("unexpected fragments: %q", frags[1:])
	}
}
