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
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool is a bounded recycler of AlignedBytes buffers, all of the same size
// and alignment. Acquire returns a pooled buffer if one is free, or
// allocates a fresh one as long as the configured capacity has not been
// reached; Release returns a buffer to the pool, dropping it instead if its
// dimensions no longer match.
//
// Pool is safe for concurrent use by many goroutines, the way the
// dispatch loop's worker pool requires.
type Pool struct {
	capacity int
	size     int
	align    int

	free chan *AlignedBytes
	sem  *semaphore.Weighted
}

// NewPool creates a pool of buffers of the given size and alignment,
// holding at most capacity of them live at once. capacity should track the
// configured MaxBackground (spec.md §6): exceeding it only costs an extra
// allocation, never correctness.
func NewPool(capacity, size, align int) *Pool {
	return &Pool{
		capacity: capacity,
		size:     size,
		align:    align,
		free:     make(chan *AlignedBytes, capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// Acquire returns a buffer for exclusive use by the caller. A buffer
// sitting in the free list is handed back immediately, still counted
// against capacity; otherwise Acquire blocks until the semaphore admits
// allocating one more buffer (i.e. until capacity buffers don't already
// exist), or until ctx is canceled.
func (p *Pool) Acquire(ctx context.Context) (*AlignedBytes, error) {
	select {
	case b := <-p.free:
		b.Reset()
		return b, nil
	default:
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	select {
	case b := <-p.free:
		return b, nil
	default:
	}

	return NewAlignedBytes(p.size, p.align), nil
}

// Release returns b to the pool for reuse. If its dimensions no longer
// match this pool's configuration, it is dropped instead and the
// semaphore permit backing its existence is freed, making room for a
// fresh, correctly-sized allocation on the next Acquire.
func (p *Pool) Release(b *AlignedBytes) {
	if !b.MatchesDimensions(p.size, p.align) {
		p.sem.Release(1)
		return
	}

	select {
	case p.free <- b:
	default:
		// Free list is full (shouldn't happen given the semaphore bound),
		// drop rather than block a hot path, and free the permit so the
		// buffer's disappearance is reflected in outstanding capacity.
		p.sem.Release(1)
	}
}

// BufferSize returns the buffer size this pool was configured with.
func (p *Pool) BufferSize() int {
	return p.size
}
