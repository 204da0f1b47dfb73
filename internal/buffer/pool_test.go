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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PoolTest struct {
	suite.Suite
}

func TestPoolTestSuite(t *testing.T) {
	suite.Run(t, new(PoolTest))
}

func (t *PoolTest) TestAcquireReleaseReuse() {
	p := NewPool(4, 4096, 4096)

	b, err := p.Acquire(context.Background())
	require.NoError(t.T(), err)
	require.NotNil(t.T(), b)
	b.SetLen(10)

	p.Release(b)

	b2, err := p.Acquire(context.Background())
	require.NoError(t.T(), err)
	assert.Same(t.T(), b, b2)
	assert.Equal(t.T(), 0, b2.Len(), "Release+Acquire should hand back a reset buffer")
}

func (t *PoolTest) TestAcquireBlocksAtCapacity() {
	p := NewPool(1, 4096, 4096)

	b1, err := p.Acquire(context.Background())
	require.NoError(t.T(), err)
	require.NotNil(t.T(), b1)

	done := make(chan struct{})
	go func() {
		_, _ = p.Acquire(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.T().Fatal("Acquire returned before capacity freed up")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(b1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.T().Fatal("Acquire did not unblock after Release")
	}
}

func (t *PoolTest) TestReleaseDropsMismatchedDimensions() {
	p := NewPool(1, 4096, 4096)

	wrong := NewAlignedBytes(1024, 8)
	p.Release(wrong)

	// The dropped buffer's permit must have been freed: a fresh Acquire
	// should not block waiting on it.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	b, err := p.Acquire(ctx)
	require.NoError(t.T(), err)
	assert.Equal(t.T(), 4096, b.Cap())
}

func (t *PoolTest) TestAcquireCanceled() {
	p := NewPool(1, 4096, 4096)
	_, err := p.Acquire(context.Background())
	require.NoError(t.T(), err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Acquire(ctx)
	assert.Error(t.T(), err)
}
