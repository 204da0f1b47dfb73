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

import "golang.org/x/sys/unix"

// writev writes iovs to fd in a single writev(2) system call, giving
// Connection's multi-fragment replies (header plus borrowed body
// fragments) the same atomicity a single write(2) gives a contiguous
// buffer, without first copying the fragments together.
func writev(fd int, iovs [][]byte) (int, error) {
	return unix.Writev(fd, iovs)
}
