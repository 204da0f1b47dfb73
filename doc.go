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

// Package fuse enables writing and mounting user-space file systems on
// Linux.
//
// The primary elements of interest are:
//
//  *  fuseops.FileSystem, which defines the methods a file system must
//     implement.
//
//  *  fuseutil.NotImplementedFileSystem, which may be embedded to obtain
//     default implementations for all methods that are not of interest to a
//     particular file system.
//
//  *  Mount, a function that opens /dev/fuse, attaches it to a mount point,
//     and returns a MountedFileSystem whose Join method blocks until the
//     file system is unmounted.
//
// A mounted file system is served by a Connection reading and replying to
// kernel requests via the internal/buffer and fuseops packages; requests
// are decoded into fuseops.Operation values and dispatched to the
// supplied fuseops.FileSystem one goroutine per request.
package fuse
