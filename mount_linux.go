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

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// devFusePath is the character device the kernel exposes for userspace
// file systems to attach to.
const devFusePath = "/dev/fuse"

// openDevFuse opens /dev/fuse read-write, as spec.md §6 requires.
func openDevFuse() (*os.File, error) {
	f, err := os.OpenFile(devFusePath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", devFusePath, err)
	}
	return f, nil
}

// mountDevFuse attaches dev to target via the mount(2) syscall, passing the
// fd/rootmode/user_id/group_id data string spec.md §6 specifies. rootmode
// is the S_IFMT-masked mode bits of target's existing stat, the same as
// the libfuse/fuse-rs convention of reusing the mount point's own
// directory mode for the root inode until the file system's first GetAttr
// response supersedes it.
func mountDevFuse(dev *os.File, target string, cfg MountConfig) error {
	var st unix.Stat_t
	if err := unix.Stat(target, &st); err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}
	rootMode := st.Mode & unix.S_IFMT

	data := fmt.Sprintf(
		"fd=%d,rootmode=%o,user_id=%d,group_id=%d",
		dev.Fd(), rootMode, os.Getuid(), os.Getgid())

	if cfg.FSName != "" {
		data += ",fsname=" + cfg.FSName
	}
	if cfg.Subtype != "" {
		data += ",subtype=" + cfg.Subtype
	}
	if cfg.AllowOther {
		data += ",allow_other"
	}
	for k, v := range cfg.Options {
		if v == "" {
			data += "," + k
		} else {
			data += fmt.Sprintf(",%s=%s", k, v)
		}
	}

	flags := uintptr(unix.MS_NOSUID | unix.MS_NODEV)
	if cfg.ReadOnly {
		flags |= unix.MS_RDONLY
	}

	if err := unix.Mount(devFusePath, target, "fuse", flags, data); err != nil {
		return fmt.Errorf("mount(%s, fuse, %q): %w", target, data, err)
	}

	return nil
}

// findFusermount locates the fusermount helper binary, used by
// unmount_linux.go to tear down a mount that isn't externally managed.
func findFusermount() (string, error) {
	for _, name := range []string{"fusermount3", "fusermount"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("fuse: fusermount helper not found in PATH")
}
