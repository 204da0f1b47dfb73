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

// Command mount_hellofs mounts the hellofs sample file system at a given
// directory and waits for it to be unmounted.
package main

import (
	"context"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datenlord/async-fuse"
	"github.com/datenlord/async-fuse/samples/hellofs"
	"github.com/jacobsa/timeutil"
)

func main() {
	var (
		readOnly    bool
		allowOther  bool
		debug       bool
		fsName      string
		workerCount int
	)

	cmd := &cobra.Command{
		Use:   "mount_hellofs <mount-point>",
		Short: "Mount the hellofs sample file system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			logger := logrus.StandardLogger()

			cfg := &fuse.MountConfig{
				ReadOnly:    readOnly,
				AllowOther:  allowOther,
				FSName:      fsName,
				Subtype:     "hellofs",
				WorkerCount: workerCount,
			}
			if debug {
				cfg.DebugLogger = log.New(logger.Writer(), "", 0)
			}

			logger.WithField("dir", dir).Info("mounting hellofs")

			fs, err := hellofs.NewHelloFS(timeutil.RealClock())
			if err != nil {
				return err
			}

			mfs, err := fuse.Mount(dir, fs, cfg)
			if err != nil {
				return err
			}

			logger.Info("mounted; waiting for unmount")
			if err := mfs.Join(context.Background()); err != nil {
				return err
			}

			logger.Info("unmounted")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&readOnly, "read_only", false, "mount in read-only mode")
	flags.BoolVar(&allowOther, "allow_other", false, "allow other users to access the mount")
	flags.BoolVar(&debug, "debug", false, "enable debug logging of every request and reply")
	flags.StringVar(&fsName, "fsname", "hellofs", "fsname shown in /proc/mounts")
	flags.IntVar(&workerCount, "workers", fuse.DefaultWorkerCount, "number of reader goroutines")

	if err := cmd.Execute(); err != nil {
		logrus.WithError(err).Error("mount_hellofs failed")
		os.Exit(1)
	}
}
