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

package fusetesting

import (
	"syscall"
	"time"

	"github.com/jacobsa/oglematchers"
)

func extractMtime(sys interface{}) (mtime time.Time, ok bool) {
	stat, ok := sys.(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Mtim.Sec, stat.Mtim.Nsec), true
}

// BirthtimeIs matches every os.FileInfo, since stat(2) on Linux has no
// birth-time field to compare against.
func BirthtimeIs(expected time.Time) oglematchers.Matcher {
	return oglematchers.NewMatcher(
		func(c interface{}) error { return nil },
		"birth time unsupported on linux")
}
