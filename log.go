// Copyright 2026 The fbuild Authors. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fbuild

import (
	"fmt"
	"sync"
)

// Build output and tool diagnostics go through logMu so that
// concurrently compiling workers never interleave their lines.
var logMu sync.Mutex

func printLine(a ...interface{}) {
	logMu.Lock()
	fmt.Println(a...)
	logMu.Unlock()
}

func printOutput(s string) {
	if s == "" {
		return
	}
	logMu.Lock()
	fmt.Print(s)
	if s[len(s)-1] != '\n' {
		fmt.Println()
	}
	logMu.Unlock()
}
