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
	"path/filepath"
	"sync"
)

// compileResult is what one worker hands back: the source it compiled,
// the tool's exit status, and the captured diagnostics.
type compileResult struct {
	file   string
	status int
	output string
}

// reporter serialises worker results so that the diagnostics for one
// file are never interleaved with another's. Completion order decides
// print order.
type reporter struct {
	mu     sync.Mutex
	failed []string
}

func (r *reporter) report(res compileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	block := filepath.Base(res.file)
	if res.output != "" {
		block += "\n" + res.output
	}
	printOutput(block)
	if res.status != 0 {
		r.failed = append(r.failed, res.file)
	}
}

func (r *reporter) failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}
