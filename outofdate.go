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
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/golang/glog"
)

// OutOfDate decides whether a parent artifact must be rebuilt from its
// inputs. For C/C++ inputs the decision includes every header reachable
// through textual #include scanning along the include path.
type OutOfDate struct {
	parent   string
	files    []string
	includes []string
	check    bool
}

func NewOutOfDate() *OutOfDate {
	return &OutOfDate{check: true}
}

func (o *OutOfDate) Parent(p string)      { o.parent = p }
func (o *OutOfDate) AddFile(f string)     { o.files = append(o.files, f) }
func (o *OutOfDate) AddInclude(d string)  { o.includes = append(o.includes, d) }
func (o *OutOfDate) Check(enabled bool)   { o.check = enabled }

var includeRe = regexp.MustCompile(`^\s*#\s*include\s*["<]([^">]+)[">]`)

var sourceExts = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true,
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".inl": true,
}

func isSourceOrHeader(filename string) bool {
	return sourceExts[filepath.Ext(filename)]
}

// Go reports whether the parent is out of date. Rebuild is forced when
// checking is disabled or the parent is missing; a missing input also
// rebuilds so the downstream tool gets to report it. Equal mtimes count
// as up to date.
func (o *OutOfDate) Go() bool {
	if !o.check {
		return true
	}
	parentTime, ok := mtime(o.parent)
	if !ok {
		glog.V(1).Infof("out of date: %s missing", o.parent)
		return true
	}
	scanned := make(map[string]bool)
	for _, file := range o.files {
		t, ok := mtime(file)
		if !ok {
			glog.V(1).Infof("out of date: input %s missing", file)
			return true
		}
		if t.After(parentTime) {
			glog.V(1).Infof("out of date: %s newer than %s", file, o.parent)
			return true
		}
		if isSourceOrHeader(file) && o.headersNewer(file, parentTime, scanned) {
			return true
		}
	}
	return false
}

// headersNewer walks the transitive includes of file and reports
// whether any resolved header is newer than parentTime. The scanned set
// makes cyclic include graphs terminate and is shared across inputs.
func (o *OutOfDate) headersNewer(file string, parentTime time.Time, scanned map[string]bool) bool {
	for _, inc := range o.scanIncludes(file, scanned) {
		t, ok := mtime(inc)
		if ok && t.After(parentTime) {
			glog.V(1).Infof("out of date: header %s newer than %s", inc, o.parent)
			return true
		}
	}
	return false
}

// scanIncludes returns the headers reachable from file that resolve
// against the file's own directory or the include path. Unresolved
// includes are system headers as far as the scanner is concerned and
// are skipped.
func (o *OutOfDate) scanIncludes(file string, scanned map[string]bool) []string {
	abs, err := fullPath(file)
	if err != nil {
		return nil
	}
	if scanned[abs] {
		return nil
	}
	scanned[abs] = true

	f, err := os.Open(abs)
	if err != nil {
		return nil
	}
	var found []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		m := includeRe.FindSubmatch(sc.Bytes())
		if m == nil {
			continue
		}
		resolved, ok := o.resolveInclude(filepath.Dir(abs), string(m[1]))
		if !ok {
			continue
		}
		found = append(found, resolved)
		found = append(found, o.scanIncludes(resolved, scanned)...)
	}
	f.Close()
	return found
}

func (o *OutOfDate) resolveInclude(fromDir, name string) (string, bool) {
	candidate := filepath.Join(fromDir, name)
	if exists(candidate) {
		return candidate, true
	}
	for _, dir := range o.includes {
		candidate = filepath.Join(dir, name)
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
