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
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// Librarian archives object files into a static library.
type Librarian struct {
	drv *Driver

	output          string
	files           []string
	dependencyCheck bool
}

func NewLibrarian(drv *Driver) *Librarian {
	return &Librarian{drv: drv, dependencyCheck: true}
}

func (l *Librarian) Output(out string)          { l.output = out }
func (l *Librarian) AddFile(file string)        { l.files = append(l.files, file) }
func (l *Librarian) DependencyCheck(check bool) { l.dependencyCheck = check }

func (l *Librarian) Go() error {
	if l.output == "" {
		return fmt.Errorf("missing 'Output' for Librarian()")
	}
	if len(l.files) == 0 {
		return fmt.Errorf("missing 'Files' for Librarian()")
	}
	ood := NewOutOfDate()
	ood.Check(l.dependencyCheck)
	ood.Parent(l.output)
	for _, file := range l.files {
		ood.AddFile(file)
	}
	if !ood.Go() {
		glog.V(1).Infof("up to date: %s", l.output)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.output), 0777); err != nil {
		return err
	}
	_, err := l.drv.run(l.drv.toolchain.ArchiveCommand(l.output, l.files), true)
	if err != nil {
		return fmt.Errorf("error creating library %s", l.output)
	}
	return nil
}

// Linker produces an executable or shared library from objects and
// libraries. The output kind follows the output file's extension.
type Linker struct {
	drv *Driver

	output          string
	importLib       string
	debug           bool
	files           []string
	libs            []string
	libPaths        []string
	dependencyCheck bool
}

func NewLinker(drv *Driver) *Linker {
	return &Linker{drv: drv, dependencyCheck: true}
}

func (l *Linker) Output(out string)          { l.output = out }
func (l *Linker) ImportLib(lib string)       { l.importLib = lib }
func (l *Linker) Debug(debug bool)           { l.debug = debug }
func (l *Linker) AddFile(file string)        { l.files = append(l.files, file) }
func (l *Linker) AddLib(lib string)          { l.libs = append(l.libs, lib) }
func (l *Linker) AddLibPath(dir string)      { l.libPaths = append(l.libPaths, dir) }
func (l *Linker) DependencyCheck(check bool) { l.dependencyCheck = check }

func (l *Linker) shared() bool {
	switch strings.ToLower(filepath.Ext(l.output)) {
	case ".dll", ".so", ".dylib":
		return true
	}
	return false
}

// resolveLib finds a library on the search path. Unresolved names are
// system libraries and do not take part in the freshness decision.
func (l *Linker) resolveLib(lib string) (string, bool) {
	if exists(lib) {
		return lib, true
	}
	for _, dir := range l.libPaths {
		candidate := filepath.Join(dir, lib)
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (l *Linker) Go() error {
	if l.output == "" {
		return fmt.Errorf("missing 'Output' for Linker()")
	}
	if len(l.files) == 0 {
		return fmt.Errorf("missing 'Files' for Linker()")
	}
	ood := NewOutOfDate()
	ood.Check(l.dependencyCheck)
	ood.Parent(l.output)
	for _, file := range l.files {
		ood.AddFile(file)
	}
	for _, lib := range l.libs {
		if resolved, ok := l.resolveLib(lib); ok {
			ood.AddFile(resolved)
		}
	}
	if !ood.Go() {
		glog.V(1).Infof("up to date: %s", l.output)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.output), 0777); err != nil {
		return err
	}
	cmd := l.drv.toolchain.LinkCommand(linkOptions{
		output:    l.output,
		importLib: l.importLib,
		debug:     l.debug,
		shared:    l.shared(),
		objs:      l.files,
		libs:      l.libs,
		libPaths:  l.libPaths,
	})
	if _, err := l.drv.run(cmd, true); err != nil {
		return fmt.Errorf("error linking %s", l.output)
	}
	return nil
}
