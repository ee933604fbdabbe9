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

	"github.com/golang/glog"
)

// toolTask runs a well-known external tool once per input, producing
// one output per input. ResourceCompiler, Moc and Uic are its three
// concrete shapes.
type toolTask struct {
	drv *Driver

	name            string
	outDir          string
	files           []string
	dependencyCheck bool

	outName func(input string) string
	command func(input, output string) string
}

func (t *toolTask) OutDir(dir string)          { t.outDir = dir }
func (t *toolTask) AddFile(file string)        { t.files = append(t.files, file) }
func (t *toolTask) DependencyCheck(check bool) { t.dependencyCheck = check }

func (t *toolTask) Go() error {
	if len(t.files) == 0 {
		return fmt.Errorf("missing 'Files' for %s()", t.name)
	}
	outDir := t.outDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return err
	}
	for _, file := range t.files {
		if !exists(file) {
			return fmt.Errorf("missing file '%s' for %s(). File does not exist", file, t.name)
		}
		output := filepath.Join(outDir, t.outName(file))
		ood := NewOutOfDate()
		ood.Check(t.dependencyCheck)
		ood.Parent(output)
		ood.AddFile(file)
		if !ood.Go() {
			glog.V(1).Infof("up to date: %s", output)
			continue
		}
		if _, err := t.drv.run(t.command(file, output), true); err != nil {
			return fmt.Errorf("error running %s for %s", t.name, file)
		}
	}
	return nil
}

// ResourceCompiler compiles .rc files into .res binary resources.
type ResourceCompiler struct {
	toolTask
}

func NewResourceCompiler(drv *Driver) *ResourceCompiler {
	rc := &ResourceCompiler{toolTask{drv: drv, name: "ResourceCompiler", dependencyCheck: true}}
	rc.outName = func(input string) string {
		return stripExt(filepath.Base(input)) + ".res"
	}
	rc.command = func(input, output string) string {
		return fmt.Sprintf("rc /nologo /fo%q %q", output, input)
	}
	return rc
}

// Moc runs Qt's meta-object compiler over headers.
type Moc struct {
	toolTask
}

func NewMoc(drv *Driver) *Moc {
	m := &Moc{toolTask{drv: drv, name: "Moc", dependencyCheck: true}}
	m.outName = func(input string) string {
		return "moc_" + stripExt(filepath.Base(input)) + ".cpp"
	}
	m.command = func(input, output string) string {
		return fmt.Sprintf("moc %q -o %q", input, output)
	}
	return m
}

// Uic runs Qt's UI compiler over .ui forms.
type Uic struct {
	toolTask
}

func NewUic(drv *Driver) *Uic {
	u := &Uic{toolTask{drv: drv, name: "Uic", dependencyCheck: true}}
	u.outName = func(input string) string {
		return "ui_" + stripExt(filepath.Base(input)) + ".h"
	}
	u.command = func(input, output string) string {
		return fmt.Sprintf("uic %q -o %q", input, output)
	}
	return u
}
