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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/golang/glog"
)

// BuildScriptName is the well-known build-script filename resolved by
// Build() in each sub-build directory.
const BuildScriptName = "FBuild.js"

// Driver owns the interpreter and all process-wide build state: the
// toolchain selection and, implicitly, the working directory. One
// Driver runs one build; the interpreter is single-threaded and never
// re-entered by workers.
type Driver struct {
	vm        *goja.Runtime
	toolchain *Toolchain
	args      map[string]string
}

func NewDriver(args []string) (*Driver, error) {
	d := &Driver{
		vm:        goja.New(),
		toolchain: newToolchain(),
		args:      parseArgs(args),
	}
	if err := d.register(); err != nil {
		return nil, err
	}
	return d, nil
}

// Toolchain exposes the driver's toolchain selection.
func (d *Driver) Toolchain() *Toolchain {
	return d.toolchain
}

// parseArgs turns the driver's free-form argument words into the
// script's args mapping. Each word splits on the first ':', or failing
// that the first '='; a bare word maps to the empty string.
func parseArgs(args []string) map[string]string {
	m := make(map[string]string, len(args))
	for _, arg := range args {
		idx := strings.IndexByte(arg, ':')
		if idx < 0 {
			idx = strings.IndexByte(arg, '=')
		}
		if idx < 0 {
			m[arg] = ""
		} else {
			m[arg[:idx]] = arg[idx+1:]
		}
	}
	return m
}

// RunScript evaluates a chunk of script text under the given name.
func (d *Driver) RunScript(name, src string) error {
	_, err := d.vm.RunScript(name, src)
	return err
}

// RunFile canonicalises and evaluates a script file in place, without
// touching the working directory.
func (d *Driver) RunFile(path string) error {
	if !exists(path) {
		return fmt.Errorf("file %s does not exist", path)
	}
	full, err := fullPath(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	return d.RunScript(full, string(src))
}

// Build evaluates dir's FBuild.js in the shared interpreter. The
// working directory is switched to dir for the duration and restored on
// every exit path, script errors included.
func (d *Driver) Build(dir string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			glog.Errorf("restoring working directory %s: %v", cwd, err)
		}
	}()
	glog.V(1).Infof("sub-build: %s", dir)
	return d.RunFile(BuildScriptName)
}

// throw surfaces a Go error as a script exception. An error that
// already is a script exception (a nested build's failure) is rethrown
// unchanged so the script sees the original value.
func (d *Driver) throw(err error) {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		panic(exc)
	}
	panic(d.vm.NewGoError(err))
}
