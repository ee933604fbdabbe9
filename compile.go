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
	"runtime"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Compile builds object files from C/C++ sources. The script populates
// it through setters and fires it with Go. An optional precompiled
// header is built synchronously before the parallel phase.
type Compile struct {
	drv *Driver

	debug             bool
	outDir            string
	includes          []string
	defines           []string
	files             []string
	crtStatic         bool
	threads           int
	cc                string
	precompiledHeader string
	precompiledCpp    string
	dependencyCheck   bool
}

func NewCompile(drv *Driver) *Compile {
	return &Compile{drv: drv, dependencyCheck: true}
}

func (c *Compile) Debug(debug bool)            { c.debug = debug }
func (c *Compile) OutDir(dir string)           { c.outDir = dir }
func (c *Compile) AddInclude(dir string)       { c.includes = append(c.includes, dir) }
func (c *Compile) AddDefine(def string)        { c.defines = append(c.defines, def) }
func (c *Compile) AddFile(file string)         { c.files = append(c.files, file) }
func (c *Compile) Threads(n int)               { c.threads = n }
func (c *Compile) CrtStatic(static bool)       { c.crtStatic = static }
func (c *Compile) CC(flags string)             { c.cc += flags + " " }
func (c *Compile) PrecompiledHeader(h string)  { c.precompiledHeader = h }
func (c *Compile) PrecompiledCpp(cpp string)   { c.precompiledCpp = cpp }
func (c *Compile) DependencyCheck(check bool)  { c.dependencyCheck = check }

func (c *Compile) checkParams() error {
	if len(c.files) == 0 {
		return fmt.Errorf("missing 'Files' for Compile()")
	}
	if (c.precompiledHeader == "") != (c.precompiledCpp == "") {
		return fmt.Errorf("PrecompiledHeader and PrecompiledCpp must be set together for Compile()")
	}
	for _, file := range c.files {
		if !exists(file) {
			return fmt.Errorf("missing file '%s' for Compile(). File does not exist", file)
		}
	}
	if c.precompiledHeader != "" && !exists(c.precompiledHeader) {
		return fmt.Errorf("missing file '%s' for Compile(). File does not exist", c.precompiledHeader)
	}
	return nil
}

func (c *Compile) options() compileOptions {
	return compileOptions{
		debug:     c.debug,
		crtStatic: c.crtStatic,
		outDir:    c.outDir,
		includes:  append([]string(nil), c.includes...),
		defines:   append([]string(nil), c.defines...),
		extra:     c.cc,
		pchHeader: c.precompiledHeader,
	}
}

func (c *Compile) objFile(src string) string {
	return filepath.Join(c.outDir, stripExt(filepath.Base(src))+c.drv.toolchain.objSuffix())
}

func (c *Compile) outOfDate(parent string, inputs ...string) bool {
	ood := NewOutOfDate()
	ood.Check(c.dependencyCheck)
	ood.Parent(parent)
	for _, in := range inputs {
		ood.AddFile(in)
	}
	for _, dir := range c.includes {
		ood.AddInclude(dir)
	}
	return ood.Go()
}

// Go validates the configuration, builds the precompiled header if one
// is declared, and fans the out-of-date sources out to the worker pool.
// All dispatched work is drained before failure is reported.
func (c *Compile) Go() error {
	if err := c.checkParams(); err != nil {
		return err
	}
	if c.outDir == "" {
		c.outDir = "."
	}
	if err := os.MkdirAll(c.outDir, 0777); err != nil {
		return err
	}

	if c.precompiledHeader != "" {
		if err := c.buildPrecompiledHeader(); err != nil {
			return err
		}
	}

	threads := c.threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	opts := c.options()
	prelude := c.drv.toolchain.SetEnvBatchCall()

	var g errgroup.Group
	g.SetLimit(threads)
	rep := &reporter{}
	dispatched := 0
	for _, file := range c.files {
		if c.precompiledHeader != "" && sameFile(file, c.precompiledCpp) {
			continue
		}
		if !c.outOfDate(c.objFile(file), file) {
			glog.V(1).Infof("up to date: %s", file)
			continue
		}
		cmdline := prelude + " && " + c.drv.toolchain.CompileCommand(opts, file)
		file := file
		dispatched++
		g.Go(func() error {
			out, status, err := runCaptured(cmdline)
			if err != nil {
				rep.report(compileResult{file: file, status: -1, output: err.Error()})
				return nil
			}
			rep.report(compileResult{file: file, status: status, output: out})
			return nil
		})
	}
	g.Wait()
	glog.V(1).Infof("compiled %d of %d files", dispatched, len(c.files))

	if failed := rep.failures(); len(failed) != 0 {
		return fmt.Errorf("error compiling %d file(s)", len(failed))
	}
	return nil
}

// buildPrecompiledHeader compiles the PCH implementation before any
// other source is dispatched. With MSVC the /Yc compile of the
// implementation file emits both the .pch and its object; with gcc the
// header itself is precompiled first and the implementation file is
// then compiled normally.
func (c *Compile) buildPrecompiledHeader() error {
	tc := c.drv.toolchain
	artifact := tc.pchArtifact(c.outDir, c.precompiledHeader)
	obj := c.objFile(c.precompiledCpp)
	if !c.outOfDate(artifact, c.precompiledHeader, c.precompiledCpp) && exists(obj) {
		glog.V(1).Infof("up to date: %s", artifact)
		return nil
	}

	opts := c.options()
	if tc.id == ToolchainGCC {
		headerOpts := opts
		headerOpts.pchCreate = true
		if err := c.runCompile(tc.CompileCommand(headerOpts, c.precompiledHeader)); err != nil {
			return fmt.Errorf("error creating precompiled header %s", c.precompiledHeader)
		}
		if err := c.runCompile(tc.CompileCommand(opts, c.precompiledCpp)); err != nil {
			return fmt.Errorf("error compiling %s", c.precompiledCpp)
		}
		return nil
	}
	opts.pchCreate = true
	if err := c.runCompile(tc.CompileCommand(opts, c.precompiledCpp)); err != nil {
		return fmt.Errorf("error creating precompiled header %s", c.precompiledHeader)
	}
	return nil
}

func (c *Compile) runCompile(cmdline string) error {
	out, status, err := runCaptured(c.drv.toolchain.SetEnvBatchCall() + " && " + cmdline)
	printOutput(out)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("exit status %d", status)
	}
	return nil
}

func sameFile(a, b string) bool {
	fa, err := fullPath(a)
	if err != nil {
		return a == b
	}
	fb, err := fullPath(b)
	if err != nil {
		return a == b
	}
	return fa == fb
}
