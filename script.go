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
	"strings"

	"github.com/dop251/goja"
	"github.com/golang/glog"
)

// register injects the builtin catalogue and the task constructors into
// the interpreter's global object.
func (d *Driver) register() error {
	vm := d.vm

	vm.Set("Quit", func(call goja.FunctionCall) goja.Value {
		code := 0
		if len(call.Arguments) != 0 {
			code = int(call.Argument(0).ToInteger())
		}
		glog.Flush()
		os.Exit(code)
		return goja.Undefined()
	})

	vm.Set("Print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		printLine(strings.Join(parts, " "))
		return goja.Undefined()
	})

	vm.Set("ExecuteString", func(call goja.FunctionCall) goja.Value {
		code := d.requireString(call, 0, "ExecuteString()")
		name := "<ExecuteString>"
		if len(call.Arguments) > 1 {
			name = call.Argument(1).String()
		}
		if err := d.RunScript(name, code); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("ExecuteFile", func(call goja.FunctionCall) goja.Value {
		if err := d.RunFile(d.requireString(call, 0, "ExecuteFile()")); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("System", func(call goja.FunctionCall) goja.Value {
		status, err := system(d.requireString(call, 0, "System()"))
		if err != nil {
			d.throw(err)
		}
		return vm.ToValue(status)
	})

	vm.Set("Run", func(call goja.FunctionCall) goja.Value {
		cmdline := d.requireString(call, 0, "Run()")
		capture := call.Argument(1).ToBoolean()
		out, err := d.run(cmdline, capture)
		if err != nil {
			d.throw(err)
		}
		if capture {
			return vm.ToValue(out)
		}
		return goja.Undefined()
	})

	vm.Set("FullPath", func(call goja.FunctionCall) goja.Value {
		full, err := fullPath(d.requireString(call, 0, "FullPath()"))
		if err != nil {
			d.throw(err)
		}
		return vm.ToValue(full)
	})

	vm.Set("Delete", func(call goja.FunctionCall) goja.Value {
		paths := argStrings(call)
		if len(paths) == 0 {
			d.throw(fmt.Errorf("filename(s) for Delete() expected"))
		}
		deleteAll(paths)
		return goja.Undefined()
	})

	vm.Set("Touch", func(call goja.FunctionCall) goja.Value {
		files := argStrings(call)
		if len(files) == 0 {
			d.throw(fmt.Errorf("filename(s) for Touch() expected"))
		}
		if err := touch(files); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("Glob", func(call goja.FunctionCall) goja.Value {
		dir, pattern := ".", "*"
		switch len(call.Arguments) {
		case 1:
			pattern = call.Argument(0).String()
		case 2:
			dir = call.Argument(0).String()
			pattern = call.Argument(1).String()
		default:
			d.throw(fmt.Errorf("expected one or two arguments for Glob()"))
		}
		files, err := glob(dir, pattern)
		if err != nil {
			d.throw(err)
		}
		if files == nil {
			files = []string{}
		}
		return vm.ToValue(files)
	})

	vm.Set("StringToFile", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) != 2 {
			d.throw(fmt.Errorf("two arguments for StringToFile() expected"))
		}
		if err := stringToFile(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("GetEnv", func(call goja.FunctionCall) goja.Value {
		value, ok := os.LookupEnv(d.requireString(call, 0, "GetEnv()"))
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(value)
	})

	vm.Set("SetEnv", func(call goja.FunctionCall) goja.Value {
		name := d.requireString(call, 0, "SetEnv()")
		value := d.requireString(call, 1, "SetEnv()")
		if err := os.Setenv(name, value); err != nil {
			d.throw(fmt.Errorf("error putting environment %s=%s", name, value))
		}
		return goja.Undefined()
	})

	vm.Set("ChangeDirectory", func(call goja.FunctionCall) goja.Value {
		if err := os.Chdir(d.requireString(call, 0, "ChangeDirectory()")); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("DirectorySync", func(call goja.FunctionCall) goja.Value {
		src := d.requireString(call, 0, "DirectorySync()")
		dst := d.requireString(call, 1, "DirectorySync()")
		if err := directorySync(src, dst); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("Build", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) != 1 {
			d.throw(fmt.Errorf("one argument for Build() expected"))
		}
		if err := d.Build(call.Argument(0).String()); err != nil {
			d.throw(err)
		}
		return goja.Undefined()
	})

	vm.Set("FileOutOfDate", func(call goja.FunctionCall) goja.Value {
		files := argStrings(call)
		if len(files) < 2 {
			d.throw(fmt.Errorf("expected two or more arguments for FileOutOfDate()"))
		}
		ood := NewOutOfDate()
		ood.Parent(files[0])
		for _, file := range files[1:] {
			ood.AddFile(file)
		}
		return vm.ToValue(ood.Go())
	})

	vm.Set("ToolChain", func(call goja.FunctionCall) goja.Value {
		switch len(call.Arguments) {
		case 0:
			return vm.ToValue(d.toolchain.String())
		case 1:
			arg := call.Argument(0).String()
			if arg == PlatformX86 || arg == PlatformX64 {
				d.toolchain.id = hostDefaultToolchain()
				if err := d.toolchain.SetPlatform(arg); err != nil {
					d.throw(err)
				}
				return goja.Undefined()
			}
			if err := d.toolchain.SetID(arg); err != nil {
				d.throw(err)
			}
			return goja.Undefined()
		case 2:
			if err := d.toolchain.SetID(call.Argument(0).String()); err != nil {
				d.throw(err)
			}
			if err := d.toolchain.SetPlatform(call.Argument(1).String()); err != nil {
				d.throw(err)
			}
			return goja.Undefined()
		default:
			d.throw(fmt.Errorf("too many arguments for ToolChain()"))
			return goja.Undefined()
		}
	})

	vm.Set("SetEnvBatchCall", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.toolchain.SetEnvBatchCall())
	})

	argsObj := vm.NewObject()
	for key, value := range d.args {
		if err := argsObj.Set(key, value); err != nil {
			return err
		}
	}
	if err := vm.Set("args", argsObj); err != nil {
		return err
	}
	if _, err := vm.RunString("Object.freeze(args)"); err != nil {
		return err
	}

	d.registerTasks()
	return nil
}

// registerTasks binds the task constructors. Every setter returns the
// task object, so scripts can chain configuration before Go().
func (d *Driver) registerTasks() {
	vm := d.vm

	compileCtor := func(call goja.ConstructorCall) *goja.Object {
		c := NewCompile(d)
		obj := call.This
		obj.Set("Debug", chain(obj, c.Debug))
		obj.Set("OutDir", chain(obj, c.OutDir))
		obj.Set("AddInclude", chainEach(obj, c.AddInclude))
		obj.Set("AddIncludes", chainEach(obj, c.AddInclude))
		obj.Set("AddDefine", chainEach(obj, c.AddDefine))
		obj.Set("AddDefines", chainEach(obj, c.AddDefine))
		obj.Set("AddFile", chainEach(obj, c.AddFile))
		obj.Set("AddFiles", chainEach(obj, c.AddFile))
		obj.Set("Threads", chain(obj, c.Threads))
		obj.Set("CrtStatic", chain(obj, c.CrtStatic))
		obj.Set("CC", chain(obj, c.CC))
		obj.Set("PrecompiledHeader", chain(obj, c.PrecompiledHeader))
		obj.Set("PrecompiledCpp", chain(obj, c.PrecompiledCpp))
		obj.Set("DependencyCheck", chain(obj, c.DependencyCheck))
		obj.Set("Go", d.goAction(c.Go))
		return nil
	}
	vm.Set("Compile", compileCtor)

	librarianCtor := func(call goja.ConstructorCall) *goja.Object {
		l := NewLibrarian(d)
		obj := call.This
		obj.Set("Output", chain(obj, l.Output))
		obj.Set("AddFile", chainEach(obj, l.AddFile))
		obj.Set("AddFiles", chainEach(obj, l.AddFile))
		obj.Set("DependencyCheck", chain(obj, l.DependencyCheck))
		obj.Set("Go", d.goAction(l.Go))
		return nil
	}
	vm.Set("Librarian", librarianCtor)
	vm.Set("Lib", librarianCtor)

	linkerCtor := func(call goja.ConstructorCall) *goja.Object {
		l := NewLinker(d)
		obj := call.This
		obj.Set("Output", chain(obj, l.Output))
		obj.Set("ImportLib", chain(obj, l.ImportLib))
		obj.Set("Debug", chain(obj, l.Debug))
		obj.Set("AddFile", chainEach(obj, l.AddFile))
		obj.Set("AddFiles", chainEach(obj, l.AddFile))
		obj.Set("AddLib", chainEach(obj, l.AddLib))
		obj.Set("AddLibs", chainEach(obj, l.AddLib))
		obj.Set("AddLibPath", chainEach(obj, l.AddLibPath))
		obj.Set("AddLibPaths", chainEach(obj, l.AddLibPath))
		obj.Set("DependencyCheck", chain(obj, l.DependencyCheck))
		obj.Set("Go", d.goAction(l.Go))
		return nil
	}
	vm.Set("Linker", linkerCtor)
	vm.Set("Exe", linkerCtor)

	vm.Set("Copy", func(call goja.ConstructorCall) *goja.Object {
		c := NewCopy(d)
		obj := call.This
		obj.Set("Source", chain(obj, c.Source))
		obj.Set("Dest", chain(obj, c.Dest))
		obj.Set("Recurse", chain(obj, c.Recurse))
		obj.Set("Overwrite", chain(obj, c.Overwrite))
		obj.Set("Go", d.goAction(c.Go))
		return nil
	})

	vm.Set("FileToCpp", func(call goja.ConstructorCall) *goja.Object {
		f := NewFileToCpp()
		obj := call.This
		obj.Set("Infile", chain(obj, f.Infile))
		obj.Set("Outfile", chain(obj, f.Outfile))
		obj.Set("Intro", chain(obj, f.Intro))
		obj.Set("Outro", chain(obj, f.Outro))
		obj.Set("Additional", chain(obj, f.Additional))
		obj.Set("Namespace", chain(obj, f.Namespace))
		obj.Set("NameForArray", chain(obj, f.NameForArray))
		obj.Set("NameForPtr", chain(obj, f.NameForPtr))
		obj.Set("Const", chain(obj, f.Const))
		obj.Set("TerminatingNull", chain(obj, f.TerminatingNull))
		obj.Set("DependencyCheck", chain(obj, f.DependencyCheck))
		obj.Set("Go", d.goAction(f.Go))
		return nil
	})

	bindTool := func(obj *goja.Object, t *toolTask) {
		obj.Set("OutDir", chain(obj, t.OutDir))
		obj.Set("AddFile", chainEach(obj, t.AddFile))
		obj.Set("AddFiles", chainEach(obj, t.AddFile))
		obj.Set("DependencyCheck", chain(obj, t.DependencyCheck))
		obj.Set("Go", d.goAction(t.Go))
	}
	vm.Set("ResourceCompiler", func(call goja.ConstructorCall) *goja.Object {
		bindTool(call.This, &NewResourceCompiler(d).toolTask)
		return nil
	})
	vm.Set("Moc", func(call goja.ConstructorCall) *goja.Object {
		bindTool(call.This, &NewMoc(d).toolTask)
		return nil
	})
	vm.Set("Uic", func(call goja.ConstructorCall) *goja.Object {
		bindTool(call.This, &NewUic(d).toolTask)
		return nil
	})
}

// chain wraps a single-argument setter so that it returns the task
// object for method chaining.
func chain[T any](obj *goja.Object, set func(T)) func(T) *goja.Object {
	return func(v T) *goja.Object {
		set(v)
		return obj
	}
}

// chainEach wraps a one-at-a-time setter into a variadic one.
func chainEach(obj *goja.Object, add func(string)) func(...string) *goja.Object {
	return func(vs ...string) *goja.Object {
		for _, v := range vs {
			add(v)
		}
		return obj
	}
}

// goAction wraps a task's Go so that failure surfaces as a script
// exception.
func (d *Driver) goAction(action func() error) func() {
	return func() {
		if err := action(); err != nil {
			d.throw(err)
		}
	}
}

func (d *Driver) requireString(call goja.FunctionCall, i int, what string) string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		d.throw(fmt.Errorf("missing argument %d for %s", i+1, what))
	}
	return v.String()
}

func argStrings(call goja.FunctionCall) []string {
	var out []string
	for _, arg := range call.Arguments {
		out = append(out, arg.String())
	}
	return out
}
