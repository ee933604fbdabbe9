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
	"strings"
	"testing"
)

func TestToolchainValidation(t *testing.T) {
	tc := newToolchain()
	if err := tc.SetID("CLANG"); err == nil {
		t.Errorf("SetID accepted unknown toolchain")
	}
	if err := tc.SetPlatform("arm"); err == nil {
		t.Errorf("SetPlatform accepted unknown platform")
	}
	if err := tc.SetID(ToolchainGCC); err != nil {
		t.Fatal(err)
	}
	if err := tc.SetPlatform(PlatformX86); err != nil {
		t.Fatal(err)
	}
	if got := tc.String(); got != "GCC, x86" {
		t.Errorf("String()=%q, want %q", got, "GCC, x86")
	}
}

func TestSetEnvBatchCall(t *testing.T) {
	tc := &Toolchain{id: ToolchainMSVC, platform: PlatformX64}
	if got := tc.SetEnvBatchCall(); !strings.Contains(got, "vcvarsall") || !strings.Contains(got, "amd64") {
		t.Errorf("MSVC x64 prelude %q", got)
	}
	tc.platform = PlatformX86
	if got := tc.SetEnvBatchCall(); !strings.Contains(got, "x86") {
		t.Errorf("MSVC x86 prelude %q", got)
	}
	tc.id = ToolchainGCC
	if got := tc.SetEnvBatchCall(); got != "true" {
		t.Errorf("GCC prelude %q, want no-op", got)
	}
}

func TestCompileCommandGCC(t *testing.T) {
	tc := &Toolchain{id: ToolchainGCC, platform: PlatformX64}
	opts := compileOptions{
		debug:    true,
		outDir:   "obj",
		includes: []string{"inc"},
		defines:  []string{"FOO=1"},
		extra:    "-Wall",
	}
	cmd := tc.CompileCommand(opts, "src/a.cpp")
	for _, part := range []string{"g++ -c", "-g -O0", "-m64", `-I"inc"`, "-DFOO=1", "-Wall", `-o "obj/a.o"`, `"src/a.cpp"`} {
		if !strings.Contains(cmd, part) {
			t.Errorf("command %q missing %q", cmd, part)
		}
	}

	tc.platform = PlatformX86
	opts.debug = false
	cmd = tc.CompileCommand(opts, "src/a.cpp")
	for _, part := range []string{"-O2", "-m32"} {
		if !strings.Contains(cmd, part) {
			t.Errorf("command %q missing %q", cmd, part)
		}
	}
}

func TestCompileCommandMSVC(t *testing.T) {
	tc := &Toolchain{id: ToolchainMSVC, platform: PlatformX64}
	for _, tcase := range []struct {
		debug     bool
		crtStatic bool
		want      string
	}{
		{debug: true, crtStatic: true, want: "/MTd"},
		{debug: true, crtStatic: false, want: "/MDd"},
		{debug: false, crtStatic: true, want: "/MT"},
		{debug: false, crtStatic: false, want: "/MD"},
	} {
		opts := compileOptions{debug: tcase.debug, crtStatic: tcase.crtStatic, outDir: "obj"}
		cmd := tc.CompileCommand(opts, "a.cpp")
		if !strings.Contains(cmd, " "+tcase.want) {
			t.Errorf("debug=%v crtStatic=%v: command %q missing %s", tcase.debug, tcase.crtStatic, cmd, tcase.want)
		}
	}
}

func TestCompileCommandPCH(t *testing.T) {
	tc := &Toolchain{id: ToolchainMSVC, platform: PlatformX64}
	opts := compileOptions{outDir: "obj", pchHeader: "pch.h", pchCreate: true}
	cmd := tc.CompileCommand(opts, "pch.cpp")
	if !strings.Contains(cmd, `/Yc"pch.h"`) {
		t.Errorf("PCH create command %q missing /Yc", cmd)
	}
	opts.pchCreate = false
	cmd = tc.CompileCommand(opts, "a.cpp")
	if !strings.Contains(cmd, `/Yu"pch.h"`) {
		t.Errorf("PCH use command %q missing /Yu", cmd)
	}

	gcc := &Toolchain{id: ToolchainGCC, platform: PlatformX64}
	opts = compileOptions{outDir: "obj", pchHeader: "pch.h", pchCreate: true}
	cmd = gcc.CompileCommand(opts, "pch.h")
	if !strings.Contains(cmd, "-x c++-header") || !strings.Contains(cmd, `-o "obj/pch.h.gch"`) {
		t.Errorf("gcc PCH create command %q", cmd)
	}
	opts.pchCreate = false
	cmd = gcc.CompileCommand(opts, "a.cpp")
	if !strings.Contains(cmd, `-I"obj"`) || !strings.Contains(cmd, `-include "pch.h"`) {
		t.Errorf("gcc PCH use command %q", cmd)
	}
}

func TestArchiveAndLinkCommands(t *testing.T) {
	gcc := &Toolchain{id: ToolchainGCC, platform: PlatformX64}
	if got := gcc.ArchiveCommand("out/libx.a", []string{"a.o", "b.o"}); got != `ar rcs "out/libx.a" "a.o" "b.o"` {
		t.Errorf("ArchiveCommand=%q", got)
	}

	cmd := gcc.LinkCommand(linkOptions{
		output:   "bin/app",
		objs:     []string{"a.o"},
		libs:     []string{"libz.a"},
		libPaths: []string{"lib"},
	})
	for _, part := range []string{`-o "bin/app"`, `"a.o"`, `-L"lib"`, "-lz"} {
		if !strings.Contains(cmd, part) {
			t.Errorf("link command %q missing %q", cmd, part)
		}
	}
	if strings.Contains(cmd, "-shared") {
		t.Errorf("executable link %q has -shared", cmd)
	}

	cmd = gcc.LinkCommand(linkOptions{output: "bin/libx.so", shared: true})
	if !strings.Contains(cmd, "-shared") {
		t.Errorf("shared link %q missing -shared", cmd)
	}

	msvc := &Toolchain{id: ToolchainMSVC, platform: PlatformX64}
	cmd = msvc.LinkCommand(linkOptions{output: "x.dll", shared: true, importLib: "x.lib", debug: true})
	for _, part := range []string{"/DLL", `/IMPLIB:"x.lib"`, "/DEBUG", `/OUT:"x.dll"`} {
		if !strings.Contains(cmd, part) {
			t.Errorf("msvc link command %q missing %q", cmd, part)
		}
	}
}

func TestLinkerOutputKind(t *testing.T) {
	d := newTestDriver(t)
	for _, tcase := range []struct {
		output string
		shared bool
	}{
		{"app", false},
		{"app.exe", false},
		{"x.dll", true},
		{"libx.so", true},
		{"x.dylib", true},
	} {
		l := NewLinker(d)
		l.Output(tcase.output)
		if got := l.shared(); got != tcase.shared {
			t.Errorf("shared(%q)=%v, want %v", tcase.output, got, tcase.shared)
		}
	}
}
