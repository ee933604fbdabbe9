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
	"path/filepath"
	"runtime"
	"strings"
)

// Toolchain is the process-wide compiler/linker selection: a symbolic
// id plus a target platform. Workers never read it directly; the
// dispatcher hands them fully formed command strings.
type Toolchain struct {
	id       string
	platform string
}

const (
	ToolchainMSVC = "MSVC"
	ToolchainGCC  = "GCC"

	PlatformX86 = "x86"
	PlatformX64 = "x64"
)

func hostDefaultToolchain() string {
	if runtime.GOOS == "windows" {
		return ToolchainMSVC
	}
	return ToolchainGCC
}

func newToolchain() *Toolchain {
	return &Toolchain{id: hostDefaultToolchain(), platform: PlatformX64}
}

func (tc *Toolchain) String() string {
	return tc.id + ", " + tc.platform
}

func (tc *Toolchain) SetID(id string) error {
	switch id {
	case ToolchainMSVC, ToolchainGCC:
		tc.id = id
		return nil
	}
	return fmt.Errorf("unknown toolchain %q", id)
}

func (tc *Toolchain) SetPlatform(platform string) error {
	switch platform {
	case PlatformX86, PlatformX64:
		tc.platform = platform
		return nil
	}
	return fmt.Errorf("unknown platform %q", platform)
}

// SetEnvBatchCall returns a self-contained shell command that primes
// the current shell for the selected toolchain. It is prepended with
// "&&" to every Run invocation.
func (tc *Toolchain) SetEnvBatchCall() string {
	switch tc.id {
	case ToolchainMSVC:
		arch := "amd64"
		if tc.platform == PlatformX86 {
			arch = "x86"
		}
		return fmt.Sprintf(`call "%%VS_TOOLS%%\VC\Auxiliary\Build\vcvarsall.bat" %s >nul`, arch)
	default:
		// gcc needs no environment priming.
		return "true"
	}
}

func (tc *Toolchain) objSuffix() string {
	if tc.id == ToolchainMSVC {
		return ".obj"
	}
	return ".o"
}

func (tc *Toolchain) pchSuffix() string {
	if tc.id == ToolchainMSVC {
		return ".pch"
	}
	return ".gch"
}

// compileOptions carries everything a single compiler invocation
// depends on, frozen at dispatch time.
type compileOptions struct {
	debug     bool
	crtStatic bool
	outDir    string
	includes  []string
	defines   []string
	extra     string
	pchHeader string // precompiled header file, empty when unused
	pchCreate bool   // this invocation produces the PCH artifact
}

// CompileCommand synthesises the compiler invocation for one source
// file under opts.
func (tc *Toolchain) CompileCommand(opts compileOptions, file string) string {
	var b strings.Builder
	switch tc.id {
	case ToolchainMSVC:
		b.WriteString("cl /nologo /c /EHsc")
		if opts.debug {
			b.WriteString(" /Od /Zi")
			if opts.crtStatic {
				b.WriteString(" /MTd")
			} else {
				b.WriteString(" /MDd")
			}
		} else {
			b.WriteString(" /O2")
			if opts.crtStatic {
				b.WriteString(" /MT")
			} else {
				b.WriteString(" /MD")
			}
		}
		for _, dir := range opts.includes {
			fmt.Fprintf(&b, " /I%q", dir)
		}
		for _, def := range opts.defines {
			fmt.Fprintf(&b, " /D%s", def)
		}
		if opts.pchHeader != "" {
			pch := filepath.Join(opts.outDir, stripExt(filepath.Base(opts.pchHeader))+tc.pchSuffix())
			if opts.pchCreate {
				fmt.Fprintf(&b, " /Yc%q /Fp%q", opts.pchHeader, pch)
			} else {
				fmt.Fprintf(&b, " /Yu%q /Fp%q", opts.pchHeader, pch)
			}
		}
		if opts.extra != "" {
			b.WriteByte(' ')
			b.WriteString(strings.TrimSpace(opts.extra))
		}
		fmt.Fprintf(&b, " /Fo%q %q", opts.outDir+string(filepath.Separator), file)
	default:
		b.WriteString("g++ -c")
		if opts.debug {
			b.WriteString(" -g -O0")
		} else {
			b.WriteString(" -O2")
		}
		if tc.platform == PlatformX86 {
			b.WriteString(" -m32")
		} else {
			b.WriteString(" -m64")
		}
		if opts.pchCreate {
			b.WriteString(" -x c++-header")
		}
		for _, dir := range opts.includes {
			fmt.Fprintf(&b, " -I%q", dir)
		}
		for _, def := range opts.defines {
			fmt.Fprintf(&b, " -D%s", def)
		}
		if opts.pchHeader != "" && !opts.pchCreate {
			// The .gch lands in outDir; gcc picks it up along the
			// include path.
			fmt.Fprintf(&b, " -I%q -include %q", opts.outDir, filepath.Base(opts.pchHeader))
		}
		if opts.extra != "" {
			b.WriteByte(' ')
			b.WriteString(strings.TrimSpace(opts.extra))
		}
		var out string
		if opts.pchCreate {
			out = filepath.Join(opts.outDir, filepath.Base(opts.pchHeader)+tc.pchSuffix())
		} else {
			out = filepath.Join(opts.outDir, stripExt(filepath.Base(file))+tc.objSuffix())
		}
		fmt.Fprintf(&b, " -o %q %q", out, file)
	}
	return b.String()
}

// pchArtifact is the file the PCH phase produces and the oracle checks.
func (tc *Toolchain) pchArtifact(outDir, pchHeader string) string {
	if tc.id == ToolchainMSVC {
		return filepath.Join(outDir, stripExt(filepath.Base(pchHeader))+tc.pchSuffix())
	}
	return filepath.Join(outDir, filepath.Base(pchHeader)+tc.pchSuffix())
}

// ArchiveCommand synthesises the static-library invocation.
func (tc *Toolchain) ArchiveCommand(output string, objs []string) string {
	var b strings.Builder
	if tc.id == ToolchainMSVC {
		fmt.Fprintf(&b, "lib /NOLOGO /OUT:%q", output)
		for _, obj := range objs {
			fmt.Fprintf(&b, " %q", obj)
		}
	} else {
		fmt.Fprintf(&b, "ar rcs %q", output)
		for _, obj := range objs {
			fmt.Fprintf(&b, " %q", obj)
		}
	}
	return b.String()
}

type linkOptions struct {
	output    string
	importLib string
	debug     bool
	shared    bool
	objs      []string
	libs      []string
	libPaths  []string
}

// LinkCommand synthesises the executable or shared-library link.
func (tc *Toolchain) LinkCommand(opts linkOptions) string {
	var b strings.Builder
	if tc.id == ToolchainMSVC {
		b.WriteString("link /NOLOGO")
		if opts.debug {
			b.WriteString(" /DEBUG")
		}
		if opts.shared {
			b.WriteString(" /DLL")
			if opts.importLib != "" {
				fmt.Fprintf(&b, " /IMPLIB:%q", opts.importLib)
			}
		}
		fmt.Fprintf(&b, " /OUT:%q", opts.output)
		for _, dir := range opts.libPaths {
			fmt.Fprintf(&b, " /LIBPATH:%q", dir)
		}
		for _, obj := range opts.objs {
			fmt.Fprintf(&b, " %q", obj)
		}
		for _, lib := range opts.libs {
			fmt.Fprintf(&b, " %q", lib)
		}
	} else {
		b.WriteString("g++")
		if tc.platform == PlatformX86 {
			b.WriteString(" -m32")
		} else {
			b.WriteString(" -m64")
		}
		if opts.debug {
			b.WriteString(" -g")
		}
		if opts.shared {
			b.WriteString(" -shared -fPIC")
		}
		fmt.Fprintf(&b, " -o %q", opts.output)
		for _, obj := range opts.objs {
			fmt.Fprintf(&b, " %q", obj)
		}
		for _, dir := range opts.libPaths {
			fmt.Fprintf(&b, " -L%q", dir)
		}
		for _, lib := range opts.libs {
			fmt.Fprintf(&b, " -l%s", strings.TrimSuffix(strings.TrimPrefix(filepath.Base(lib), "lib"), ".a"))
		}
	}
	return b.String()
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
