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
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/google/renameio"
)

const bytesPerLine = 150

// FileToCpp embeds a file into a C++ source as a byte array plus an
// aliasing pointer.
type FileToCpp struct {
	infile          string
	outfile         string
	intro           string
	outro           string
	additional      string
	namespace       string
	nameForArray    string
	nameForPtr      string
	varConst        bool
	terminatingNull bool
	dependencyCheck bool
}

func NewFileToCpp() *FileToCpp {
	return &FileToCpp{dependencyCheck: true}
}

func (f *FileToCpp) Infile(p string)             { f.infile = p }
func (f *FileToCpp) Outfile(p string)            { f.outfile = p }
func (f *FileToCpp) Intro(s string)              { f.intro = s }
func (f *FileToCpp) Outro(s string)              { f.outro = s }
func (f *FileToCpp) Additional(s string)         { f.additional = s }
func (f *FileToCpp) Namespace(ns string)         { f.namespace = ns }
func (f *FileToCpp) NameForArray(name string)    { f.nameForArray = name }
func (f *FileToCpp) NameForPtr(name string)      { f.nameForPtr = name }
func (f *FileToCpp) Const(c bool)                { f.varConst = c }
func (f *FileToCpp) TerminatingNull(null bool)   { f.terminatingNull = null }
func (f *FileToCpp) DependencyCheck(check bool)  { f.dependencyCheck = check }

func (f *FileToCpp) checkParams() error {
	if f.infile == "" {
		return fmt.Errorf("missing 'Infile' for FileToCpp()")
	}
	if f.outfile == "" {
		return fmt.Errorf("missing 'Outfile' for FileToCpp()")
	}
	if f.nameForArray == "" && f.nameForPtr == "" {
		return fmt.Errorf("missing variable name for FileToCpp()")
	}
	if f.nameForArray == "" {
		f.nameForArray = f.nameForPtr + "Array"
	}
	if f.nameForPtr == "" {
		f.nameForPtr = f.nameForArray + "Ptr"
	}
	if !exists(f.infile) {
		return fmt.Errorf("missing Infile '%s' for FileToCpp(). File does not exist", f.infile)
	}
	return nil
}

func (f *FileToCpp) needsRebuild() bool {
	ood := NewOutOfDate()
	ood.Check(f.dependencyCheck)
	ood.Parent(f.outfile)
	ood.AddFile(f.infile)
	return ood.Go()
}

func (f *FileToCpp) Go() error {
	if err := f.checkParams(); err != nil {
		return err
	}
	if !f.needsRebuild() {
		glog.V(1).Infof("up to date: %s", f.outfile)
		return nil
	}
	data, err := os.ReadFile(f.infile)
	if err != nil {
		return fmt.Errorf("error reading %s: %v", f.infile, err)
	}
	if err := renameio.WriteFile(f.outfile, f.generate(data), 0666); err != nil {
		return fmt.Errorf("error opening %s: %v", f.outfile, err)
	}
	return nil
}

func (f *FileToCpp) generate(data []byte) []byte {
	var out bytes.Buffer
	indent := ""
	if f.namespace != "" {
		indent = "  "
	}
	qual := ""
	if f.varConst {
		qual = "const "
	}

	if f.intro != "" {
		out.WriteString(f.intro)
		out.WriteString("\n\n")
	}
	if f.namespace != "" {
		out.WriteString("namespace " + f.namespace + " {\n\n")
	}

	out.WriteString(indent + qual + "char " + f.nameForArray + "[] = {\n")
	out.WriteString(indent + "  ")
	for i, b := range data {
		if i > 0 {
			out.WriteByte(',')
			if i%bytesPerLine == 0 {
				out.WriteString("\n" + indent + "  ")
			}
		}
		out.WriteString(strconv.Itoa(int(b)))
	}
	if f.terminatingNull {
		if len(data) > 0 {
			out.WriteByte(',')
		}
		out.WriteByte('0')
	}
	out.WriteString("\n" + indent + "};\n\n")

	out.WriteString(indent + qual + "char* " + f.nameForPtr + " = " + f.nameForArray + ";\n\n")

	if f.additional != "" {
		out.WriteString(f.additional)
		out.WriteString("\n\n")
	}
	if f.namespace != "" {
		out.WriteString("}\n\n")
	}
	if f.outro != "" {
		out.WriteString(f.outro)
	}
	out.WriteString("\n")
	return out.Bytes()
}
