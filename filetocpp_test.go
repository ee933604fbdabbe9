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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// extractBytes parses the integer list between the array braces of a
// generated file.
func extractBytes(t *testing.T, generated string) []byte {
	t.Helper()
	open := strings.Index(generated, "[] = {")
	close := strings.Index(generated, "};")
	if open < 0 || close < 0 {
		t.Fatalf("no array in generated output:\n%s", generated)
	}
	var out []byte
	for _, tok := range strings.FieldsFunc(generated[open+6:close], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n'
	}) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			t.Fatalf("bad byte token %q: %v", tok, err)
		}
		out = append(out, byte(n))
	}
	return out
}

func TestFileToCppRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 400)
	for i := range data {
		data[i] = byte(i * 7)
	}
	infile := filepath.Join(dir, "x.bin")
	outfile := filepath.Join(dir, "x.cpp")
	if err := os.WriteFile(infile, data, 0666); err != nil {
		t.Fatal(err)
	}

	f := NewFileToCpp()
	f.Infile(infile)
	f.Outfile(outfile)
	f.NameForArray("Blob")
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}
	got := extractBytes(t, string(generated))
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("embedded bytes differ (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(generated), "char* BlobPtr = Blob;") {
		t.Errorf("missing synthesised pointer declaration:\n%s", generated)
	}
}

func TestFileToCppConstAndTerminatingNull(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "x.bin")
	outfile := filepath.Join(dir, "x.cpp")
	if err := os.WriteFile(infile, []byte{0x01, 0x02, 0xFF}, 0666); err != nil {
		t.Fatal(err)
	}

	f := NewFileToCpp()
	f.Infile(infile)
	f.Outfile(outfile)
	f.NameForArray("X")
	f.Const(true)
	f.TerminatingNull(true)
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}

	want := "const char X[] = {\n  1,2,255,0\n};\n\nconst char* XPtr = X;\n\n\n"
	if got := string(generated); got != want {
		dmp := diffmatchpatch.New()
		t.Errorf("generated output differs:\n%s", dmp.DiffPrettyText(dmp.DiffMain(want, got, false)))
	}
}

func TestFileToCppNamespaceAndBlocks(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "x.bin")
	outfile := filepath.Join(dir, "x.cpp")
	if err := os.WriteFile(infile, []byte{7}, 0666); err != nil {
		t.Fatal(err)
	}

	f := NewFileToCpp()
	f.Infile(infile)
	f.Outfile(outfile)
	f.NameForPtr("P")
	f.Namespace("res")
	f.Intro("// generated")
	f.Outro("// end")
	f.Additional("int size = 1;")
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}
	got := string(generated)

	for _, part := range []string{
		"// generated\n\n",
		"namespace res {\n\n",
		"  char PArray[] = {\n",
		"  char* P = PArray;\n",
		"int size = 1;\n\n",
		"}\n\n",
		"// end",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("generated output missing %q:\n%s", part, got)
		}
	}
}

func TestFileToCppLineBreaks(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 2*bytesPerLine+10)
	infile := filepath.Join(dir, "x.bin")
	outfile := filepath.Join(dir, "x.cpp")
	if err := os.WriteFile(infile, data, 0666); err != nil {
		t.Fatal(err)
	}

	f := NewFileToCpp()
	f.Infile(infile)
	f.Outfile(outfile)
	f.NameForArray("Z")
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}
	open := strings.Index(string(generated), "{\n")
	close := strings.Index(string(generated), "\n};")
	body := string(generated)[open+2 : close]
	lines := strings.Split(body, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d byte lines, want 3", len(lines))
	}
	for i, line := range lines[:2] {
		if n := strings.Count(line, ","); n != bytesPerLine {
			t.Errorf("line %d has %d commas, want %d", i, n, bytesPerLine)
		}
	}
}

func TestFileToCppValidation(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "x.bin")
	if err := os.WriteFile(infile, []byte{1}, 0666); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		cfg  func(*FileToCpp)
	}{
		{"missing infile", func(f *FileToCpp) { f.Outfile("o.cpp"); f.NameForArray("A") }},
		{"missing outfile", func(f *FileToCpp) { f.Infile(infile); f.NameForArray("A") }},
		{"missing names", func(f *FileToCpp) { f.Infile(infile); f.Outfile("o.cpp") }},
		{"infile absent", func(f *FileToCpp) {
			f.Infile(filepath.Join(dir, "nope.bin"))
			f.Outfile("o.cpp")
			f.NameForArray("A")
		}},
	} {
		f := NewFileToCpp()
		tc.cfg(f)
		if err := f.Go(); err == nil {
			t.Errorf("%s: Go()=nil, want error", tc.name)
		}
	}
}

func TestFileToCppUpToDateSkip(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	infile := filepath.Join(dir, "x.bin")
	outfile := filepath.Join(dir, "x.cpp")
	writeFileAt(t, infile, "abc", base.Add(-time.Minute))
	writeFileAt(t, outfile, "already generated", base)

	f := NewFileToCpp()
	f.Infile(infile)
	f.Outfile(outfile)
	f.NameForArray("A")
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}
	if string(generated) != "already generated" {
		t.Errorf("up-to-date output was regenerated")
	}

	f.DependencyCheck(false)
	if err := f.Go(); err != nil {
		t.Fatal(err)
	}
	generated, _ = os.ReadFile(outfile)
	if string(generated) == "already generated" {
		t.Errorf("DependencyCheck(false) did not force regeneration")
	}
}
