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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/google/renameio"
)

func exists(filename string) bool {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return true
}

func mtime(filename string) (time.Time, bool) {
	st, err := os.Stat(filename)
	if err != nil {
		return time.Time{}, false
	}
	return st.ModTime(), true
}

// fullPath canonicalises an existing path. A missing path is an error,
// matching the contract of filesystem canonicalisation.
func fullPath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("full path for %s: %v", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("full path for %s: %v", path, err)
	}
	return filepath.Clean(abs), nil
}

// glob enumerates regular files in dir whose base names match a
// shell-style pattern and returns their absolute paths. The order is
// whatever the directory enumerator yields.
func glob(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %v", pattern, err)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, ent := range ents {
		if !ent.Type().IsRegular() {
			continue
		}
		ok, _ := filepath.Match(pattern, ent.Name())
		if !ok {
			continue
		}
		abs, err := fullPath(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	return files, nil
}

func touch(filenames []string) error {
	now := time.Now()
	for _, filename := range filenames {
		st, err := os.Stat(filename)
		if err != nil {
			return fmt.Errorf("file %s does not exist", filename)
		}
		if !st.Mode().IsRegular() {
			return fmt.Errorf("%s is not a file", filename)
		}
		if err := os.Chtimes(filename, now, now); err != nil {
			return err
		}
	}
	return nil
}

// deleteAll removes files and directories recursively. Per-path errors
// are swallowed; Delete is the one builtin that never fails halfway
// through a cleanup list.
func deleteAll(paths []string) {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			glog.V(1).Infof("delete %s: %v", path, err)
		}
	}
}

func stringToFile(filename, content string) error {
	if err := renameio.WriteFile(filename, []byte(content), 0666); err != nil {
		return fmt.Errorf("error writing %s: %v", filename, err)
	}
	return nil
}

// copyFile copies src to dst and carries the source mtime over, so a
// later freshness check sees the copy as exactly as old as its origin.
func copyFile(src, dst string) error {
	st, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, st.ModTime(), st.ModTime())
}

// directorySync mirrors src into dst: missing and newer files are
// copied, subdirectories are synced recursively, and entries present
// only in dst are removed.
func directorySync(src, dst string) error {
	srcEnts, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0777); err != nil {
		return err
	}
	inSrc := make(map[string]bool, len(srcEnts))
	for _, ent := range srcEnts {
		inSrc[ent.Name()] = true
		s := filepath.Join(src, ent.Name())
		d := filepath.Join(dst, ent.Name())
		if ent.IsDir() {
			if st, err := os.Stat(d); err == nil && !st.IsDir() {
				if err := os.Remove(d); err != nil {
					return err
				}
			}
			if err := directorySync(s, d); err != nil {
				return err
			}
			continue
		}
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			if err := os.RemoveAll(d); err != nil {
				return err
			}
		}
		srcTime, _ := mtime(s)
		dstTime, ok := mtime(d)
		if ok && !srcTime.After(dstTime) {
			continue
		}
		glog.V(1).Infof("sync %s -> %s", s, d)
		if err := copyFile(s, d); err != nil {
			return err
		}
	}
	dstEnts, err := os.ReadDir(dst)
	if err != nil {
		return err
	}
	for _, ent := range dstEnts {
		if inSrc[ent.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dst, ent.Name())); err != nil {
			return err
		}
	}
	return nil
}
