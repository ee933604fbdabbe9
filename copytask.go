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

// Copy copies files matched by a glob (or a single file, or a directory
// tree when Recurse is set) into a destination directory. Files already
// present and at least as new as their source are left alone; with
// Overwrite(false) no existing destination file is replaced at all.
type Copy struct {
	drv *Driver

	source    string
	dest      string
	recurse   bool
	overwrite bool
}

func NewCopy(drv *Driver) *Copy {
	return &Copy{drv: drv, overwrite: true}
}

func (c *Copy) Source(src string)      { c.source = src }
func (c *Copy) Dest(dst string)        { c.dest = dst }
func (c *Copy) Recurse(recurse bool)   { c.recurse = recurse }
func (c *Copy) Overwrite(always bool)  { c.overwrite = always }

func (c *Copy) Go() error {
	if c.source == "" {
		return fmt.Errorf("missing 'Source' for Copy()")
	}
	if c.dest == "" {
		return fmt.Errorf("missing 'Dest' for Copy()")
	}
	if st, err := os.Stat(c.source); err == nil && st.IsDir() {
		if !c.recurse {
			return fmt.Errorf("'%s' is a directory; Recurse(true) required for Copy()", c.source)
		}
		return c.copyTree(c.source, c.dest)
	}
	dir, pattern := filepath.Split(c.source)
	if dir == "" {
		dir = "."
	}
	files, err := glob(dir, pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match '%s' for Copy()", c.source)
	}
	if err := os.MkdirAll(c.dest, 0777); err != nil {
		return err
	}
	for _, file := range files {
		if err := c.copyOne(file, filepath.Join(c.dest, filepath.Base(file))); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copy) copyOne(src, dst string) error {
	srcTime, ok := mtime(src)
	if !ok {
		return fmt.Errorf("missing file '%s' for Copy()", src)
	}
	if dstTime, ok := mtime(dst); ok {
		if !c.overwrite {
			return nil
		}
		if !srcTime.After(dstTime) {
			glog.V(1).Infof("up to date: %s", dst)
			return nil
		}
	}
	glog.V(1).Infof("copy %s -> %s", src, dst)
	return copyFile(src, dst)
}

func (c *Copy) copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0777)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return c.copyOne(path, target)
	})
}
