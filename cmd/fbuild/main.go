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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/fbuild/fbuild"
)

var (
	scriptFlag string
	chdirFlag  string
)

func init() {
	flag.StringVar(&scriptFlag, "f", fbuild.BuildScriptName, "build script to evaluate")
	flag.StringVar(&chdirFlag, "C", "", "change to `dir` before doing anything")
}

func run() error {
	if chdirFlag != "" {
		if err := os.Chdir(chdirFlag); err != nil {
			return err
		}
	}
	d, err := fbuild.NewDriver(flag.Args())
	if err != nil {
		return err
	}
	return d.RunFile(scriptFlag)
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fbuild: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}
