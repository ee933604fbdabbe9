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
	"os/exec"
	"runtime"
	"strings"

	"github.com/golang/glog"
)

func shellCommand(cmdline string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/c", cmdline)
	}
	return exec.Command("/bin/sh", "-c", cmdline)
}

// system runs cmdline through the OS shell with inherited stdio and
// returns the shell's exit status.
func system(cmdline string) (int, error) {
	glog.V(1).Infof("system: %s", cmdline)
	cmd := shellCommand(cmdline)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	return -1, err
}

// runCaptured runs cmdline through the shell with stdout and stderr
// redirected into a uniquely named temporary file, which is removed
// before returning. Trailing whitespace is stripped from the captured
// text.
func runCaptured(cmdline string) (string, int, error) {
	tmp, err := os.CreateTemp("", "fbuild-run-*.out")
	if err != nil {
		return "", -1, err
	}
	tmpname := tmp.Name()
	defer os.Remove(tmpname)

	glog.V(1).Infof("run: %s", cmdline)
	cmd := shellCommand(cmdline)
	cmd.Stdin = os.Stdin
	cmd.Stdout = tmp
	cmd.Stderr = tmp
	err = cmd.Run()
	tmp.Close()

	status := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return "", -1, err
		}
		status = ee.ExitCode()
	}
	data, err := os.ReadFile(tmpname)
	if err != nil {
		return "", status, err
	}
	return strings.TrimRight(string(data), " \t\r\n"), status, nil
}

// run executes cmdline with the toolchain env prelude prepended. If
// capture is set the combined output is returned; otherwise stdio is
// inherited. A non-zero exit is an error either way.
func (d *Driver) run(cmdline string, capture bool) (string, error) {
	full := d.toolchain.SetEnvBatchCall() + " && " + cmdline
	if capture {
		out, status, err := runCaptured(full)
		if err != nil {
			return "", fmt.Errorf("error running command %s: %v", cmdline, err)
		}
		if status != 0 {
			printOutput(out)
			return "", fmt.Errorf("error running command %s", cmdline)
		}
		return out, nil
	}
	status, err := system(full)
	if err != nil {
		return "", fmt.Errorf("error running command %s: %v", cmdline, err)
	}
	if status != 0 {
		return "", fmt.Errorf("error running command %s", cmdline)
	}
	return "", nil
}
