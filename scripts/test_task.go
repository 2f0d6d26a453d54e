// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 決定 go test 的每一行要怎麼印；回傳 false 表示略過。
type lineFilter func(line string) bool

// summaryOnly 等同 grep -E '^(ok|FAIL)'，但保留編譯錯誤。
func summaryOnly(line string) bool {
	return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
}

// skipNoTests 等同 grep -v '\[no test files\]'
func skipNoTests(line string) bool {
	return !strings.Contains(line, "[no test files]")
}

func runTest(keep lineFilter, flags ...string) {
	PrintGreen("running tests " + strings.Join(flags, " "))

	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintRed(err.Error())
	}

	cmd := exec.Command("go", append([]string{"test", "./..."}, flags...)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
	// 2>&1
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("Error starting go test: %v", err))
		os.Exit(1)
	}

	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := scanner.Text()
		if !keep(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "failed"):
			PrintRed(line)
		default:
			PrintDefault(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}

func runGo(args ...string) {
	PrintBlue("go " + strings.Join(args, " "))
	cmd := exec.Command("go", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}
