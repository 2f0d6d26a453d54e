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
	"fmt"
	"os"
)

// 開發用任務：
//
//	go run ./scripts test         # 只顯示 ok / FAIL
//	go run ./scripts test-race    # -race
//	go run ./scripts test-detail  # -v，略過沒有測試的套件
//	go run ./scripts stage        # 把內嵌示範遊戲 staging 到 build/stage 並輸出報告
//	go run ./scripts run          # 啟動 gamedock（開瀏覽器）
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-race|test-detail|stage|run]")
		os.Exit(1)
	}
	selectTask(os.Args[1], os.Args[2:])
}

func selectTask(task string, extra []string) {
	switch task {
	case "test":
		runTest(summaryOnly, "-cover", "-count=1")
	case "test-race":
		runTest(summaryOnly, "-race", "-count=1")
	case "test-detail":
		runTest(skipNoTests, "-v", "-count=1")
	case "stage":
		runGo(append([]string{"run", "./cmd/stage", "-document-dir", "build/stage", "-format", "yaml"}, extra...)...)
	case "run":
		runGo(append([]string{"run", "./cmd/gamedock"}, extra...)...)
	default:
		PrintYellow(fmt.Sprintf("Unknown task: %s\n", task))
		os.Exit(1)
	}
}
