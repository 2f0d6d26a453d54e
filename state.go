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

package gamedock

// State 是 Launcher 的生命週期狀態。
//
//	Idle → Staging → Starting → Serving → Stopped
//
// 任何狀態都可以因 Teardown 直接進入 Stopped。
type State int32

const (
	StateIdle State = iota
	StateStaging
	StateStarting
	StateServing
	StateStopped
)

var stateName = [...]string{
	StateIdle:     "idle",
	StateStaging:  "staging",
	StateStarting: "starting",
	StateServing:  "serving",
	StateStopped:  "stopped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateName) {
		return "unknown"
	}
	return stateName[s]
}
