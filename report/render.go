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

package report

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/gamedock/errs"
)

// Render 定義輸出行為
type Render interface {
	Write(w io.Writer, s *Summary) error
}

// Formats 是 ByName 接受的格式名稱。
var Formats = []string{"text", "yaml", "json"}

// ByName 依名稱取得 Render；空字串視為 text。
func ByName(format string) (Render, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "table":
		return &TextRender{}, nil
	case "yaml", "yml":
		return &YAMLRender{}, nil
	case "json":
		return &JSONRender{}, nil
	default:
		return nil, errs.Config("unknown report format: %s", format)
	}
}

// JSON渲染
type JSONRender struct{}

func (jr *JSONRender) Write(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, s *Summary) error {
	return forceReadableList(w, s)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// styleReadableSequences 只把「全部都是 scalar」的 sequence 改成 flow style：[a, b, c]；
// 內含 mapping / sequence 的維持預設 block（展開）。
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		scalars := true
		for _, c := range n.Content {
			if c != nil && c.Kind != yaml.ScalarNode {
				scalars = false
			}
			styleReadableSequences(c)
		}
		if scalars {
			n.Style = yaml.FlowStyle
		}
	}
}
