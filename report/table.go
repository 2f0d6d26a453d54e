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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// TextRender 輸出對齊的文字表格（寬字元以 runewidth 計算）。
type TextRender struct{}

func (tr *TextRender) Write(w io.Writer, s *Summary) error {
	keys, msg := s.fmtBasic()
	out := fmtTable("Staging Report", keys, msg)
	if len(s.Failures) > 0 {
		out += "failures:\n"
		for _, f := range s.Failures {
			out += fmt.Sprintf("  [%s] %s\n", f.Code, f.Path)
		}
	}
	_, err := io.WriteString(w, out)
	return err
}

func (s *Summary) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Scheme":      s.Scheme,
		"Source":      s.Source,
		"Destination": s.Destination,
		"Files":       p.Sprintf("%d", s.Copied),
		"Failures":    p.Sprintf("%d", s.Failed),
		"Directories": p.Sprintf("%d", s.Dirs),
		"Bytes":       p.Sprintf("%d", s.Bytes),
		"Elapsed":     formatDuration(s.Elapsed),
		"Copy Mean":   p.Sprintf("%.3f ms", s.Latency.MeanMs),
		"Copy Std":    p.Sprintf("%.3f ms", s.Latency.StdMs),
		"Copy P95":    p.Sprintf("%.3f ms", s.Latency.P95Ms),
	}
	keys := []string{"Scheme", "Source", "Destination", "Files", "Failures", "Directories", "Bytes", "Elapsed", "Copy Mean", "Copy Std", "Copy P95"}
	if s.Canceled {
		basic["Canceled"] = "yes"
		keys = append(keys, "Canceled")
	}
	return keys, basic
}

func formatDuration(d time.Duration) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	if d < time.Minute {
		return p.Sprintf("%.3f s", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return p.Sprintf("%dm %ds", m, sec)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
