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

// Package errs 定義 gamedock 統一的錯誤型別。
//
// 每個錯誤同時帶有兩個維度：
//   - ErrLevel：嚴重程度（Fatal / Warn / Log），讓最上層決定要中止還是記錄後繼續。
//   - Code：錯誤分類（Enumeration / Copy / ServerStart / Config），讓呼叫端可以用 errors.Is 判斷。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code 是錯誤分類。
type Code uint8

const (
	CodeNone Code = iota
	// CodeEnumeration：來源目錄無法列出。
	CodeEnumeration
	// CodeCopy：單一檔案複製失敗。
	CodeCopy
	// CodeServerStart：本機 HTTP server 無法取得 origin。
	CodeServerStart
	// CodeConfig：設定不合法。
	CodeConfig
	// CodeNotReady：資源尚未就緒（例如 staging 還在進行）。
	CodeNotReady
)

var codeMap = map[Code]string{
	CodeNone:        "",
	CodeEnumeration: "enumeration",
	CodeCopy:        "copy",
	CodeServerStart: "server_start",
	CodeConfig:      "config",
	CodeNotReady:    "not_ready",
}

func (c Code) String() string {
	return codeMap[c]
}

// 分類哨兵：只帶 Code，搭配 errors.Is 使用。
//
//	if errors.Is(err, errs.ErrEnumeration) { ... }
var (
	ErrEnumeration = &E{Code: CodeEnumeration}
	ErrCopy        = &E{Code: CodeCopy}
	ErrServerStart = &E{Code: CodeServerStart}
	ErrConfig      = &E{Code: CodeConfig}
	ErrNotReady    = &E{Code: CodeNotReady}
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文（通常是路徑）；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重程度；Code 表示分類。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s", ErrLv(e.ErrLv))
	if e.Code != CodeNone {
		base += " code=" + e.Code.String()
	}
	if e.Message != "" {
		base += " " + e.Message
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 讓分類哨兵（只有 Code、沒有 Message）可以匹配同 Code 的任何 *E。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	if t.Message == "" && t.Cause == nil && t.Code != CodeNone {
		return e.Code == t.Code
	}
	return e == t
}

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

// Enumeration 建立「來源目錄無法列出」錯誤。path 放在 Extra。
//
// 根目錄列不出來時由 staging 回傳給呼叫端；子目錄列不出來時只記錄、不中止兄弟節點。
func Enumeration(path string, cause error) *E {
	return &E{Message: "list source directory failed", Extra: path, Cause: cause, ErrLv: Warn, Code: CodeEnumeration}
}

// Copy 建立「單一檔案複製失敗」錯誤。這類錯誤永遠只記錄，不升級。
func Copy(src string, dst string, cause error) *E {
	return &E{Message: "copy asset failed", Extra: src + " -> " + dst, Cause: cause, ErrLv: Log, Code: CodeCopy}
}

// ServerStart 建立「本機 server 沒有回報 origin」錯誤。
func ServerStart(msg string, cause error) *E {
	return &E{Message: msg, Cause: cause, ErrLv: Fatal, Code: CodeServerStart}
}

// Config 建立設定錯誤。
func Config(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Code: CodeConfig}
}

// NotReady 建立「尚未就緒」錯誤。
func NotReady(msg string) *E {
	return &E{Message: msg, ErrLv: Warn, Code: CodeNotReady}
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel / Code 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Code（保持原本嚴重度與分類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	code := CodeNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		code = e.Code
	}
	r := New(errLv, msg)
	r.Code = code
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// CodeOf 回傳錯誤鏈上第一個 *E 的 Code；找不到時回傳 CodeNone。
func CodeOf(err error) Code {
	if e, ok := AsErr(err); ok {
		return e.Code
	}
	return CodeNone
}
