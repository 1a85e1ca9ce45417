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

// Kind : Error 分類，對應遊戲流程中三種會中止流程的錯誤來源。
// CLI 層依 Kind 決定回報方式，不需要比對訊息字串。
type Kind uint8

const (
	KindNone   Kind = iota
	KindConfig      // 設定檔缺漏、空集合、座標越界等，於驗證期偵測
	KindBet         // 押注金額 <= 0，於 Play 開頭偵測
	KindIO          // 檔案讀取 / JSON / YAML 解析失敗，由外層回報
)

// E 是統一的錯誤型別。
// Message 為經過樣板格式化後的主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重程度，Kind 表示錯誤來源分類。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := e.Message
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

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// NewConfig 建立設定檔驗證錯誤（Fatal 級）。
func NewConfig(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal, Kind: KindConfig}
}

func Configf(format string, a ...any) *E {
	return NewConfig(fmt.Sprintf(format, a...))
}

// NewBet 建立押注驗證錯誤（Fatal 級，僅作用於該次 Play）。
func NewBet(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal, Kind: KindBet}
}

func Betf(format string, a ...any) *E {
	return NewBet(fmt.Sprintf(format, a...))
}

// NewIO 建立 I/O 或解析錯誤（Fatal 級，由 CLI 外層產生）。
func NewIO(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal, Kind: KindIO}
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Kind（保持原本嚴重度與分類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	kind := KindNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		kind = e.Kind
	}
	r := New(errLv, msg)
	r.Kind = kind
	r.Cause = cause
	return r
}

// WrapIO 與 Wrap 相同，但強制標記為 I/O 分類，供 CLI 讀檔/解碼路徑使用。
func WrapIO(cause error, msg string) *E {
	r := Wrap(cause, msg)
	r.Kind = KindIO
	return r
}

// IsKind 回傳 err 鏈上是否帶有指定分類。
func IsKind(err error, k Kind) bool {
	var e *E
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}
