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

// Package scratchlab 提供刮刮卡引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Lab 把兩個必需的地基組裝在一起，並提供建立 Machine 的入口：
//  1. GameSetting：一份驗證完成的遊戲設定（盤面尺寸、符號目錄、機率表、規則目錄）。
//  2. PRNGFactory：亂數核心工廠，保證可重現（reproducible）與可審計（auditable）。
//
// 典型使用情境：
//   - CLI：由 Lab 建立 Machine，Machine 對外提供 Play（一局一結果）。
//   - 模擬器（sim）：由 Lab 建立 Simulator 進行大量獨立局數的統計。
//
// 設計重點：
//   - Lab 不綁定任何「檔案路徑」概念：設定一律由呼叫端解析完傳入（spec 套件負責解碼）。
//   - seed 的生命週期由 Lab 統一管理：外部未提供時以 crypto/rand 產生，
//     後續 Simulator 的多機台 seed 皆由 baseSeed 以固定算法派生。
package scratchlab

import (
	"crypto/rand"
	"math"
	"math/big"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
)

// Lab 是組裝器：持有驗證完成的設定與亂數工廠。
// 組裝完成後即唯讀，可安全被多個 Machine / Simulator 共用。
type Lab struct {
	gs *spec.GameSetting
	cf core.PRNGFactory
}

// New 建立一個 Lab instance。
//
// 參數要求（是合約的一部分）：
//   - cf 不能為 nil：沒有 RNG 工廠就無法建立可重現/可審計的核心。
//   - gs 不能為 nil，且必須通過 Init（設定驗證失敗直接回傳錯誤，
//     Play 期不會再遇到設定問題）。
func New(cf core.PRNGFactory, gs *spec.GameSetting) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if gs == nil {
		return nil, errs.NewConfig("game setting required")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return &Lab{gs: gs, cf: cf}, nil
}

// Setting 回傳 Lab 持有的設定（唯讀共用）。
func (l *Lab) Setting() *spec.GameSetting { return l.gs }

// NewMachine 建立一台 Machine，seed 由 crypto/rand 產生。
func (l *Lab) NewMachine() (*Machine, error) {
	seed, err := randSeed()
	if err != nil {
		return nil, err
	}
	return l.NewMachineWithSeed(seed)
}

// NewMachineWithSeed 與 NewMachine 相同，但由呼叫端指定初始 seed。
//
// 使用情境：
//   - 可重現的測試：同一份設定 + 同一個 seed，必定產生一致的盤面序列。
func (l *Lab) NewMachineWithSeed(seed int64) (*Machine, error) {
	return newMachine(l.gs, l.cf, seed)
}

// NewSimulator 建立模擬器，baseSeed 由 crypto/rand 產生。
func (l *Lab) NewSimulator() (*Simulator, error) {
	seed, err := randSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(seed)
}

// NewSimulatorWithSeed 建立模擬器並指定 baseSeed；
// 多 worker 模式下每台機台的 seed 都由 baseSeed 決定性派生。
func (l *Lab) NewSimulatorWithSeed(seed int64) (*Simulator, error) {
	return newSimulator(l.gs, l.cf, seed)
}

func randSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "generate seed failed")
	}
	return seed.Int64(), nil
}
