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

package scratchlab

import (
	"slices"

	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/gen"
	"github.com/zintix-labs/scratchlab/spec"
)

// Machine 封裝一台「可對外提供 Play」的刮刮卡機台。
//
// 對外：提供 Play 入口（CLI/模擬器只操作 Machine）。
// 對內：持有 RNG（Core）、盤面生成器與得分判定器。
//
// 並發語意：
//   - Machine 內含重用的盤面/計數緩衝（熱路徑），且連續亂數抽樣順序相依，
//     因此同一台 Machine 不應被多 goroutine 同時 Play。
//   - 若要併發模擬，由更高層建立多台 Machine 分散到不同 worker。
type Machine struct {
	gs       *spec.GameSetting
	core     *core.Core
	gen      *gen.MatrixGenerator
	det      *calc.Detector
	initSeed int64
}

// PlayResult 一局的完整結果。每局建構一次，之後不再修改。
type PlayResult struct {
	Screen       []int16     // 最終盤面快照（含插入的 bonus）
	Reward       float64     // 最終金額（含 bonus 效果）
	Wins         calc.WinMap // 得分符號 → 套用規則
	AppliedBonus int16       // 套用的 bonus 符號索引，-1 代表無
	Injected     []int16     // 實際落盤的 bonus（插入順序），供統計/稽核
}

func newMachine(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	c := core.New(cf.New(seed))
	return &Machine{
		gs:       gs,
		core:     c,
		gen:      gen.NewMatrixGenerator(c, gs),
		det:      calc.NewDetector(gs),
		initSeed: seed,
	}, nil
}

// Play 跑一局：驗注 → 生成 → 判定 → 算分 → 套用至多一個 bonus。
//
// 單向流程，沒有重試也沒有回圈；一局是 (設定, 押注, 亂數序列) → 結果
// 的一次性純轉換。bet <= 0 回傳押注驗證錯誤，該局不產生任何結果。
func (m *Machine) Play(bet float64) (*PlayResult, error) {
	if bet <= 0 {
		return nil, errs.Betf("betting amount must be positive, got: %v", bet)
	}

	screen, injected := m.gen.Generate()
	wins := m.det.Detect(screen)
	reward := calc.ComputeReward(m.gs, bet, wins)

	// Bonus 只看第一個落盤者，且只在有得分時套用；
	// miss 或零分時結果不帶 applied bonus（即使有插入）。
	applied := int16(-1)
	if reward > 0 && len(injected) > 0 {
		info := m.gs.SymbolInfos[injected[0]]
		if info.Impact != spec.ImpactMiss {
			reward = info.ApplyImpact(reward)
			applied = injected[0]
		}
	}

	// 生成器緩衝會被下一局覆寫，結果一律快照
	return &PlayResult{
		Screen:       slices.Clone(screen),
		Reward:       reward,
		Wins:         wins,
		AppliedBonus: applied,
		Injected:     slices.Clone(injected),
	}, nil
}

// InitSeed 回傳機台出生時的 seed（追溯/重現用）。
func (m *Machine) InitSeed() int64 { return m.initSeed }

// SnapshotCore 取得亂數核心當下的內部狀態。
// 真正的可審計能力以 Core 的 Snapshot/Restore 合約為準。
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 依序列化狀態還原亂數核心。
func (m *Machine) RestoreCore(data []byte) error {
	return m.core.Restore(data)
}

// SnapshotState 取得亂數核心狀態的 base64 文字形式，
// 可直接貼進 CLI 的 -state 參數重播同一局。
func (m *Machine) SnapshotState() (string, error) {
	data, err := m.core.Snapshot()
	if err != nil {
		return "", err
	}
	return corefmt.EncodeBase64(data), nil
}

// RestoreState 還原 SnapshotState 輸出的狀態字串。
func (m *Machine) RestoreState(state string) error {
	data, err := corefmt.DecodeBase64(state)
	if err != nil {
		return err
	}
	return m.core.Restore(data)
}
