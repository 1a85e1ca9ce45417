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

package gen

import (
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
)

// MatrixGenerator 保存生成盤面所需的所有狀態。
// 會快取列數、行數、每格抽樣表與輸出緩衝，以避免重複配置與計算。
//
// 抽樣順序是合約的一部分（可重現性）：
//  1. 依格子索引序（row-major）為每格抽一個 standard 符號。
//  2. 抽插入數量 1 + IntN(rows)。
//  3. 每次插入嘗試依序抽：bonus 符號、落點 row、落點 column；
//     落點已被佔用時重抽座標，上限 rows*cols 次。
type MatrixGenerator struct {
	core *core.Core
	gs   *spec.GameSetting

	Rows  int
	Cols  int
	cells []*spec.WeightTable
	bonus *spec.WeightTable

	// 重用緩衝（避免每局重新配置；Machine 不可併發共用）
	screen   []int16
	used     []bool
	injected []int16
}

// NewMatrixGenerator 根據已 Init 的設定與亂數核心建立生成器，
// 讓之後的生成流程可以免配置快速執行。
func NewMatrixGenerator(c *core.Core, gs *spec.GameSetting) *MatrixGenerator {
	size := gs.Rows * gs.Columns
	return &MatrixGenerator{
		core:     c,
		gs:       gs,
		Rows:     gs.Rows,
		Cols:     gs.Columns,
		cells:    gs.CellTables,
		bonus:    gs.BonusTable,
		screen:   make([]int16, size),
		used:     make([]bool, size),
		injected: make([]int16, 0, gs.Rows),
	}
}

// Generate 生成一局盤面並插入 bonus 符號。
//
// 回傳的 screen 與 injected 是生成器的重用緩衝，下一次 Generate 會覆寫；
// 呼叫端若要保留請自行 copy。injected 為實際落盤的 bonus 符號（插入順序）。
func (g *MatrixGenerator) Generate() (screen []int16, injected []int16) {
	s := g.screen
	for i := range s {
		t := g.cells[i]
		s[i] = t.Syms[t.CDF.Pick(g.core)]
	}
	return s, g.applyBonus(s)
}

// applyBonus 插入 0..N 個 bonus 符號（miss 與未知符號抽到即跳過，
// 仍消耗該次嘗試）。落點以均勻座標重抽選取，絕不覆蓋另一個 bonus。
func (g *MatrixGenerator) applyBonus(s []int16) []int16 {
	g.injected = g.injected[:0]
	if g.bonus == nil {
		return g.injected
	}

	maxCells := g.Rows * g.Cols
	clear(g.used)

	// 插入數量：[1, rows] 的啟發式；rows == 0 時 IntN 回 -1，數量歸零
	toInsert := 1 + g.core.IntN(g.Rows)
	placed := 0
	for i := 0; i < toInsert && placed < maxCells; i++ {
		sym := g.bonus.Syms[g.bonus.CDF.Pick(g.core)]
		if sym < 0 {
			continue // 設定檔引用了目錄外的名稱
		}
		info := g.gs.SymbolInfos[sym]
		if info.Type != spec.SymbolTypeBonus || info.Impact == spec.ImpactMiss {
			continue
		}
		for attempts := 0; attempts < maxCells; attempts++ {
			r := g.core.IntN(g.Rows)
			c := g.core.IntN(g.Cols)
			cell := r*g.Cols + c
			if g.used[cell] {
				continue
			}
			g.used[cell] = true
			s[cell] = sym
			g.injected = append(g.injected, sym)
			placed++
			break
		}
	}
	return g.injected
}
