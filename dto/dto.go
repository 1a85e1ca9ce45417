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

// Package dto 定義對外輸出的序列化結構。
//
// 引擎內部以 int16 索引運作；DTO 負責把索引還原成設定檔中的
// 符號/規則名稱，並固定 JSON 頂層欄位（CLI 的 wire 合約）。
package dto

import (
	"fmt"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/calc"
	"github.com/zintix-labs/scratchlab/spec"
)

// RoundResult 一局遊戲的對外結果。
//
// 頂層欄位是對外合約：
//   - matrix: 符號名稱的二維陣列（row-major）
//   - reward: 最終金額
//   - applied_winning_combinations: 得分符號 → 套用規則名稱列表
//   - applied_bonus_symbol: 套用的 bonus 符號名稱，無則為 null
type RoundResult struct {
	Matrix       [][]string          `json:"matrix"`
	Reward       float64             `json:"reward"`
	Applied      map[string][]string `json:"applied_winning_combinations"`
	AppliedBonus *string             `json:"applied_bonus_symbol"`
}

// NewRoundResult 由引擎內部表示組出 RoundResult。
// screen 長度必須等於 rows*cols；appliedBonus < 0 代表沒有套用 bonus。
func NewRoundResult(gs *spec.GameSetting, screen []int16, reward float64, wins calc.WinMap, appliedBonus int16) (RoundResult, error) {
	if len(screen) != gs.Rows*gs.Columns {
		return RoundResult{}, errs.NewWithExtra(errs.Warn, "screen size mismatch",
			fmt.Sprintf("got %d, want %d", len(screen), gs.Rows*gs.Columns))
	}

	matrix := make([][]string, gs.Rows)
	for r := 0; r < gs.Rows; r++ {
		row := make([]string, gs.Columns)
		for c := 0; c < gs.Columns; c++ {
			row[c] = gs.SymbolInfos[screen[r*gs.Columns+c]].Name
		}
		matrix[r] = row
	}

	// 沒中獎時輸出 {} 而不是 null
	applied := make(map[string][]string, len(wins))
	for sym, ruleIDs := range wins {
		names := make([]string, len(ruleIDs))
		for i, rid := range ruleIDs {
			names[i] = gs.RuleInfos[rid].Name
		}
		applied[gs.SymbolInfos[sym].Name] = names
	}

	out := RoundResult{
		Matrix:  matrix,
		Reward:  reward,
		Applied: applied,
	}
	if appliedBonus >= 0 {
		name := gs.SymbolInfos[appliedBonus].Name
		out.AppliedBonus = &name
	}
	return out, nil
}
