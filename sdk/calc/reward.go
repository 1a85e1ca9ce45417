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

package calc

import "github.com/zintix-labs/scratchlab/spec"

// ComputeReward 將 WinMap 換算成金額。
//
// 組合規則：符號內「乘法」、符號間「加法」——
// symbolReward = bet × 符號賠率 × Π(規則賠率)，總獎金為各符號之和。
// 純函數：不修改輸入，同輸入必同輸出。空 WinMap 回傳 0。
func ComputeReward(gs *spec.GameSetting, bet float64, wins WinMap) float64 {
	total := 0.0
	for sym, ruleIDs := range wins {
		r := bet * gs.SymbolInfos[sym].Mult
		for _, rid := range ruleIDs {
			r *= gs.RuleInfos[rid].Mult
		}
		total += r
	}
	return total
}
