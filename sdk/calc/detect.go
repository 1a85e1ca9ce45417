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

import (
	"slices"

	"github.com/zintix-labs/scratchlab/spec"
)

// WinMap 得分結果：得分符號索引 → 套用的規則索引列表（偵測順序）。
//
// 不變量：
//   - 沒有任何規則成立的符號不會出現在 map 中（不會有空列表）。
//   - 同一個互斥群組對同一符號最多出現一條規則，
//     衝突時保留賠率較高者，平手保留先偵測到者。
type WinMap map[int16][]int16

// Detector 掃描盤面並產出 WinMap。
// 符號計數緩衝會重用，同一個 Detector 不可併發使用。
type Detector struct {
	gs     *spec.GameSetting
	counts []int
}

func NewDetector(gs *spec.GameSetting) *Detector {
	return &Detector{
		gs:     gs,
		counts: make([]int, len(gs.SymbolInfos)),
	}
}

// Detect 依序執行：符號計數 → 全部 same_symbols 規則 → 全部 linear_symbols 規則。
// 兩階段各自依規則 arena 順序掃描，候選逐條經過群組互斥收斂（applyCandidate）。
// 階段順序影響平手判定：同群組平手時 same_symbols 規則先到先贏。
func (d *Detector) Detect(screen []int16) WinMap {
	wins := make(WinMap)
	d.tally(screen)
	d.applySameRules(wins)
	d.applyLinearRules(screen, wins)
	return wins
}

// applySameRules 掃描 same_symbols 規則：顆數 >= 門檻即成立。
func (d *Detector) applySameRules(wins WinMap) {
	rules := d.gs.RuleInfos
	for rid := range rules {
		rule := &rules[rid]
		if rule.Kind != spec.RuleSameSymbols {
			continue
		}
		for sym, cnt := range d.counts {
			if cnt >= rule.Count {
				wins[int16(sym)] = applyCandidate(rules, wins[int16(sym)], int16(rid))
			}
		}
	}
}

// applyLinearRules 掃描 linear_symbols 規則：區域內全同 standard 符號才成立。
func (d *Detector) applyLinearRules(screen []int16, wins WinMap) {
	rules := d.gs.RuleInfos
	for rid := range rules {
		rule := &rules[rid]
		if rule.Kind != spec.RuleLinearSymbols {
			continue
		}
		for _, area := range rule.Areas {
			first := screen[area[0]]
			if !d.gs.IsStandard(first) {
				continue
			}
			match := true
			for _, cell := range area[1:] {
				if screen[cell] != first {
					match = false
					break
				}
			}
			if match {
				wins[first] = applyCandidate(rules, wins[first], int16(rid))
			}
		}
	}
}

// tally 計算盤面中每個 standard 符號的顆數；bonus 與未知符號不入列。
// 計數對象是「插入 bonus 之後」的最終盤面。
func (d *Detector) tally(screen []int16) {
	clear(d.counts)
	for _, sym := range screen {
		if d.gs.IsStandard(sym) {
			d.counts[sym]++
		}
	}
}

// applyCandidate 把候選規則收斂進符號的規則列表並回傳新列表（pure fold）。
//
// 列表中已存在同群組規則時採 replace-if-better：
// 候選賠率「嚴格大於」既有者才替換，平手保留既有者。
// 替換時移除敗者、把勝者附加到列表尾端；走 clone，不修改舊列表。
func applyCandidate(rules []spec.RuleInfo, cur []int16, rid int16) []int16 {
	g := rules[rid].Group
	for i, existing := range cur {
		if rules[existing].Group != g {
			continue
		}
		if rules[rid].Mult > rules[existing].Mult {
			next := slices.Clone(cur)
			return append(slices.Delete(next, i, i+1), rid)
		}
		return cur
	}
	return append(cur, rid)
}
