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
	"math"
	"slices"
	"testing"

	"github.com/zintix-labs/scratchlab/spec"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// newTestSetting 建立一份已 Init 的 3x3 設定，規則可由呼叫端指定。
func newTestSetting(t *testing.T, rules map[string]spec.RuleSetting) *spec.GameSetting {
	t.Helper()
	gs := &spec.GameSetting{
		Rows:    3,
		Columns: 3,
		Symbols: map[string]spec.SymbolSetting{
			"A":    {RewardMultiplier: 5, TypeStr: "standard"},
			"B":    {RewardMultiplier: 3, TypeStr: "standard"},
			"10x":  {RewardMultiplier: 10, TypeStr: "bonus", ImpactStr: "multiply_reward"},
			"MISS": {TypeStr: "bonus", ImpactStr: "miss"},
		},
		Probabilities: spec.ProbSetting{
			StandardSymbols: []spec.CellWeights{
				{Symbols: map[string]int{"A": 1, "B": 1}},
			},
			BonusSymbols: &spec.BonusWeights{Symbols: map[string]int{"10x": 1}},
		},
		WinCombinations: rules,
	}
	if err := gs.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return gs
}

func defaultRules() map[string]spec.RuleSetting {
	return map[string]spec.RuleSetting{
		"count3": {RewardMultiplier: 1, WhenStr: "same_symbols", Count: 3, Group: "same_symbols"},
		"count5": {RewardMultiplier: 2, WhenStr: "same_symbols", Count: 5, Group: "same_symbols"},
		"horizontal": {RewardMultiplier: 2, WhenStr: "linear_symbols", Group: "horizontal", CoveredAreas: [][]string{
			{"0:0", "0:1", "0:2"},
			{"1:0", "1:1", "1:2"},
			{"2:0", "2:1", "2:2"},
		}},
		"diagonal": {RewardMultiplier: 5, WhenStr: "linear_symbols", Group: "diagonal", CoveredAreas: [][]string{
			{"0:0", "1:1", "2:2"},
		}},
	}
}

func symID(t *testing.T, gs *spec.GameSetting, name string) int16 {
	t.Helper()
	id, ok := gs.SymbolID(name)
	if !ok {
		t.Fatalf("symbol %q not found", name)
	}
	return id
}

func ruleID(t *testing.T, gs *spec.GameSetting, name string) int16 {
	t.Helper()
	id, ok := gs.RuleID(name)
	if !ok {
		t.Fatalf("rule %q not found", name)
	}
	return id
}

// buildScreen 依名稱展開 3x3 盤面
func buildScreen(t *testing.T, gs *spec.GameSetting, names [9]string) []int16 {
	t.Helper()
	screen := make([]int16, 9)
	for i, n := range names {
		screen[i] = symID(t, gs, n)
	}
	return screen
}

func assertRules(t *testing.T, gs *spec.GameSetting, got []int16, want ...string) {
	t.Helper()
	ids := make([]int16, len(want))
	for i, n := range want {
		ids[i] = ruleID(t, gs, n)
	}
	if !slices.Equal(got, ids) {
		t.Fatalf("rules mismatch: got %v, want %v (%v)", got, ids, want)
	}
}

// -----------------------------------------------------------------------------
// Tests for Detector
// -----------------------------------------------------------------------------

// TestDetect_CountThreshold 驗證顆數門檻規則
// 檢查項目: 顆數 >= count 才成立，低門檻與高門檻互斥時只留賠率高者
func TestDetect_CountThreshold(t *testing.T) {
	gs := newTestSetting(t, defaultRules())
	d := NewDetector(gs)

	// 4 顆 A：只過 count3
	screen := buildScreen(t, gs, [9]string{
		"A", "B", "A",
		"B", "A", "B",
		"A", "B", "B"})
	wins := d.Detect(screen)
	a := symID(t, gs, "A")
	assertRules(t, gs, wins[a], "count3")

	// B 有 5 顆：count3 先成立，count5 賠率較高同群組替換
	b := symID(t, gs, "B")
	assertRules(t, gs, wins[b], "count5")
}

// TestDetect_NoWin 驗證無規則成立時的輸出
// 檢查項目: WinMap 為空，不含空列表
func TestDetect_NoWin(t *testing.T) {
	rules := map[string]spec.RuleSetting{
		"count9": {RewardMultiplier: 10, WhenStr: "same_symbols", Count: 9, Group: "same_symbols"},
	}
	gs := newTestSetting(t, rules)
	d := NewDetector(gs)

	screen := buildScreen(t, gs, [9]string{
		"A", "B", "A",
		"B", "A", "B",
		"A", "B", "A"})
	wins := d.Detect(screen)
	if len(wins) != 0 {
		t.Fatalf("expected empty win map, got %v", wins)
	}
}

// TestDetect_LinearRule 驗證連線規則
// 檢查項目: 區域內全同符號才成立，bonus 起頭的區域直接跳過
func TestDetect_LinearRule(t *testing.T) {
	gs := newTestSetting(t, defaultRules())
	d := NewDetector(gs)

	// row0 全 A（同時湊滿 5 顆 A 的對角線）
	screen := buildScreen(t, gs, [9]string{
		"A", "A", "A",
		"B", "A", "B",
		"B", "B", "A"})
	wins := d.Detect(screen)
	a := symID(t, gs, "A")
	// same 階段: count3 -> count5（替換），linear 階段: diagonal -> horizontal
	assertRules(t, gs, wins[a], "count5", "diagonal", "horizontal")

	// 起點被 bonus 蓋掉：diagonal 與 row0 的 horizontal 都不成立
	screen[0] = symID(t, gs, "10x")
	wins = d.Detect(screen)
	assertRules(t, gs, wins[a], "count3")
}

// TestDetect_BonusNotCounted 驗證 bonus 不參與顆數計算
// 檢查項目: bonus 蓋掉的格子使顆數下降
func TestDetect_BonusNotCounted(t *testing.T) {
	rules := map[string]spec.RuleSetting{
		"count9": {RewardMultiplier: 10, WhenStr: "same_symbols", Count: 9, Group: "same_symbols"},
	}
	gs := newTestSetting(t, rules)
	d := NewDetector(gs)

	screen := buildScreen(t, gs, [9]string{
		"A", "A", "A",
		"A", "A", "A",
		"A", "A", "A"})
	if wins := d.Detect(screen); len(wins) != 1 {
		t.Fatalf("expected count9 to apply, got %v", wins)
	}

	screen[4] = symID(t, gs, "MISS")
	if wins := d.Detect(screen); len(wins) != 0 {
		t.Fatalf("expected no win after bonus overwrite, got %v", wins)
	}
}

// TestDetect_GroupTieKeepsFirst 驗證同群組平手時保留先偵測者
// 檢查項目: 賠率相同的兩條同群組規則，留 arena 順序較前者
func TestDetect_GroupTieKeepsFirst(t *testing.T) {
	rules := map[string]spec.RuleSetting{
		"a_first":  {RewardMultiplier: 2, WhenStr: "same_symbols", Count: 3, Group: "same_symbols"},
		"b_second": {RewardMultiplier: 2, WhenStr: "same_symbols", Count: 3, Group: "same_symbols"},
	}
	gs := newTestSetting(t, rules)
	d := NewDetector(gs)

	screen := buildScreen(t, gs, [9]string{
		"A", "A", "A",
		"B", "B", "B",
		"B", "B", "B"})
	wins := d.Detect(screen)
	assertRules(t, gs, wins[symID(t, gs, "A")], "a_first")
	assertRules(t, gs, wins[symID(t, gs, "B")], "a_first")
}

// TestDetect_SamePhaseWinsCrossKindTie 驗證跨種類的同群組平手
// 檢查項目: same_symbols 階段先於 linear_symbols 階段執行，
// 即使 linear 規則名稱排序在前，平手時仍保留 same_symbols 規則
func TestDetect_SamePhaseWinsCrossKindTie(t *testing.T) {
	rules := map[string]spec.RuleSetting{
		"a_line": {RewardMultiplier: 2, WhenStr: "linear_symbols", Group: "shared", CoveredAreas: [][]string{
			{"0:0", "0:1", "0:2"},
		}},
		"b_count": {RewardMultiplier: 2, WhenStr: "same_symbols", Count: 3, Group: "shared"},
	}
	gs := newTestSetting(t, rules)
	d := NewDetector(gs)

	// row0 全 A：兩條規則同時成立且賠率相同
	screen := buildScreen(t, gs, [9]string{
		"A", "A", "A",
		"B", "B", "A",
		"B", "A", "B"})
	wins := d.Detect(screen)
	assertRules(t, gs, wins[symID(t, gs, "A")], "b_count")
}

// TestDetect_ReplaceAppendsWinner 驗證替換時的列表順序
// 檢查項目: 同群組替換會移除敗者並把勝者附加到尾端，
// 不是原位覆寫（其他群組的規則順序前移）
func TestDetect_ReplaceAppendsWinner(t *testing.T) {
	rules := map[string]spec.RuleSetting{
		"a_low":   {RewardMultiplier: 1, WhenStr: "same_symbols", Count: 3, Group: "tier"},
		"b_other": {RewardMultiplier: 2, WhenStr: "same_symbols", Count: 3, Group: "shape"},
		"c_high":  {RewardMultiplier: 5, WhenStr: "same_symbols", Count: 4, Group: "tier"},
	}
	gs := newTestSetting(t, rules)
	d := NewDetector(gs)

	// 5 顆 A：a_low -> b_other -> c_high 依序成立，c_high 替換 a_low
	screen := buildScreen(t, gs, [9]string{
		"A", "A", "A",
		"A", "A", "B",
		"B", "B", "B"})
	wins := d.Detect(screen)
	assertRules(t, gs, wins[symID(t, gs, "A")], "b_other", "c_high")
}

// TestDetect_DifferentGroupsStack 驗證不同群組規則可並存
// 檢查項目: 各群組獨立收斂，互不替換
func TestDetect_DifferentGroupsStack(t *testing.T) {
	gs := newTestSetting(t, defaultRules())
	d := NewDetector(gs)

	screen := buildScreen(t, gs, [9]string{
		"A", "B", "B",
		"B", "A", "B",
		"B", "B", "A"})
	wins := d.Detect(screen)
	a := symID(t, gs, "A")
	b := symID(t, gs, "B")
	assertRules(t, gs, wins[a], "count3", "diagonal")
	assertRules(t, gs, wins[b], "count5")
}

// -----------------------------------------------------------------------------
// Tests for ComputeReward
// -----------------------------------------------------------------------------

// TestComputeReward_Composition 驗證獎金合成
// 檢查項目: 每符號 bet * 符號賠率 * Π(規則賠率)，跨符號相加
func TestComputeReward_Composition(t *testing.T) {
	gs := newTestSetting(t, defaultRules())
	a := symID(t, gs, "A")
	b := symID(t, gs, "B")

	wins := WinMap{
		a: {ruleID(t, gs, "count3"), ruleID(t, gs, "horizontal")}, // 1 * 2
		b: {ruleID(t, gs, "count5")},                              // 2
	}
	got := ComputeReward(gs, 100, wins)
	// A: 100*5*1*2 = 1000, B: 100*3*2 = 600
	want := 1600.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("reward expected %v, got %v", want, got)
	}
}

// TestComputeReward_Empty 驗證空 WinMap
// 檢查項目: 回傳 0
func TestComputeReward_Empty(t *testing.T) {
	gs := newTestSetting(t, defaultRules())
	if got := ComputeReward(gs, 100, WinMap{}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
