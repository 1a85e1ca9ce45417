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

package sampler

import (
	"crypto/rand"
	"math"
	"math/big"
	"testing"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	if totalW == 0 {
		return
	}

	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}

	totalSamples := len(samples)
	for i, w := range weights {
		expectedProb := float64(w) / float64(totalW)
		actualProb := float64(counts[i]) / float64(totalSamples)
		diff := math.Abs(expectedProb - actualProb)

		if diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expectedProb, actualProb, diff, tolerance)
		}
	}
}

// -----------------------------------------------------------------------------
// Tests for BuildCDF
// -----------------------------------------------------------------------------

// TestBuildCDF_Basic 驗證建表結果
// 檢查項目: Total 為權重和，Len 為項目數
func TestBuildCDF_Basic(t *testing.T) {
	cdf, err := BuildCDF([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cdf.Total() != 6 {
		t.Errorf("Total expected 6, got %d", cdf.Total())
	}
	if cdf.Len() != 3 {
		t.Errorf("Len expected 3, got %d", cdf.Len())
	}
}

// TestBuildCDF_EmptyWeights 驗證空權重列表報錯
// 檢查項目: 回傳設定類錯誤
func TestBuildCDF_EmptyWeights(t *testing.T) {
	_, err := BuildCDF([]int{})
	if err == nil {
		t.Fatal("expected error for empty weights")
	}
	if !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("expected config kind, got %v", err)
	}
}

// TestBuildCDF_NonPositiveWeight 驗證非正權重報錯
// 檢查項目: 0 與負數權重均應回傳設定類錯誤
func TestBuildCDF_NonPositiveWeight(t *testing.T) {
	if _, err := BuildCDF([]int{1, 0, 2}); err == nil {
		t.Error("expected error for zero weight")
	}
	if _, err := BuildCDF([]int{1, -3}); err == nil {
		t.Error("expected error for negative weight")
	}
}

// -----------------------------------------------------------------------------
// Tests for CDF.Pick
// -----------------------------------------------------------------------------

// TestCDFPick_SingleItem 驗證單項目表
// 檢查項目: 永遠抽中索引 0
func TestCDFPick_SingleItem(t *testing.T) {
	cdf, err := BuildCDF([]int{7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := core.New(core.Default().New(1))
	for i := 0; i < 1000; i++ {
		if got := cdf.Pick(c); got != 0 {
			t.Fatalf("expected 0, got %d", got)
		}
	}
}

// TestCDFPick_Distribution 驗證抽樣分佈
// 檢查項目: 抽樣頻率應接近權重比例
func TestCDFPick_Distribution(t *testing.T) {
	weights := []int{1, 2, 3, 4}
	cdf, err := BuildCDF(weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rd, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	c := core.New(core.Default().New(rd.Int64()))

	trials := 100000
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		samples[i] = cdf.Pick(c)
	}
	checkDistribution(t, "CDF.Pick", weights, samples, 0.01)
}

// TestCDFPick_Deterministic 驗證抽樣可重現
// 檢查項目: 同 seed 的兩個 Core 抽樣序列完全一致
func TestCDFPick_Deterministic(t *testing.T) {
	cdf, err := BuildCDF([]int{5, 10, 1, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := core.New(core.Default().New(31))
	b := core.New(core.Default().New(31))
	for i := 0; i < 1000; i++ {
		if av, bv := cdf.Pick(a), cdf.Pick(b); av != bv {
			t.Fatalf("pick diverged at %d: %d != %d", i, av, bv)
		}
	}
}

// TestCDFPick_Range 驗證抽樣結果範圍
// 檢查項目: 結果永遠落在 [0, Len)
func TestCDFPick_Range(t *testing.T) {
	cdf, err := BuildCDF([]int{3, 1, 4, 1, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := core.New(core.Default().New(8))
	for i := 0; i < 10000; i++ {
		got := cdf.Pick(c)
		if got < 0 || got >= cdf.Len() {
			t.Fatalf("pick out of range: %d", got)
		}
	}
}
