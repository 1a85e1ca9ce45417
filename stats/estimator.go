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

package stats

import "gonum.org/v1/gonum/stat/distuv"

// hitCI 計算二項比例的 Clopper-Pearson 信賴區間。
//
// k 為命中局數、n 為總局數、confidence 為信賴水準（如 0.95）。
// Beta PPF 映射，邊界另行處理（k==0 下界為 0、k==n 上界為 1）。
func hitCI(k, n int, confidence float64) (ci CI) {
	if n <= 0 {
		return CI{}
	}
	alpha := 1 - confidence

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
