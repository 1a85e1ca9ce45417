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

// Package core 提供刮刮卡引擎使用的亂數核心。
//
// 一局遊戲（Play）的全部隨機行為都來自同一個 Core：
// 格子符號抽樣、Bonus 插入數量、Bonus 符號與落點座標。
// 因此「同一個 seed + 同一份設定」必定產生同一個盤面與結果，
// 這是可重現測試與回放稽核的基礎。
//
// 併發語意：Core 不是 thread-safe。一個 Core 只屬於一台 Machine，
// 連續抽樣是順序相依的，跨 goroutine 共用會破壞重現性。
package core

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 讓 PRNG 自己提供 bounded 生成（UintN / IntN），
// 各實作可用最合適的 fast path，而不是被迫走「先產生 uint64 再裁切」。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：在同一個實作與同一個版本下，New(seed) 必須是決定性的——
	// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory，以 PCG64 為底。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，是引擎各組件共用的亂數入口。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}
