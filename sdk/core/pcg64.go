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

package core

import (
	r2 "math/rand/v2"
)

// PCG64 包裝標準庫的 PCG 來源；分佈函式交給 rand.Rand，狀態透過 PCG 的 binary 編碼快照。
type PCG64 struct {
	src *r2.PCG
	rng *r2.Rand
}

func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	src := r2.NewPCG(hi, lo)
	return &PCG64{src: src, rng: r2.New(src)}
}

func (r *PCG64) Uint64() uint64 { return r.src.Uint64() }

func (r *PCG64) Float64() float64 { return r.rng.Float64() }

func (r *PCG64) ExpFloat64() float64 { return r.rng.ExpFloat64() }

// IntN 產出[0,n) 的整數，若 n <= 0 回傳 -1
func (r *PCG64) IntN(n int) int {
	if n <= 0 {
		return -1
	}
	return r.rng.IntN(n)
}

func (r *PCG64) Snapshot() ([]byte, error) { return r.src.MarshalBinary() }

func (r *PCG64) Restore(data []byte) error { return r.src.UnmarshalBinary(data) }

// splitmix64 將種子混洗成 64-bit 狀態，避免相鄰 seed 產生相關序列。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
