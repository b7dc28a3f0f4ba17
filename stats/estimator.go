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

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PointStat 點估計與 95% 信賴區間。
type PointStat struct {
	Hat float64 `json:"hat" yaml:"hat"`
	CI  CI      `json:"ci"  yaml:"ci"`
}

// Proportion 回傳 k/n 的點估計與 Clopper–Pearson 區間。
func Proportion(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, 0.95)
	return PointStat{Hat: hat, CI: ci}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)
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

// histQuantile 以次數分布 hist[v]=count 計算第 q 分位(經驗分布)。
func histQuantile(hist []int, q float64) float64 {
	xs, ws := histXW(hist)
	if len(xs) == 0 {
		return 0
	}
	return stat.Quantile(q, stat.Empirical, xs, ws)
}

// histMean 回傳次數分布的平均與標準差。
func histMean(hist []int) (float64, float64) {
	xs, ws := histXW(hist)
	if len(xs) == 0 {
		return 0, 0
	}
	if floats.Sum(ws) <= 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, ws)
}

// histXW 把次數分布轉成已排序的樣本值與權重，略過 0 次的值。
func histXW(hist []int) ([]float64, []float64) {
	var xs, ws []float64
	for v, c := range hist {
		if c > 0 {
			xs = append(xs, float64(v))
			ws = append(ws, float64(c))
		}
	}
	return xs, ws
}
