// Copyright 2026 Recom-huhu Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cb

import (
	"github.com/chewxy/math32"
)

// Matrix is a row-major feature matrix. Rows are documents, columns are
// vocabulary terms.
type Matrix struct {
	Values [][]float32
}

func NewMatrix(values [][]float32) *Matrix {
	return &Matrix{Values: values}
}

func (m *Matrix) NumRows() int {
	if m == nil {
		return 0
	}
	return len(m.Values)
}

func (m *Matrix) Row(i int) []float32 {
	return m.Values[i]
}

// Neighbors is a precomputed nearest-neighbor structure some artifacts carry
// instead of a full similarity matrix.
type Neighbors struct {
	Indices   [][]int32
	Distances [][]float32
}

// dot is bounded to the shorter vector so ragged rows from foreign
// artifacts degrade instead of panicking.
func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(a []float32) float32 {
	var sum float32
	for _, v := range a {
		sum += v * v
	}
	return math32.Sqrt(sum)
}

// CosineScores computes the cosine similarity between one row and every row
// of the matrix. Rows with zero norm score 0.
func CosineScores(m *Matrix, row int) []float32 {
	seed := m.Row(row)
	seedNorm := norm(seed)
	scores := make([]float32, m.NumRows())
	if seedNorm == 0 {
		return scores
	}
	for i := range m.Values {
		rowNorm := norm(m.Values[i])
		if rowNorm == 0 {
			continue
		}
		scores[i] = dot(seed, m.Values[i]) / (seedNorm * rowNorm)
	}
	return scores
}
