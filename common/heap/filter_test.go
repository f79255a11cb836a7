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

package heap

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopKFilter(t *testing.T) {
	filter := NewTopKFilter[string, float32](5)
	perm := rand.Perm(100)
	for _, v := range perm {
		filter.Push(strconv.Itoa(v), float32(v))
	}
	items, weights := filter.PopAll()
	assert.Equal(t, []string{"99", "98", "97", "96", "95"}, items)
	assert.Equal(t, []float32{99, 98, 97, 96, 95}, weights)
}

func TestTopKFilterUnderflow(t *testing.T) {
	filter := NewTopKFilter[int, float64](10)
	filter.Push(1, 1)
	filter.Push(2, 2)
	items, weights := filter.PopAll()
	assert.Equal(t, []int{2, 1}, items)
	assert.Equal(t, []float64{2, 1}, weights)
}
