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

package cf

import (
	"encoding/binary"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/Rubinnz/Recom-huhu/base/encoding"
	"github.com/Rubinnz/Recom-huhu/dataset"
)

// Magic identifies the binary collaborative model format.
const Magic = "recom/cf1"

// Model is a matrix factorization scorer trained offline. Preference for a
// (user, item) pair is the global mean plus both biases plus the dot product
// of the latent factors, clamped to the rating range.
type Model struct {
	GlobalMean float32
	MinRating  float32
	MaxRating  float32

	userIndex       *dataset.Dict
	itemIndex       *dataset.Dict
	userFactor      [][]float32
	itemFactor      [][]float32
	userBias        []float32
	itemBias        []float32
	userPredictable *bitset.BitSet
	itemPredictable *bitset.BitSet
}

func NewModel(globalMean, minRating, maxRating float32) *Model {
	return &Model{
		GlobalMean:      globalMean,
		MinRating:       minRating,
		MaxRating:       maxRating,
		userIndex:       dataset.NewDict(),
		itemIndex:       dataset.NewDict(),
		userPredictable: bitset.New(0),
		itemPredictable: bitset.New(0),
	}
}

// AddUser registers a trained user embedding.
func (m *Model) AddUser(userId string, bias float32, factor []float32) {
	index := m.userIndex.Add(userId)
	m.userBias = append(m.userBias, bias)
	m.userFactor = append(m.userFactor, factor)
	m.userPredictable.Set(uint(index))
}

// AddItem registers a trained item embedding.
func (m *Model) AddItem(itemId string, bias float32, factor []float32) {
	index := m.itemIndex.Add(itemId)
	m.itemBias = append(m.itemBias, bias)
	m.itemFactor = append(m.itemFactor, factor)
	m.itemPredictable.Set(uint(index))
}

// dot is bounded to the shorter vector so factor lengths from a
// hand-supplied artifact cannot panic.
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

// Estimate predicts the rating given by a user to an item. Users and items
// absent from the training data return a NotFound error so callers can skip
// them without treating the miss as a batch failure.
func (m *Model) Estimate(userId, itemId string) (float32, error) {
	userIndex := m.userIndex.Id(userId)
	if userIndex < 0 || !m.userPredictable.Test(uint(userIndex)) {
		return 0, errors.NotFoundf("user %q", userId)
	}
	itemIndex := m.itemIndex.Id(itemId)
	if itemIndex < 0 || !m.itemPredictable.Test(uint(itemIndex)) {
		return 0, errors.NotFoundf("item %q", itemId)
	}
	score := m.GlobalMean + m.userBias[userIndex] + m.itemBias[itemIndex] +
		dot(m.userFactor[userIndex], m.itemFactor[itemIndex])
	if m.MaxRating > m.MinRating {
		score = math32.Min(math32.Max(score, m.MinRating), m.MaxRating)
	}
	return score, nil
}

// Marshal writes the model in the binary format.
func (m *Model) Marshal(w io.Writer) error {
	if err := encoding.WriteString(w, Magic); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, []float32{m.GlobalMean, m.MinRating, m.MaxRating}); err != nil {
		return errors.Trace(err)
	}
	if err := marshalSide(w, m.userIndex, m.userBias, m.userFactor); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(marshalSide(w, m.itemIndex, m.itemBias, m.itemFactor))
}

func marshalSide(w io.Writer, index *dataset.Dict, bias []float32, factor [][]float32) error {
	if err := binary.Write(w, binary.LittleEndian, int64(index.Count())); err != nil {
		return errors.Trace(err)
	}
	for i := int32(0); i < index.Count(); i++ {
		id, _ := index.String(i)
		if err := encoding.WriteString(w, id); err != nil {
			return errors.Trace(err)
		}
		if err := binary.Write(w, binary.LittleEndian, bias[i]); err != nil {
			return errors.Trace(err)
		}
		if err := binary.Write(w, binary.LittleEndian, int64(len(factor[i]))); err != nil {
			return errors.Trace(err)
		}
		if err := binary.Write(w, binary.LittleEndian, factor[i]); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Unmarshal reads a model in the binary format.
func (m *Model) Unmarshal(r io.Reader) error {
	magic, err := encoding.ReadString(r)
	if err != nil {
		return errors.Trace(err)
	}
	if magic != Magic {
		return errors.Errorf("unexpected magic %q", magic)
	}
	header := make([]float32, 3)
	if err := binary.Read(r, binary.LittleEndian, header); err != nil {
		return errors.Trace(err)
	}
	m.GlobalMean, m.MinRating, m.MaxRating = header[0], header[1], header[2]
	m.userIndex = dataset.NewDict()
	m.itemIndex = dataset.NewDict()
	m.userPredictable = bitset.New(0)
	m.itemPredictable = bitset.New(0)
	m.userBias, m.userFactor = nil, nil
	m.itemBias, m.itemFactor = nil, nil
	if err := unmarshalSide(r, m.AddUser); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(unmarshalSide(r, m.AddItem))
}

func unmarshalSide(r io.Reader, add func(string, float32, []float32)) error {
	var count int64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return errors.Trace(err)
	}
	for i := int64(0); i < count; i++ {
		id, err := encoding.ReadString(r)
		if err != nil {
			return errors.Trace(err)
		}
		var bias float32
		if err := binary.Read(r, binary.LittleEndian, &bias); err != nil {
			return errors.Trace(err)
		}
		var length int64
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return errors.Trace(err)
		}
		factor := make([]float32, length)
		if err := binary.Read(r, binary.LittleEndian, factor); err != nil {
			return errors.Trace(err)
		}
		add(id, bias, factor)
	}
	return nil
}
