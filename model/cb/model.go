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
	"encoding/binary"
	"io"

	"github.com/juju/errors"

	"github.com/Rubinnz/Recom-huhu/base/encoding"
)

// Magic identifies the binary content model format.
const Magic = "recom/cb1"

const (
	flagVectorizer = 1 << iota
	flagMatrix
	flagSimilarity
	flagTitleIndex
)

// Model is a fitted content model: a vectorizer plus either a feature matrix
// or a precomputed similarity matrix, with an optional title index.
type Model struct {
	Vectorizer *Vectorizer
	Matrix     *Matrix
	Similarity [][]float32
	TitleIndex map[string]int
}

// Marshal writes the model in the binary format.
func (m *Model) Marshal(w io.Writer) error {
	if err := encoding.WriteString(w, Magic); err != nil {
		return errors.Trace(err)
	}
	var flags uint8
	if m.Vectorizer != nil {
		flags |= flagVectorizer
	}
	if m.Matrix != nil {
		flags |= flagMatrix
	}
	if m.Similarity != nil {
		flags |= flagSimilarity
	}
	if m.TitleIndex != nil {
		flags |= flagTitleIndex
	}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return errors.Trace(err)
	}
	if m.Vectorizer != nil {
		if err := encoding.WriteGob(w, m.Vectorizer); err != nil {
			return errors.Trace(err)
		}
	}
	if m.Matrix != nil {
		if err := encoding.WriteMatrix(w, m.Matrix.Values); err != nil {
			return errors.Trace(err)
		}
	}
	if m.Similarity != nil {
		if err := encoding.WriteMatrix(w, m.Similarity); err != nil {
			return errors.Trace(err)
		}
	}
	if m.TitleIndex != nil {
		if err := encoding.WriteGob(w, m.TitleIndex); err != nil {
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
	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return errors.Trace(err)
	}
	if flags&flagVectorizer != 0 {
		m.Vectorizer = new(Vectorizer)
		if err := encoding.ReadGob(r, m.Vectorizer); err != nil {
			return errors.Trace(err)
		}
	}
	if flags&flagMatrix != 0 {
		values, err := encoding.ReadMatrix(r)
		if err != nil {
			return errors.Trace(err)
		}
		m.Matrix = NewMatrix(values)
	}
	if flags&flagSimilarity != 0 {
		if m.Similarity, err = encoding.ReadMatrix(r); err != nil {
			return errors.Trace(err)
		}
	}
	if flags&flagTitleIndex != 0 {
		if err := encoding.ReadGob(r, &m.TitleIndex); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
