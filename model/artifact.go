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

package model

import (
	"encoding/gob"

	"github.com/Rubinnz/Recom-huhu/model/cb"
)

// Artifact wraps a deserialized model payload of unknown concrete shape:
// a mapping, an ordered sequence, an attribute-bearing record, or one of the
// native model types.
type Artifact struct {
	Payload any
}

// Record is the placeholder for foreign object-shaped payloads. Its exported
// fields cover the attribute names known producers use, so the gob decoder
// fills whatever matches and leaves the rest nil. It carries data only,
// never behavior.
type Record struct {
	TfidfMatrix *cb.Matrix
	Matrix      *cb.Matrix
	X           *cb.Matrix
	Features    *cb.Matrix
	Embeddings  *cb.Matrix
	Cosine      [][]float32
	Sims        [][]float32
	TitleToIdx  map[string]int
	Indices     map[string]int
	NameToIdx   map[string]int
	NN          *cb.Neighbors
	KNN         *cb.Neighbors
	Neighbors   *cb.Neighbors
	Vectorizer  *cb.Vectorizer
	Tfidf       *cb.Vectorizer
}

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(&cb.Matrix{})
	gob.Register(&cb.Vectorizer{})
	gob.Register(&cb.Neighbors{})
	gob.Register(&cb.Model{})
	gob.Register([][]float32{})
	gob.Register(map[string]int{})
	// Artifacts written by the original training entry point reference its
	// own type name. Registering the placeholder under that name lets such
	// artifacts decode for attribute probing.
	gob.RegisterName("main.ContentBasedRecommender", Record{})
}
