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
	"github.com/Rubinnz/Recom-huhu/model/cb"
)

// Structure is the normalized view of a content model. Every field is
// optional; extraction is best effort.
type Structure struct {
	Matrix     *cb.Matrix
	Similarity [][]float32
	TitleIndex map[string]int
	Neighbors  *cb.Neighbors
	Vectorizer *cb.Vectorizer
}

// Usable reports whether the structure carries enough state for similarity
// scoring without a fresh fit.
func (s Structure) Usable() bool {
	return s.Matrix != nil && s.Vectorizer != nil
}

// Infer extracts the similarity-scoring fields from an artifact of unknown
// shape. A nil artifact yields an empty structure; Infer never fails.
func Infer(artifact *Artifact) Structure {
	if artifact == nil || artifact.Payload == nil {
		return Structure{}
	}
	switch payload := artifact.Payload.(type) {
	case map[string]any:
		return inferMapping(payload)
	case []any:
		return inferSequence(payload)
	case Record:
		return inferRecord(payload)
	case *Record:
		return inferRecord(*payload)
	case *cb.Model:
		return Structure{
			Matrix:     payload.Matrix,
			Similarity: payload.Similarity,
			TitleIndex: payload.TitleIndex,
			Vectorizer: payload.Vectorizer,
		}
	default:
		return Structure{}
	}
}

func inferMapping(mapping map[string]any) Structure {
	var out Structure
	for _, key := range []string{"matrix", "X", "tfidf"} {
		if out.Matrix = matrixValue(mapping[key]); out.Matrix != nil {
			break
		}
	}
	out.Similarity = similarityValue(mapping["cosine"])
	for _, key := range []string{"title_to_idx", "indices"} {
		if out.TitleIndex = titleIndexValue(mapping[key]); out.TitleIndex != nil {
			break
		}
	}
	out.Neighbors, _ = mapping["nn"].(*cb.Neighbors)
	out.Vectorizer, _ = mapping["vectorizer"].(*cb.Vectorizer)
	return out
}

func inferSequence(sequence []any) Structure {
	var out Structure
	if len(sequence) >= 2 {
		out.Vectorizer, _ = sequence[0].(*cb.Vectorizer)
		out.Matrix = matrixValue(sequence[1])
	}
	if len(sequence) >= 3 {
		out.TitleIndex = titleIndexValue(sequence[2])
	}
	if len(sequence) >= 4 {
		out.Similarity = similarityValue(sequence[3])
	}
	return out
}

func inferRecord(record Record) Structure {
	var out Structure
	for _, candidate := range []*cb.Matrix{record.TfidfMatrix, record.Matrix, record.X, record.Features, record.Embeddings} {
		if candidate != nil {
			out.Matrix = candidate
			break
		}
	}
	for _, candidate := range [][][]float32{record.Cosine, record.Sims} {
		if candidate != nil {
			out.Similarity = candidate
			break
		}
	}
	for _, candidate := range []map[string]int{record.TitleToIdx, record.Indices, record.NameToIdx} {
		if candidate != nil {
			out.TitleIndex = candidate
			break
		}
	}
	for _, candidate := range []*cb.Neighbors{record.NN, record.KNN, record.Neighbors} {
		if candidate != nil {
			out.Neighbors = candidate
			break
		}
	}
	for _, candidate := range []*cb.Vectorizer{record.Vectorizer, record.Tfidf} {
		if candidate != nil {
			out.Vectorizer = candidate
			break
		}
	}
	return out
}

func matrixValue(v any) *cb.Matrix {
	switch matrix := v.(type) {
	case *cb.Matrix:
		return matrix
	case [][]float32:
		return cb.NewMatrix(matrix)
	default:
		return nil
	}
}

func similarityValue(v any) [][]float32 {
	switch similarity := v.(type) {
	case [][]float32:
		return similarity
	case *cb.Matrix:
		if similarity != nil {
			return similarity.Values
		}
		return nil
	default:
		return nil
	}
}

func titleIndexValue(v any) map[string]int {
	index, _ := v.(map[string]int)
	return index
}
