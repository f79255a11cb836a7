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
	"sort"
	"strings"
	"unicode"

	"github.com/chewxy/math32"
)

// Vectorizer converts a text column into TF-IDF weighted feature vectors
// using word n-grams. Terms below MinDF documents or above MaxDF of the
// corpus are pruned. Rows are L2-normalized.
type Vectorizer struct {
	NGramMin   int
	NGramMax   int
	MinDF      int
	MaxDF      float32
	Vocabulary map[string]int
	IDF        []float32
}

func NewVectorizer(nGramMin, nGramMax, minDF int, maxDF float32) *Vectorizer {
	return &Vectorizer{
		NGramMin: nGramMin,
		NGramMax: nGramMax,
		MinDF:    minDF,
		MaxDF:    maxDF,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (v *Vectorizer) terms(text string) []string {
	tokens := tokenize(text)
	var terms []string
	for n := v.NGramMin; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Fit builds the vocabulary and inverse document frequencies over a corpus.
func (v *Vectorizer) Fit(texts []string) {
	documentFrequency := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, term := range v.terms(text) {
			if _, exist := seen[term]; !exist {
				seen[term] = struct{}{}
				documentFrequency[term]++
			}
		}
	}
	n := len(texts)
	var kept []string
	for term, df := range documentFrequency {
		if df >= v.MinDF && float32(df) <= v.MaxDF*float32(n) {
			kept = append(kept, term)
		}
	}
	// sorted vocabulary keeps column order deterministic
	sort.Strings(kept)
	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float32, len(kept))
	for i, term := range kept {
		v.Vocabulary[term] = i
		v.IDF[i] = math32.Log(float32(1+n)/float32(1+documentFrequency[term])) + 1
	}
}

// Transform converts texts into TF-IDF rows using the fitted vocabulary.
func (v *Vectorizer) Transform(texts []string) *Matrix {
	rows := make([][]float32, len(texts))
	for i, text := range texts {
		row := make([]float32, len(v.Vocabulary))
		for _, term := range v.terms(text) {
			if j, exist := v.Vocabulary[term]; exist {
				row[j] += v.IDF[j]
			}
		}
		if rowNorm := norm(row); rowNorm > 0 {
			for j := range row {
				row[j] /= rowNorm
			}
		}
		rows[i] = row
	}
	return NewMatrix(rows)
}

func (v *Vectorizer) FitTransform(texts []string) *Matrix {
	v.Fit(texts)
	return v.Transform(texts)
}
