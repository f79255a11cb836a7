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

package logics

import (
	"sort"

	"github.com/Rubinnz/Recom-huhu/model"
	"github.com/Rubinnz/Recom-huhu/model/cb"
	"github.com/Rubinnz/Recom-huhu/storage/data"
)

// Result is one ranked recommendation.
type Result struct {
	Game  data.Game
	Score float64
}

// RecommendContent ranks catalog items by textual similarity to a seed
// title. A usable inferred structure supplies the feature matrix; otherwise
// a fresh TF-IDF fit over the requested text column stands in. An absent
// seed title yields an empty result, not an error.
func RecommendContent(structure model.Structure, games []data.Game, seedTitle string, topN int, textColumn string) []Result {
	if len(games) == 0 {
		return nil
	}
	seed := -1
	for i, game := range games {
		if game.Title == seedTitle {
			seed = i
			break
		}
	}
	if seed < 0 {
		return nil
	}
	var scores []float32
	if structure.Usable() && structure.Matrix.NumRows() == len(games) {
		scores = cb.CosineScores(structure.Matrix, seed)
	} else {
		texts := make([]string, len(games))
		for i, game := range games {
			texts[i] = game.Text(textColumn)
		}
		vectorizer := cb.NewVectorizer(1, 2, 2, 0.95)
		scores = cb.CosineScores(vectorizer.FitTransform(texts), seed)
	}
	order := make([]int, 0, len(games)-1)
	for i := range games {
		if i != seed {
			order = append(order, i)
		}
	}
	// ties keep catalog order
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if topN >= 0 && len(order) > topN {
		order = order[:topN]
	}
	results := make([]Result, len(order))
	for i, index := range order {
		results[i] = Result{Game: games[index], Score: float64(scores[index])}
	}
	return results
}
