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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rubinnz/Recom-huhu/model"
	"github.com/Rubinnz/Recom-huhu/model/cb"
	"github.com/Rubinnz/Recom-huhu/storage/data"
)

func genreCatalog() []data.Game {
	return []data.Game{
		{Id: "1", Title: "A", Genres: "RPG"},
		{Id: "2", Title: "B", Genres: "RPG"},
		{Id: "3", Title: "C", Genres: "Shooter"},
	}
}

func TestRecommendContentFreshFit(t *testing.T) {
	results := RecommendContent(model.Structure{}, genreCatalog(), "A", 2, "genres")
	require.Len(t, results, 2)
	// shared genre token ranks B above C
	assert.Equal(t, "B", results[0].Game.Title)
	assert.Equal(t, "C", results[1].Game.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRecommendContentExcludesSeed(t *testing.T) {
	games := genreCatalog()
	for _, seed := range []string{"A", "B", "C"} {
		results := RecommendContent(model.Structure{}, games, seed, len(games), "genres")
		for _, result := range results {
			assert.NotEqual(t, seed, result.Game.Title)
		}
		assert.Len(t, results, len(games)-1)
	}
}

func TestRecommendContentSeedAbsent(t *testing.T) {
	assert.Empty(t, RecommendContent(model.Structure{}, genreCatalog(), "Z", 2, "genres"))
	assert.Empty(t, RecommendContent(model.Structure{}, nil, "A", 2, "genres"))
}

func TestRecommendContentTopN(t *testing.T) {
	games := genreCatalog()
	for topN := 0; topN <= len(games); topN++ {
		results := RecommendContent(model.Structure{}, games, "A", topN, "genres")
		assert.LessOrEqual(t, len(results), topN)
	}
}

func TestRecommendContentWithModel(t *testing.T) {
	games := genreCatalog()
	vectorizer := cb.NewVectorizer(1, 2, 2, 0.95)
	matrix := vectorizer.FitTransform([]string{"RPG", "RPG", "Shooter"})
	structure := model.Structure{Matrix: matrix, Vectorizer: vectorizer}
	results := RecommendContent(structure, games, "A", 2, "genres")
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Game.Title)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestRecommendContentSizeMismatchFallsBack(t *testing.T) {
	games := genreCatalog()
	// a matrix for a different catalog size is unusable
	vectorizer := cb.NewVectorizer(1, 2, 2, 0.95)
	matrix := vectorizer.FitTransform([]string{"RPG", "RPG"})
	structure := model.Structure{Matrix: matrix, Vectorizer: vectorizer}
	results := RecommendContent(structure, games, "A", 2, "genres")
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Game.Title)
}

func TestRecommendContentRaggedMatrix(t *testing.T) {
	games := genreCatalog()
	// rows of unequal width from a foreign artifact must not panic
	structure := model.Structure{
		Matrix:     cb.NewMatrix([][]float32{{1, 0}, {1}, {0, 1}}),
		Vectorizer: cb.NewVectorizer(1, 2, 2, 0.95),
	}
	results := RecommendContent(structure, games, "A", 2, "genres")
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Game.Title)
}

func TestRecommendContentTieBreakCatalogOrder(t *testing.T) {
	games := []data.Game{
		{Id: "1", Title: "A", Genres: "RPG"},
		{Id: "2", Title: "B", Genres: "RPG"},
		{Id: "3", Title: "C", Genres: "RPG"},
	}
	results := RecommendContent(model.Structure{}, games, "A", 2, "genres")
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Game.Title)
	assert.Equal(t, "C", results[1].Game.Title)
}
