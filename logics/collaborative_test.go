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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rubinnz/Recom-huhu/storage/data"
	"github.com/Rubinnz/Recom-huhu/storage/ratings"
)

type stubEstimator struct {
	scores map[string]float32
}

func (s stubEstimator) Estimate(_, itemId string) (float32, error) {
	if score, ok := s.scores[itemId]; ok {
		return score, nil
	}
	return 0, errors.NotFoundf("item %q", itemId)
}

type failingEstimator struct{}

func (failingEstimator) Estimate(_, _ string) (float32, error) {
	return 0, errors.New("untrained model")
}

func TestRecommendCollaborative(t *testing.T) {
	games := []data.Game{{Id: "1"}, {Id: "2"}, {Id: "3"}}
	estimator := stubEstimator{scores: map[string]float32{"1": 2, "2": 5, "3": 4}}
	results := RecommendCollaborative(estimator, "u1", games, nil, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "2", results[0].Game.Id)
	assert.Equal(t, "3", results[1].Game.Id)
}

func TestRecommendCollaborativeExcludesSeen(t *testing.T) {
	games := []data.Game{{Id: "1"}, {Id: "2"}, {Id: "3"}}
	estimator := stubEstimator{scores: map[string]float32{"1": 5, "2": 4, "3": 3}}
	snapshot := []ratings.Record{
		{UserId: "u1", ItemId: "1", Rating: 5},
		{UserId: "u2", ItemId: "2", Rating: 4},
	}
	results := RecommendCollaborative(estimator, "u1", games, snapshot, 10)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.NotEqual(t, "1", result.Game.Id)
	}
}

func TestRecommendCollaborativeSkipsFailures(t *testing.T) {
	games := []data.Game{{Id: "1"}, {Id: "2"}}
	estimator := stubEstimator{scores: map[string]float32{"2": 4}}
	results := RecommendCollaborative(estimator, "u1", games, nil, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Game.Id)
}

func TestRecommendCollaborativeColdStart(t *testing.T) {
	games := []data.Game{{Id: "1"}, {Id: "2"}}
	// every estimate fails: empty result, not an error
	results := RecommendCollaborative(failingEstimator{}, "u1", games, nil, 10)
	assert.Empty(t, results)
}

func TestRecommendCollaborativeAllSeen(t *testing.T) {
	games := []data.Game{{Id: "1"}}
	estimator := stubEstimator{scores: map[string]float32{"1": 5}}
	snapshot := []ratings.Record{{UserId: "u1", ItemId: "1", Rating: 5}}
	assert.Empty(t, RecommendCollaborative(estimator, "u1", games, snapshot, 10))
}
