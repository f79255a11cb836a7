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
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/Rubinnz/Recom-huhu/base/log"
	"github.com/Rubinnz/Recom-huhu/common/heap"
	"github.com/Rubinnz/Recom-huhu/storage/data"
	"github.com/Rubinnz/Recom-huhu/storage/ratings"
)

// Estimator is the single operation a collaborative model exposes.
type Estimator interface {
	Estimate(userId, itemId string) (float32, error)
}

// RecommendCollaborative ranks the items a user has not rated yet by the
// collaborative model's estimated preference. Items the model cannot score
// are skipped individually; if no estimate succeeds the result is empty,
// signalling a cold start to the caller.
func RecommendCollaborative(estimator Estimator, userId string, games []data.Game, snapshot []ratings.Record, topN int) []Result {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, record := range snapshot {
		if record.UserId == userId {
			seen.Add(record.ItemId)
		}
	}
	filter := heap.NewTopKFilter[data.Game, float32](topN)
	estimated := 0
	for _, game := range games {
		if seen.Contains(game.Id) {
			continue
		}
		score, err := estimator.Estimate(userId, game.Id)
		if err != nil {
			log.Logger().Debug("skip unscorable candidate",
				zap.String("user_id", userId), zap.String("game_id", game.Id), zap.Error(err))
			continue
		}
		estimated++
		filter.Push(game, score)
	}
	if estimated == 0 {
		return nil
	}
	items, weights := filter.PopAll()
	results := make([]Result, len(items))
	for i := range items {
		results[i] = Result{Game: items[i], Score: float64(weights[i])}
	}
	return results
}
