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
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Rubinnz/Recom-huhu/storage/data"
	"github.com/Rubinnz/Recom-huhu/storage/ratings"
)

// PopularityWeights blends rating volume against rating average.
type PopularityWeights struct {
	Count float64
	Mean  float64
	// MaxRating normalizes the mean into [0, 1].
	MaxRating float64
}

func DefaultPopularityWeights() PopularityWeights {
	return PopularityWeights{Count: 0.6, Mean: 0.4, MaxRating: 5}
}

type aggregate struct {
	count int
	sum   float64
}

func (a aggregate) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// TopPopular ranks items by blended rating volume and average when rating
// history exists, and by static catalog metadata otherwise. Only items
// present in both the aggregation and the catalog survive the join.
func TopPopular(games []data.Game, snapshot []ratings.Record, topN int, weights PopularityWeights) []Result {
	if len(snapshot) == 0 {
		return rankByMetadata(games, topN)
	}
	aggregates := make(map[string]aggregate)
	maxCount := 0
	for _, record := range snapshot {
		a := aggregates[record.ItemId]
		a.count++
		a.sum += record.Rating
		aggregates[record.ItemId] = a
		if a.count > maxCount {
			maxCount = a.count
		}
	}
	type scored struct {
		game  data.Game
		score float64
		count int
		mean  float64
	}
	candidates := make([]scored, 0, len(aggregates))
	for _, game := range games {
		a, rated := aggregates[game.Id]
		if !rated {
			continue
		}
		mean := a.mean()
		score := weights.Count*float64(a.count)/float64(maxCount) + weights.Mean*mean/weights.MaxRating
		candidates = append(candidates, scored{game: game, score: score, count: a.count, mean: mean})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].mean > candidates[j].mean
	})
	if topN >= 0 && len(candidates) > topN {
		candidates = candidates[:topN]
	}
	results := make([]Result, len(candidates))
	for i, candidate := range candidates {
		results[i] = Result{Game: candidate.game, Score: candidate.score}
	}
	return results
}

// parseReleased parses lenient release-date strings, accepting bare years.
func parseReleased(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	if year, err := strconv.Atoi(s); err == nil && year > 0 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// rankByMetadata orders the catalog by (rating desc, released desc) with
// nulls last.
func rankByMetadata(games []data.Game, topN int) []Result {
	order := make([]int, len(games))
	for i := range order {
		order[i] = i
	}
	released := make([]time.Time, len(games))
	hasReleased := make([]bool, len(games))
	for i, game := range games {
		released[i], hasReleased[i] = parseReleased(game.Released)
	}
	sort.SliceStable(order, func(x, y int) bool {
		i, j := order[x], order[y]
		ri, rj := games[i].Rating, games[j].Rating
		switch {
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		case ri != nil && rj != nil && *ri != *rj:
			return *ri > *rj
		}
		switch {
		case hasReleased[i] && !hasReleased[j]:
			return true
		case !hasReleased[i] && hasReleased[j]:
			return false
		default:
			return released[i].After(released[j])
		}
	})
	if topN >= 0 && len(order) > topN {
		order = order[:topN]
	}
	results := make([]Result, len(order))
	for i, index := range order {
		score := 0.0
		if games[index].Rating != nil {
			score = *games[index].Rating
		}
		results[i] = Result{Game: games[index], Score: score}
	}
	return results
}
