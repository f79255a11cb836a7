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

// Package engine wires the recommendation engine together and is the only
// entry point the UI layer consumes.
package engine

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/Rubinnz/Recom-huhu/base/log"
	"github.com/Rubinnz/Recom-huhu/config"
	"github.com/Rubinnz/Recom-huhu/logics"
	"github.com/Rubinnz/Recom-huhu/model"
	"github.com/Rubinnz/Recom-huhu/model/cf"
	"github.com/Rubinnz/Recom-huhu/storage/data"
	"github.com/Rubinnz/Recom-huhu/storage/ratings"
)

// Engine resolves recommendations against a loaded catalog, a rating ledger
// and cached model artifacts.
type Engine struct {
	cfg     *config.Config
	cache   *ModelCache
	ledger  *ratings.Ledger
	catalog []data.Game
}

// NewEngine loads the catalog and opens the rating ledger.
func NewEngine(cfg *config.Config) (*Engine, error) {
	catalog, err := data.ReadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Engine{
		cfg:     cfg,
		cache:   NewModelCache(),
		ledger:  ratings.Open(cfg.Ratings.Path),
		catalog: catalog,
	}, nil
}

func (e *Engine) Catalog() []data.Game {
	return e.catalog
}

func (e *Engine) Ledger() *ratings.Ledger {
	return e.ledger
}

func (e *Engine) weights() logics.PopularityWeights {
	return logics.PopularityWeights{
		Count:     e.cfg.Recommend.CountWeight,
		Mean:      e.cfg.Recommend.MeanWeight,
		MaxRating: e.cfg.Recommend.MaxRating,
	}
}

// contentStructure loads and normalizes the content model. A model that
// cannot be loaded degrades to an empty structure so the recommender falls
// back to a fresh fit.
func (e *Engine) contentStructure() model.Structure {
	if e.cfg.Model.ContentPath == "" {
		return model.Structure{}
	}
	artifact, err := e.cache.GetOrLoad(e.cfg.Model.ContentPath)
	if err != nil {
		log.Logger().Warn("content model unavailable",
			zap.String("path", e.cfg.Model.ContentPath), zap.Error(err))
		return model.Structure{}
	}
	return model.Infer(artifact)
}

// collaborativeModel loads the collaborative model, or nil when it is
// unavailable.
func (e *Engine) collaborativeModel() *cf.Model {
	if e.cfg.Model.CollaborativePath == "" {
		return nil
	}
	artifact, err := e.cache.GetOrLoad(e.cfg.Model.CollaborativePath)
	if err != nil {
		log.Logger().Warn("collaborative model unavailable",
			zap.String("path", e.cfg.Model.CollaborativePath), zap.Error(err))
		return nil
	}
	trained, ok := artifact.Payload.(*cf.Model)
	if !ok {
		log.Logger().Warn("collaborative artifact has unexpected payload",
			zap.String("path", e.cfg.Model.CollaborativePath))
		return nil
	}
	return trained
}

// RecommendContent returns items similar to a seed title.
func (e *Engine) RecommendContent(seedTitle string, topN int) []logics.Result {
	if topN <= 0 {
		topN = e.cfg.Recommend.TopN
	}
	return logics.RecommendContent(e.contentStructure(), e.catalog, seedTitle,
		topN, e.cfg.Catalog.TextColumn)
}

// RecommendForUser returns collaborative predictions for a user, excluding
// already-rated items. When the model yields no signal the popularity
// ranking stands in.
func (e *Engine) RecommendForUser(userId string, topN int) []logics.Result {
	if topN <= 0 {
		topN = e.cfg.Recommend.TopN
	}
	if trained := e.collaborativeModel(); trained != nil {
		results := logics.RecommendCollaborative(trained, userId, e.catalog, e.ledger.Snapshot(), topN)
		if len(results) > 0 {
			return results
		}
	}
	return e.TopPopular(topN)
}

// TopPopular returns the popularity ranking.
func (e *Engine) TopPopular(topN int) []logics.Result {
	if topN <= 0 {
		topN = e.cfg.Recommend.TopN
	}
	return logics.TopPopular(e.catalog, e.ledger.Snapshot(), topN, e.weights())
}

// Rate upserts a user's rating for an item.
func (e *Engine) Rate(userId, itemId string, rating float64) error {
	return errors.Trace(e.ledger.Upsert(userId, itemId, rating))
}

// Unrate removes a user's rating for an item.
func (e *Engine) Unrate(userId, itemId string) error {
	return errors.Trace(e.ledger.Remove(userId, itemId))
}

// RateBulk appends the same rating for several items at once.
func (e *Engine) RateBulk(userId string, itemIds []string, rating float64) error {
	return errors.Trace(e.ledger.BulkAppend(userId, itemIds, rating))
}

// ImportRatings merges another rating file into the ledger.
func (e *Engine) ImportRatings(path string) (int, error) {
	count, err := e.ledger.Import(path)
	return count, errors.Trace(err)
}

// GetRating looks up a user's current rating for an item.
func (e *Engine) GetRating(userId, itemId string) (float64, bool) {
	return e.ledger.Get(userId, itemId)
}

// ListUsers enumerates the users with rating history.
func (e *Engine) ListUsers() []string {
	return e.ledger.ListUsers()
}
