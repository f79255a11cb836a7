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

package engine

import (
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/errors"
	"golang.org/x/sync/singleflight"

	"github.com/Rubinnz/Recom-huhu/model"
)

// ModelCache caches loaded artifacts by path for the process lifetime.
// Concurrent first loads of the same path share a single in-flight load.
type ModelCache struct {
	cache  *ttlcache.Cache[string, *model.Artifact]
	group  singleflight.Group
	loader func(string) (*model.Artifact, error)
}

func NewModelCache() *ModelCache {
	return &ModelCache{
		cache:  ttlcache.New[string, *model.Artifact](),
		loader: model.Load,
	}
}

// GetOrLoad returns the cached artifact for a path, loading it on first
// access. Artifacts are assumed immutable for the process lifetime.
func (c *ModelCache) GetOrLoad(path string) (*model.Artifact, error) {
	if item := c.cache.Get(path); item != nil {
		return item.Value(), nil
	}
	v, err, _ := c.group.Do(path, func() (any, error) {
		if item := c.cache.Get(path); item != nil {
			return item.Value(), nil
		}
		artifact, err := c.loader(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		c.cache.Set(path, artifact, ttlcache.NoTTL)
		return artifact, nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return v.(*model.Artifact), nil
}
