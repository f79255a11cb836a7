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
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rubinnz/Recom-huhu/model"
)

func TestGetOrLoad(t *testing.T) {
	var loads atomic.Int32
	cache := NewModelCache()
	cache.loader = func(path string) (*model.Artifact, error) {
		loads.Add(1)
		return &model.Artifact{Payload: path}, nil
	}
	artifact, err := cache.GetOrLoad("a.bin")
	require.NoError(t, err)
	assert.Equal(t, "a.bin", artifact.Payload)

	// repeated calls hit the cache
	_, err = cache.GetOrLoad("a.bin")
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load())

	_, err = cache.GetOrLoad("b.bin")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestGetOrLoadConcurrent(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	cache := NewModelCache()
	cache.loader = func(path string) (*model.Artifact, error) {
		loads.Add(1)
		<-release
		return &model.Artifact{Payload: path}, nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			artifact, err := cache.GetOrLoad("model.bin")
			assert.NoError(t, err)
			assert.Equal(t, "model.bin", artifact.Payload)
		}()
	}
	close(release)
	wg.Wait()
	// concurrent first loads share one in-flight load
	assert.Equal(t, int32(1), loads.Load())
}

func TestGetOrLoadFailureNotCached(t *testing.T) {
	var loads atomic.Int32
	cache := NewModelCache()
	cache.loader = func(path string) (*model.Artifact, error) {
		loads.Add(1)
		return nil, errors.NotFoundf("model artifact %s", path)
	}
	_, err := cache.GetOrLoad("missing.bin")
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = cache.GetOrLoad("missing.bin")
	assert.Error(t, err)
	// failures are retried, not cached
	assert.Equal(t, int32(2), loads.Load())
}

func TestGetOrLoadReal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, model.SaveArtifact(path, &model.Artifact{Payload: map[string]any{}}))
	cache := NewModelCache()
	artifact, err := cache.GetOrLoad(path)
	require.NoError(t, err)
	assert.NotNil(t, artifact)
}
