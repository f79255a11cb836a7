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
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"

	"github.com/Rubinnz/Recom-huhu/model/cb"
	"github.com/Rubinnz/Recom-huhu/model/cf"
)

// LoadError aggregates the failure of every deserialization strategy.
type LoadError struct {
	Path     string
	Attempts []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %s", e.Path, strings.Join(e.Attempts, "; "))
}

// IsLoadError reports whether err is a LoadError.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}

// Load deserializes a model artifact, trying each encoding in order: a gob
// object graph, a gzip-compressed gob object graph, and the raw binary model
// formats. The first success wins.
func Load(path string) (*Artifact, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("model artifact %s", path)
		}
		return nil, errors.Trace(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	strategies := []struct {
		name   string
		decode func([]byte) (*Artifact, error)
	}{
		{"gob", decodeGob},
		{"gzip", decodeGzip},
		{"binary", decodeBinary},
	}
	loadErr := &LoadError{Path: path}
	for _, strategy := range strategies {
		artifact, err := strategy.decode(raw)
		if err == nil {
			return artifact, nil
		}
		loadErr.Attempts = append(loadErr.Attempts, fmt.Sprintf("%s: %v", strategy.name, err))
	}
	return nil, loadErr
}

func decodeGob(raw []byte) (*Artifact, error) {
	artifact := new(Artifact)
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func decodeGzip(raw []byte) (*Artifact, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	artifact := new(Artifact)
	if err := gob.NewDecoder(reader).Decode(artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func decodeBinary(raw []byte) (*Artifact, error) {
	switch {
	case hasMagic(raw, cb.Magic):
		decoded := new(cb.Model)
		if err := decoded.Unmarshal(bytes.NewReader(raw)); err != nil {
			return nil, err
		}
		return &Artifact{Payload: decoded}, nil
	case hasMagic(raw, cf.Magic):
		decoded := new(cf.Model)
		if err := decoded.Unmarshal(bytes.NewReader(raw)); err != nil {
			return nil, err
		}
		return &Artifact{Payload: decoded}, nil
	default:
		return nil, errors.New("no binary magic found")
	}
}

func hasMagic(raw []byte, magic string) bool {
	if len(raw) < 4+len(magic) {
		return false
	}
	length := int32(binary.LittleEndian.Uint32(raw[:4]))
	return length == int32(len(magic)) && string(raw[4:4+len(magic)]) == magic
}

// SaveArtifact writes an artifact as a gob object graph. Training pipelines
// use it to persist fitted models; Load reads it back with the first
// strategy.
func SaveArtifact(path string, artifact *Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	return errors.Trace(gob.NewEncoder(f).Encode(artifact))
}
