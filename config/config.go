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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the recommendation engine.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Model     ModelConfig     `mapstructure:"model"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

type CatalogConfig struct {
	// Path of the game metadata flat file.
	Path string `mapstructure:"path" validate:"required"`
	// TextColumn feeds the content similarity fit.
	TextColumn string `mapstructure:"text_column" validate:"oneof=genres description platforms title combined"`
}

type ModelConfig struct {
	// CollaborativePath points at the serialized collaborative model.
	CollaborativePath string `mapstructure:"collaborative_path"`
	// ContentPath points at the serialized content model.
	ContentPath string `mapstructure:"content_path"`
}

type RatingsConfig struct {
	// Path of the rating ledger flat file.
	Path string `mapstructure:"path" validate:"required"`
}

type RecommendConfig struct {
	TopN        int     `mapstructure:"top_n" validate:"gt=0"`
	CountWeight float64 `mapstructure:"count_weight" validate:"gte=0,lte=1"`
	MeanWeight  float64 `mapstructure:"mean_weight" validate:"gte=0,lte=1"`
	MaxRating   float64 `mapstructure:"max_rating" validate:"gt=0"`
}

func setDefault(v *viper.Viper) {
	v.SetDefault("catalog.text_column", "genres")
	v.SetDefault("recommend.top_n", 10)
	v.SetDefault("recommend.count_weight", 0.6)
	v.SetDefault("recommend.mean_weight", 0.4)
	v.SetDefault("recommend.max_rating", 5)
}

// LoadConfig loads and validates the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}
