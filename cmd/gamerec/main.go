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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rubinnz/Recom-huhu/base/log"
	"github.com/Rubinnz/Recom-huhu/cmd/version"
	"github.com/Rubinnz/Recom-huhu/config"
	"github.com/Rubinnz/Recom-huhu/engine"
	"github.com/Rubinnz/Recom-huhu/logics"
)

var rootCommand = &cobra.Command{
	Use:   "gamerec",
	Short: "Game catalog recommendation engine.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		_ = cmd.Help()
	},
}

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Resolve recommendations.",
}

var recommendContentCommand = &cobra.Command{
	Use:   "content <title>",
	Short: "Recommend games similar to a seed title.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		topN, _ := cmd.Flags().GetInt("top-n")
		printResults(e.RecommendContent(args[0], topN))
	},
}

var recommendUserCommand = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Recommend games for a user from rating history.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		topN, _ := cmd.Flags().GetInt("top-n")
		printResults(e.RecommendForUser(args[0], topN))
	},
}

var popularCommand = &cobra.Command{
	Use:   "popular",
	Short: "Show the popularity ranking.",
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		topN, _ := cmd.Flags().GetInt("top-n")
		printResults(e.TopPopular(topN))
	},
}

var rateCommand = &cobra.Command{
	Use:   "rate",
	Short: "Manage the rating ledger.",
}

var rateSetCommand = &cobra.Command{
	Use:   "set <user-id> <game-id> <rating>",
	Short: "Set a user's rating for a game.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		rating := parseRating(args[2])
		if err := e.Rate(args[0], args[1], rating); err != nil {
			log.Logger().Fatal("failed to set rating", zap.Error(err))
		}
		fmt.Printf("rated %s: %s = %g\n", args[0], args[1], rating)
	},
}

var rateBulkCommand = &cobra.Command{
	Use:   "bulk <user-id> <rating> <game-id>...",
	Short: "Set the same rating for several games at once.",
	Args:  cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		rating := parseRating(args[1])
		if err := e.RateBulk(args[0], args[2:], rating); err != nil {
			log.Logger().Fatal("failed to set ratings", zap.Error(err))
		}
		fmt.Printf("rated %s: %s = %g\n", args[0], strings.Join(args[2:], ", "), rating)
	},
}

var rateImportCommand = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge ratings from another flat file into the ledger.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		count, err := e.ImportRatings(args[0])
		if err != nil {
			log.Logger().Fatal("failed to import ratings",
				zap.String("file", args[0]), zap.Error(err))
		}
		fmt.Printf("imported %d ratings from %s\n", count, args[0])
	},
}

var rateRemoveCommand = &cobra.Command{
	Use:   "remove <user-id> <game-id>",
	Short: "Remove a user's rating for a game.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		if err := e.Unrate(args[0], args[1]); err != nil {
			log.Logger().Fatal("failed to remove rating", zap.Error(err))
		}
		fmt.Printf("removed rating of %s for %s\n", args[0], args[1])
	},
}

var usersCommand = &cobra.Command{
	Use:   "users",
	Short: "List users with rating history.",
	Run: func(cmd *cobra.Command, args []string) {
		e := newEngine(cmd)
		for _, userId := range e.ListUsers() {
			fmt.Println(userId)
		}
	},
}

func newEngine(cmd *cobra.Command) *engine.Engine {
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
	log.SetLogger(cmd.Root().PersistentFlags(), debug)
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config",
			zap.String("config", configPath), zap.Error(err))
	}
	e, err := engine.NewEngine(conf)
	if err != nil {
		log.Logger().Fatal("failed to create engine", zap.Error(err))
	}
	return e
}

func parseRating(s string) float64 {
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Logger().Fatal("invalid rating", zap.String("rating", s), zap.Error(err))
	}
	return rating
}

func printResults(results []logics.Result) {
	if len(results) == 0 {
		fmt.Println("no recommendations")
		return
	}
	for i, result := range results {
		fmt.Printf("%2d. %s (%s)\t%.4f\n", i+1, result.Game.Title, result.Game.Id, result.Score)
	}
}

func init() {
	rootCommand.PersistentFlags().BoolP("version", "v", false, "gamerec version")
	rootCommand.PersistentFlags().StringP("config", "c", "config.toml", "path of configuration file")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	recommendContentCommand.Flags().IntP("top-n", "n", 0, "number of recommendations")
	recommendUserCommand.Flags().IntP("top-n", "n", 0, "number of recommendations")
	popularCommand.Flags().IntP("top-n", "n", 0, "number of recommendations")
	recommendCommand.AddCommand(recommendContentCommand, recommendUserCommand)
	rateCommand.AddCommand(rateSetCommand, rateBulkCommand, rateImportCommand, rateRemoveCommand)
	rootCommand.AddCommand(recommendCommand, popularCommand, rateCommand, usersCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
