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

package data

import (
	"bufio"
	"encoding/csv"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Game is one catalog row. Missing columns are synthesized empty so
// externally supplied files with partial schemas still load.
type Game struct {
	Id          string
	Title       string
	Genres      string
	Platforms   string
	Description string
	Rating      *float64
	Released    string
	CoverImage  string
	GameLink    string
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes markup tags from free-text descriptions.
func StripHTML(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(tagPattern.ReplaceAllString(s, ""), "&nbsp;", " "))
}

// SniffDelimiter guesses the delimiter of a header line between comma,
// semicolon and tab. Comma wins ties.
func SniffDelimiter(header string) rune {
	delimiter, count := ',', strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t'} {
		if c := strings.Count(header, string(candidate)); c > count {
			delimiter, count = candidate, c
		}
	}
	return delimiter
}

// column returns the index of the first header matching any synonym, or -1.
func column(header []string, synonyms ...string) int {
	for _, name := range synonyms {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func field(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// ReadCatalog loads the game catalog from a delimited flat file. Headers are
// matched case-insensitively against known synonyms and the id is coerced to
// a string.
func ReadCatalog(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("catalog file %s", path)
		}
		return nil, errors.Trace(err)
	}
	defer f.Close()

	buffered := bufio.NewReader(f)
	headerLine, err := buffered.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, errors.Trace(err)
	}
	reader := csv.NewReader(strings.NewReader(headerLine))
	reader.Comma = SniffDelimiter(headerLine)
	rawHeader, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idCol := column(header, "id", "game_id", "itemid", "item_id")
	titleCol := column(header, "title", "name", "game", "item_name", "title_name")
	genresCol := column(header, "genres")
	platformsCol := column(header, "platforms")
	descriptionCol := column(header, "description", "desc", "summary", "about", "details")
	ratingCol := column(header, "rating")
	releasedCol := column(header, "released")
	coverCol := column(header, "cover_image")
	linkCol := column(header, "game_link")

	reader = csv.NewReader(buffered)
	reader.Comma = SniffDelimiter(headerLine)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Trace(err)
	}

	games := make([]Game, 0, len(rows))
	for _, row := range rows {
		game := Game{
			Id:          field(row, idCol),
			Title:       field(row, titleCol),
			Genres:      field(row, genresCol),
			Platforms:   field(row, platformsCol),
			Description: StripHTML(field(row, descriptionCol)),
			Released:    field(row, releasedCol),
			CoverImage:  field(row, coverCol),
			GameLink:    field(row, linkCol),
		}
		if game.Title == "" {
			game.Title = game.Id
		}
		if s := field(row, ratingCol); s != "" {
			if rating, err := strconv.ParseFloat(s, 64); err == nil {
				game.Rating = &rating
			}
		}
		games = append(games, game)
	}
	return games, nil
}

// Text returns the requested text column of a game, defaulting to genres
// when the column is unknown. The combined column joins genres with the
// stripped description.
func (g Game) Text(textColumn string) string {
	switch textColumn {
	case "description":
		return g.Description
	case "platforms":
		return g.Platforms
	case "title":
		return g.Title
	case "combined":
		return strings.TrimSpace(g.Genres + " " + g.Description)
	default:
		return g.Genres
	}
}
