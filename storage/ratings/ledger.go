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

package ratings

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Rubinnz/Recom-huhu/base/log"
	"github.com/Rubinnz/Recom-huhu/storage/data"
)

// Record is one rating given by a user to an item.
type Record struct {
	UserId    string
	ItemId    string
	Rating    float64
	Timestamp int64
}

// Ledger is a flat-file store of rating records. Every mutation rewrites the
// whole backing file through a temp file and rename, guarded by a mutex, so
// the (user, item) pair stays unique after each operation completes.
type Ledger struct {
	mu      sync.Mutex
	path    string
	records []Record
	now     func() time.Time
}

// Open reads the backing file into memory. A missing or malformed file
// yields an empty ledger rather than an error.
func Open(path string) *Ledger {
	ledger := &Ledger{path: path, now: time.Now}
	records, err := readRecords(path)
	if err != nil {
		log.Logger().Warn("failed to read rating ledger, starting empty",
			zap.String("path", path), zap.Error(err))
		return ledger
	}
	ledger.records = records
	return ledger
}

func readRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Trace(err)
	}
	defer f.Close()

	buffered := bufio.NewReader(f)
	headerLine, err := buffered.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, nil
	}
	delimiter := data.SniffDelimiter(headerLine)
	reader := csv.NewReader(strings.NewReader(headerLine))
	reader.Comma = delimiter
	rawHeader, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	userCol := column(header, "user_id", "user", "userid", "username")
	itemCol := column(header, "game_id", "item_id", "id", "itemid")
	ratingCol := column(header, "rating", "score", "stars")
	timestampCol := column(header, "timestamp", "ts", "time", "created_at")

	reader = csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := Record{
			UserId: field(row, userCol),
			ItemId: field(row, itemCol),
		}
		record.Rating, _ = strconv.ParseFloat(field(row, ratingCol), 64)
		record.Timestamp, _ = strconv.ParseInt(field(row, timestampCol), 10, 64)
		records = append(records, record)
	}
	return records, nil
}

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

// Get returns the current rating for a (user, item) pair. The last matching
// record wins if duplicates exist.
func (l *Ledger) Get(userId, itemId string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	var rating float64
	for _, record := range l.records {
		if record.UserId == userId && record.ItemId == itemId {
			rating = record.Rating
			found = true
		}
	}
	return rating, found
}

// Upsert replaces any existing record for the (user, item) pair with a new
// one stamped with the current time.
func (l *Ledger) Upsert(userId, itemId string, rating float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = lo.Filter(l.records, func(record Record, _ int) bool {
		return record.UserId != userId || record.ItemId != itemId
	})
	l.records = append(l.records, Record{
		UserId:    userId,
		ItemId:    itemId,
		Rating:    rating,
		Timestamp: l.now().Unix(),
	})
	return l.persist()
}

// Remove deletes all records for the (user, item) pair.
func (l *Ledger) Remove(userId, itemId string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = lo.Filter(l.records, func(record Record, _ int) bool {
		return record.UserId != userId || record.ItemId != itemId
	})
	return l.persist()
}

// BulkAppend appends one record per item with a shared rating in a single
// rewrite.
func (l *Ledger) BulkAppend(userId string, itemIds []string, rating float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := l.now().Unix()
	for _, itemId := range itemIds {
		l.records = append(l.records, Record{
			UserId:    userId,
			ItemId:    itemId,
			Rating:    rating,
			Timestamp: timestamp,
		})
	}
	return l.persist()
}

// Import merges records from another ledger file. Imported pairs replace
// existing ones; records without a timestamp are stamped with the current
// time. Returns the number of records merged.
func (l *Ledger) Import(path string) (int, error) {
	records, err := readRecords(path)
	if err != nil {
		return 0, errors.Trace(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, record := range records {
		l.records = lo.Filter(l.records, func(existing Record, _ int) bool {
			return existing.UserId != record.UserId || existing.ItemId != record.ItemId
		})
		if record.Timestamp == 0 {
			record.Timestamp = l.now().Unix()
		}
		l.records = append(l.records, record)
	}
	if err := l.persist(); err != nil {
		return 0, errors.Trace(err)
	}
	return len(records), nil
}

// ListUsers returns the sorted unique user identifiers in the ledger.
func (l *Ledger) ListUsers() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	users := lo.Uniq(lo.Map(l.records, func(record Record, _ int) string {
		return record.UserId
	}))
	sort.Strings(users)
	return users
}

// SeenItems returns the set of items a user has rated.
func (l *Ledger) SeenItems(userId string) mapset.Set[string] {
	l.mu.Lock()
	defer l.mu.Unlock()
	seen := mapset.NewSet[string]()
	for _, record := range l.records {
		if record.UserId == userId {
			seen.Add(record.ItemId)
		}
	}
	return seen
}

// Snapshot returns a copy of all records in insertion order.
func (l *Ledger) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]Record, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Ledger) persist() error {
	parent := filepath.Dir(l.path)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err = os.MkdirAll(parent, os.ModePerm); err != nil {
			return errors.Trace(err)
		}
	}
	temp, err := os.CreateTemp(parent, filepath.Base(l.path)+".*")
	if err != nil {
		return errors.Trace(err)
	}
	writer := csv.NewWriter(temp)
	if err := writer.Write([]string{"user_id", "game_id", "rating", "timestamp"}); err != nil {
		temp.Close()
		return errors.Trace(err)
	}
	for _, record := range l.records {
		row := []string{
			record.UserId,
			record.ItemId,
			strconv.FormatFloat(record.Rating, 'f', -1, 64),
			strconv.FormatInt(record.Timestamp, 10),
		}
		if err := writer.Write(row); err != nil {
			temp.Close()
			return errors.Trace(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		temp.Close()
		return errors.Trace(err)
	}
	if err := temp.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.Rename(temp.Name(), l.path))
}
