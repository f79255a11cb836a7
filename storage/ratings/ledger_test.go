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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "ratings.csv"))
}

func TestUpsertGet(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.Upsert("u1", "i1", 4))
	rating, found := ledger.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 4.0, rating)

	_, found = ledger.Get("u1", "i2")
	assert.False(t, found)
}

func TestUpsertLastWriteWins(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.Upsert("u1", "i1", 2))
	assert.NoError(t, ledger.Upsert("u1", "i1", 5))
	rating, found := ledger.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, ledger.Len())
}

func TestRemove(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.Upsert("u1", "i1", 3))
	assert.NoError(t, ledger.Remove("u1", "i1"))
	_, found := ledger.Get("u1", "i1")
	assert.False(t, found)
}

func TestBulkAppendListUsers(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.Upsert("u1", "i9", 1))
	assert.NoError(t, ledger.BulkAppend("u1", []string{"i1", "i2", "i3"}, 4))
	assert.NoError(t, ledger.BulkAppend("u0", []string{"i1"}, 2))
	assert.Equal(t, []string{"u0", "u1"}, ledger.ListUsers())
	assert.Equal(t, 5, ledger.Len())
}

func TestSeenItems(t *testing.T) {
	ledger := newTestLedger(t)
	assert.NoError(t, ledger.BulkAppend("u1", []string{"i1", "i2"}, 4))
	assert.NoError(t, ledger.Upsert("u2", "i3", 5))
	seen := ledger.SeenItems("u1")
	assert.True(t, seen.Contains("i1"))
	assert.True(t, seen.Contains("i2"))
	assert.False(t, seen.Contains("i3"))
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	ledger := Open(path)
	assert.NoError(t, ledger.Upsert("u1", "i1", 4.5))
	assert.NoError(t, ledger.Upsert("u2", "i2", 3))

	reopened := Open(path)
	assert.Equal(t, 2, reopened.Len())
	rating, found := reopened.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 4.5, rating)
}

func TestForeignHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	content := "username;id;stars;created_at\nalice;42;5;1700000000\nbob;42;2;1700000001\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ledger := Open(path)
	assert.Equal(t, 2, ledger.Len())
	rating, found := ledger.Get("alice", "42")
	assert.True(t, found)
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, []string{"alice", "bob"}, ledger.ListUsers())
}

func TestUnknownHeadersSynthesized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0644))
	ledger := Open(path)
	// rows survive with empty synthesized columns
	assert.Equal(t, 1, ledger.Len())
	snapshot := ledger.Snapshot()
	assert.Empty(t, snapshot[0].UserId)
	assert.Empty(t, snapshot[0].ItemId)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("user_id,game_id\n\"broken\n"), 0644))
	ledger := Open(path)
	// malformed backing files fall back to an empty ledger
	assert.Equal(t, 0, ledger.Len())
	assert.NoError(t, ledger.Upsert("u1", "i1", 3))
	rating, found := ledger.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 3.0, rating)
}

func TestImport(t *testing.T) {
	ledger := newTestLedger(t)
	require.NoError(t, ledger.Upsert("u1", "i1", 2))

	other := filepath.Join(t.TempDir(), "other.csv")
	content := "user_id,game_id,rating,timestamp\nu1,i1,5,1700000000\nu2,i2,3,\n"
	require.NoError(t, os.WriteFile(other, []byte(content), 0644))

	count, err := ledger.Import(other)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, ledger.Len())
	// imported pairs replace existing ones
	rating, found := ledger.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 5.0, rating)
	rating, found = ledger.Get("u2", "i2")
	assert.True(t, found)
	assert.Equal(t, 3.0, rating)
	// records without a timestamp are stamped
	for _, record := range ledger.Snapshot() {
		assert.NotZero(t, record.Timestamp)
	}
}

func TestDuplicateRowsLastWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	content := "user_id,game_id,rating,timestamp\nu1,i1,2,1\nu1,i1,4,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ledger := Open(path)
	rating, found := ledger.Get("u1", "i1")
	assert.True(t, found)
	assert.Equal(t, 4.0, rating)
}
