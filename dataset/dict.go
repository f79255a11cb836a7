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

package dataset

// Dict maps sparse string identifiers to dense indices.
type Dict struct {
	si map[string]int32
	is []string
}

func NewDict() *Dict {
	return &Dict{si: map[string]int32{}}
}

func (d *Dict) Count() int32 {
	return int32(len(d.is))
}

// Add inserts an identifier and returns its index. Existing identifiers
// keep their original index.
func (d *Dict) Add(s string) int32 {
	if y, ok := d.si[s]; ok {
		return y
	}
	y := int32(len(d.is))
	d.si[s] = y
	d.is = append(d.is, s)
	return y
}

// Id returns the index of an identifier, or -1 if it was never added.
func (d *Dict) Id(s string) int32 {
	if y, ok := d.si[s]; ok {
		return y
	}
	return -1
}

func (d *Dict) String(id int32) (string, bool) {
	if id < 0 || id >= int32(len(d.is)) {
		return "", false
	}
	return d.is[id], true
}
