// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package funcutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIter(t *testing.T) {
	a := []int{1, 2, 3}
	Iter(a, func(x *int) { *x *= 2 })
	assert.Equal(t, []int{2, 4, 6}, a)
}

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
	assert.Empty(t, Map(nil, strconv.Itoa))
}

func TestExists(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }
	assert.True(t, Exists([]int{1, 3, 4}, even))
	assert.False(t, Exists([]int{1, 3}, even))
	assert.False(t, Exists(nil, even))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}
