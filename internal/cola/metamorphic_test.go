// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cola

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/colakv/colakv/internal/base"
)

// TestMetamorphicInsertRemoveAgreesWithMultisetModel runs a random sequence
// of Insert/Remove/Find operations against both a Store and a plain
// sorted-slice multiset model, replaying scenario S1/S2 of spec.md §8 at
// larger scale than the fixed-sequence tests above. Grounded on
// calvinalkan-agent-task/pkg/slotcache's metamorphic harness shape (random
// op generator plus model comparison after every operation); the model is
// a multiset, not a set, because Store.Insert permits duplicate keys and
// leaves uniqueness enforcement to callers like orderedset.Set.
func TestMetamorphicInsertRemoveAgreesWithMultisetModel(t *testing.T) {
	const seeds = 6
	const opsPerSeed = 300

	for seed := 0; seed < seeds; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(seed)))
			s := newIntStore(10)
			counts := map[int]int{}

			for i := 0; i < opsPerSeed; i++ {
				v := rng.Intn(500)
				switch rng.Intn(3) {
				case 0:
					require.NoError(t, s.Insert(v))
					counts[v]++
				case 1:
					removed := s.Remove(v)
					require.Equal(t, counts[v] > 0, removed)
					if removed {
						counts[v]--
						if counts[v] == 0 {
							delete(counts, v)
						}
					}
				case 2:
					res := s.Find(v)
					require.Equal(t, counts[v] > 0, res.Found)
				}

				if i%25 == 0 {
					assertStoreMatchesModel(t, s, counts)
				}
			}
			assertStoreMatchesModel(t, s, counts)
		})
	}
}

func assertStoreMatchesModel(t *testing.T, s *Store[int, base.Natural[int]], counts map[int]int) {
	t.Helper()
	var want []int
	for v, n := range counts {
		for j := 0; j < n; j++ {
			want = append(want, v)
		}
	}
	sort.Ints(want)

	got := collect(s)
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("store diverged from model:\n%s", pretty.Sprint(diff))
	}
}
