// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package mvcc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// A randomized single-writer model check against a plain Go map, grounded on
// calvinalkan-agent-task/pkg/slotcache's Test_Metamorphic_* harness (an
// op-generator replaying random commands against both a model and the real
// thing, then comparing state). Unlike that example, no reflection-based
// generator library is involved: the op set here is small enough to
// enumerate directly, matching the library's own hand-rolled op generator
// rather than importing one.
func TestMetamorphicSingleWriterAgreesWithModel(t *testing.T) {
	const seeds = 8
	const opsPerSeed = 200

	for seed := 0; seed < seeds; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(seed)))
			s := newTestStore()
			model := map[string]string{}
			keys := []string{"a", "b", "c", "d", "e"}

			for i := 0; i < opsPerSeed; i++ {
				key := keys[rng.Intn(len(keys))]
				wt := s.BeginWrite()

				switch rng.Intn(3) {
				case 0:
					val := fmt.Sprintf("v%d", rng.Intn(1000))
					wt.Set([]byte(key), []byte(val))
					model[key] = val
				case 1:
					wt.Clear([]byte(key))
					delete(model, key)
				case 2:
					_, _ = wt.Get([]byte(key))
				}

				_, err := wt.Commit()
				require.NoError(t, err)

				got := map[string]string{}
				rt := s.BeginRead(nil)
				for _, k := range keys {
					if v, ok := rt.Get([]byte(k)); ok {
						got[k] = string(v)
					}
				}
				if diff := cmp.Diff(model, got); diff != "" {
					t.Fatalf("model/store diverged after op %d (-model +store):\n%s", i, diff)
				}
			}
		})
	}
}

// TestMetamorphicSequentialWritersNeverLoseACommittedWrite is a randomized
// check of spec.md §8 S6's promise in the other direction: every commit
// that succeeds must be visible to every read that starts afterward. The
// writers run one after another, each committing before the next begins,
// against a random choice among three shared keys.
func TestMetamorphicSequentialWritersNeverLoseACommittedWrite(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore()
	keys := []string{"x", "y", "z"}

	var lastCommitted = map[string]string{}
	for i := 0; i < 100; i++ {
		key := keys[rng.Intn(len(keys))]
		val := fmt.Sprintf("round%d", i)

		wt := s.BeginWrite()
		wt.Set([]byte(key), []byte(val))
		_, err := wt.Commit()
		require.NoError(t, err)
		lastCommitted[key] = val

		rt := s.BeginRead(nil)
		for k, want := range lastCommitted {
			got, ok := rt.Get([]byte(k))
			require.True(t, ok)
			require.Equal(t, want, string(got))
		}
	}
}
