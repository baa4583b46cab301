// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "math/rand/v2"

// PickRandom returns a uniformly chosen element of candidates.
//
// candidates must not be empty; callers check for that first.
func PickRandom[T any](candidates []T) T {
	return candidates[rand.IntN(len(candidates))]
}
