package vdom

import "slices"

// keyIndex splits a child list into keyed positions and unkeyed positions.
type keyIndex struct {
	keys map[string]int
	free []int
}

func indexKeys(children []VNode) keyIndex {
	idx := keyIndex{keys: make(map[string]int)}
	for i, child := range children {
		if key := keyOf(child); key != "" {
			idx.keys[key] = i
		} else {
			idx.free = append(idx.free, i)
		}
	}
	return idx
}

// Reorder aligns next against prev so that a positional walk compares
// same-keyed children, and computes the move-set that turns the live child
// order into next's order.
//
// The returned list has one slot per prev child (nil where the prev child
// is dropped) followed by the next children that matched nothing in prev.
// Moves is nil when the positional walk's own removes and inserts are
// enough. An out-of-place keyed child is moved by a remove followed by an
// insert under its key.
func Reorder(prev, next []VNode) ([]VNode, *Moves) {
	nextIdx := indexKeys(next)
	if len(nextIdx.free) == len(next) {
		return next, nil
	}
	prevIdx := indexKeys(prev)
	if len(prevIdx.free) == len(prev) {
		return next, nil
	}

	ordered := make([]VNode, 0, max(len(prev), len(next)))
	freeIndex := 0
	deleted := 0

	// Match each prev child: by key first, otherwise the next free child.
	for _, item := range prev {
		if key := keyOf(item); key != "" {
			if j, ok := nextIdx.keys[key]; ok {
				ordered = append(ordered, next[j])
			} else {
				deleted++
				ordered = append(ordered, nil)
			}
			continue
		}
		if freeIndex < len(nextIdx.free) {
			ordered = append(ordered, next[nextIdx.free[freeIndex]])
			freeIndex++
		} else {
			deleted++
			ordered = append(ordered, nil)
		}
	}

	lastFree := len(next)
	if freeIndex < len(nextIdx.free) {
		lastFree = nextIdx.free[freeIndex]
	}

	// Append new keys and leftover unkeyed children.
	for j, item := range next {
		if key := keyOf(item); key != "" {
			if _, ok := prevIdx.keys[key]; !ok {
				ordered = append(ordered, item)
			}
		} else if j >= lastFree {
			ordered = append(ordered, item)
		}
	}

	moves := simulateMoves(ordered, next, nextIdx)
	if len(moves.Removes) == deleted && len(moves.Inserts) == 0 {
		return ordered, nil
	}
	return ordered, moves
}

// simulateMoves replays the edit from ordered to next on a scratch list and
// records each remove and insert it needs.
func simulateMoves(ordered, next []VNode, nextIdx keyIndex) *Moves {
	simulate := slices.Clone(ordered)
	simIndex := 0
	moves := &Moves{}

	remove := func(key string) {
		simulate = slices.Delete(simulate, simIndex, simIndex+1)
		moves.Removes = append(moves.Removes, MoveRemove{From: simIndex, Key: key})
	}
	current := func() (VNode, bool) {
		if simIndex < len(simulate) {
			return simulate[simIndex], true
		}
		return nil, false
	}

	for k := 0; k < len(next); {
		wantedKey := keyOf(next[k])

		// Drop holes left by removed children.
		for simIndex < len(simulate) && simulate[simIndex] == nil {
			remove("")
		}

		item, ok := current()
		itemKey := keyOf(item)
		if ok && itemKey == wantedKey {
			simIndex++
			k++
			continue
		}

		switch {
		case wantedKey != "":
			if ok && itemKey != "" {
				if j, wanted := nextIdx.keys[itemKey]; !wanted || j != k+1 {
					// Inserting the wanted key here would not put item in
					// place, so item has to move.
					remove(itemKey)
					item, ok = current()
					if !ok || keyOf(item) != wantedKey {
						moves.Inserts = append(moves.Inserts, MoveInsert{Key: wantedKey, To: k})
					} else {
						simIndex++
					}
				} else {
					moves.Inserts = append(moves.Inserts, MoveInsert{Key: wantedKey, To: k})
				}
			} else {
				moves.Inserts = append(moves.Inserts, MoveInsert{Key: wantedKey, To: k})
			}
			k++
		case ok && itemKey != "":
			// A keyed item where an unkeyed one is wanted.
			remove(itemKey)
		default:
			k++
		}
	}

	for simIndex < len(simulate) {
		remove(keyOf(simulate[simIndex]))
	}

	return moves
}
