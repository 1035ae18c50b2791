package entity

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Partition splits records into one Batch per distinct group key. Keys are
// compared case-insensitively; the first spelling seen names the batch.
// Records with a blank group are left out. Batches come back ordered by the
// folded key, ties broken by the raw key.
func Partition(records []Record) []Batch {
	folder := cases.Fold()

	index := make(map[string]int)
	batches := make([]Batch, 0)
	folded := make([]string, 0)

	for _, record := range records {
		group := strings.TrimSpace(record.Group)
		if group == "" {
			continue
		}

		key := folder.String(group)
		idx, ok := index[key]
		if !ok {
			idx = len(batches)
			index[key] = idx
			batches = append(batches, Batch{Group: group})
			folded = append(folded, key)
		}

		batches[idx].Records = append(batches[idx].Records, record)
	}

	order := make([]int, len(batches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := folded[order[a]], folded[order[b]]
		if ka != kb {
			return ka < kb
		}

		return batches[order[a]].Group < batches[order[b]].Group
	})

	sorted := make([]Batch, len(batches))
	for i, idx := range order {
		sorted[i] = batches[idx]
	}

	return sorted
}
