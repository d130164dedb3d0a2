// Package freq holds term frequency tables and their aggregation.
package freq

import "sort"

// Table maps a term to its occurrence count. Counts are always >= 1.
type Table map[string]int

// Entry is one (term, count) pair.
type Entry struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Count builds a table from a term sequence.
func Count(terms []string) Table {
	t := make(Table, len(terms))
	for _, term := range terms {
		t[term]++
	}
	return t
}

// Add increases term by n. Non-positive n is ignored so no zero entry appears.
func (t Table) Add(term string, n int) {
	if n <= 0 {
		return
	}
	t[term] += n
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// Clone returns an independent copy.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for term, c := range t {
		out[term] = c
	}
	return out
}

// Entries returns all pairs ordered by count descending, then term ascending.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))
	for term, c := range t {
		out = append(out, Entry{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// Top returns the k most frequent entries; k <= 0 returns all.
func (t Table) Top(k int) []Entry {
	entries := t.Entries()
	if k > 0 && len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

// Equal reports whether both tables hold the same terms and counts.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for term, c := range t {
		if oc, ok := other[term]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Merge sums counts per term across tables into a new table.
// Inputs are left untouched and the order of tables does not matter.
func Merge(tables ...Table) Table {
	size := 0
	for _, t := range tables {
		if len(t) > size {
			size = len(t)
		}
	}
	out := make(Table, size)
	for _, t := range tables {
		for term, c := range t {
			out.Add(term, c)
		}
	}
	return out
}
