// Package rank classifies annotations into display buckets and fixes their
// global order.
package rank

import (
	"slices"

	"todohl/internal/annot"
)

// Entry pairs an annotation with its bucket.
type Entry struct {
	annot.Annotation
	Bucket Bucket
}

// Result is the output of ClassifyAndSort. Ordered is the global order used by
// list renderers; Buckets holds the same entries split per bucket, each keeping
// the global relative order. Every bucket key is present.
type Result struct {
	Ordered []Entry
	Buckets map[Bucket][]Entry
}

// Sort returns a copy of as ordered by priority descending, then line ascending.
func Sort(as []annot.Annotation) []annot.Annotation {
	out := slices.Clone(as)
	slices.SortStableFunc(out, annot.Compare)
	return out
}

// ClassifyAndSort orders the annotations and assigns each a bucket.
func ClassifyAndSort(as []annot.Annotation) Result {
	sorted := Sort(as)
	res := Result{
		Ordered: make([]Entry, 0, len(sorted)),
		Buckets: make(map[Bucket][]Entry, len(Buckets)),
	}
	for _, b := range Buckets {
		res.Buckets[b] = []Entry{}
	}
	for _, a := range sorted {
		e := Entry{Annotation: a, Bucket: Classify(a)}
		res.Ordered = append(res.Ordered, e)
		res.Buckets[e.Bucket] = append(res.Buckets[e.Bucket], e)
	}
	return res
}

// Scan runs extraction and classification over a document.
func Scan(text string) Result {
	return ClassifyAndSort(annot.Extract(text))
}

// Filter keeps entries whose bucket weighs at least min. The result keeps
// every bucket key.
func (r Result) Filter(min Bucket) Result {
	if min == Low {
		return r
	}
	out := Result{
		Ordered: make([]Entry, 0, len(r.Ordered)),
		Buckets: make(map[Bucket][]Entry, len(Buckets)),
	}
	for _, b := range Buckets {
		if b.Weight() >= min.Weight() {
			out.Buckets[b] = r.Buckets[b]
		} else {
			out.Buckets[b] = []Entry{}
		}
	}
	for _, e := range r.Ordered {
		if e.Bucket.Weight() >= min.Weight() {
			out.Ordered = append(out.Ordered, e)
		}
	}
	return out
}

// Limit truncates the global order to at most n entries (n <= 0 means no
// limit) and rebuilds the bucket split to match.
func (r Result) Limit(n int) Result {
	if n <= 0 || len(r.Ordered) <= n {
		return r
	}
	out := Result{
		Ordered: r.Ordered[:n:n],
		Buckets: make(map[Bucket][]Entry, len(Buckets)),
	}
	for _, b := range Buckets {
		out.Buckets[b] = []Entry{}
	}
	for _, e := range out.Ordered {
		out.Buckets[e.Bucket] = append(out.Buckets[e.Bucket], e)
	}
	return out
}

// Count returns the number of entries in bucket b.
func (r Result) Count(b Bucket) int {
	return len(r.Buckets[b])
}

// Any reports whether some entry weighs at least min.
func (r Result) Any(min Bucket) bool {
	for _, e := range r.Ordered {
		if e.Bucket.Weight() >= min.Weight() {
			return true
		}
	}
	return false
}
