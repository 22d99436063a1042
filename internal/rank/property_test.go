package rank

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"todohl/internal/annot"
)

func genAnnotations() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(annot.Annotation{}), map[string]gopter.Gen{
		"Text":     gen.AlphaString(),
		"Line":     gen.IntRange(0, 500),
		"Priority": gen.IntRange(annot.MinPriority, annot.MaxPriority),
		"Kind":     gen.OneConstOf(annot.Todo, annot.Fixme),
	}))
}

func TestPropertyClassifyAndSort(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("adjacent entries respect the ordering law", prop.ForAll(
		func(as []annot.Annotation) bool {
			res := ClassifyAndSort(as)
			for i := 1; i < len(res.Ordered); i++ {
				a, b := res.Ordered[i-1], res.Ordered[i]
				if a.Priority > b.Priority {
					continue
				}
				if a.Priority == b.Priority && a.Line <= b.Line {
					continue
				}
				return false
			}
			return true
		},
		genAnnotations(),
	))

	properties.Property("bucket follows kind and priority", prop.ForAll(
		func(as []annot.Annotation) bool {
			for _, e := range ClassifyAndSort(as).Ordered {
				if e.Kind == annot.Fixme {
					if e.Bucket != Fixme {
						return false
					}
					continue
				}
				want := map[int]Bucket{3: High, 2: Medium, 1: Low}[e.Priority]
				if e.Bucket != want {
					return false
				}
			}
			return true
		},
		genAnnotations(),
	))

	properties.Property("buckets partition the ordered sequence", prop.ForAll(
		func(as []annot.Annotation) bool {
			res := ClassifyAndSort(as)
			total := 0
			for _, b := range Buckets {
				total += len(res.Buckets[b])
			}
			return total == len(res.Ordered) && len(res.Ordered) == len(as)
		},
		genAnnotations(),
	))

	properties.TestingRun(t)
}
