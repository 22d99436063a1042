package rank

import (
	"fmt"
	"strings"

	"todohl/internal/annot"
)

// Bucket is a display class for an annotation.
type Bucket uint8

const (
	Low Bucket = iota
	Medium
	High
	Fixme
)

// Buckets lists every bucket from heaviest to lightest.
var Buckets = [...]Bucket{Fixme, High, Medium, Low}

func (b Bucket) String() string {
	switch b {
	case Fixme:
		return "fixme"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	}
	return "unknown"
}

// Weight orders buckets: fixme > high > medium > low.
func (b Bucket) Weight() int {
	return int(b)
}

// ParseBucket accepts the names produced by String, case-insensitively.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixme":
		return Fixme, nil
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low", "":
		return Low, nil
	}
	return Low, fmt.Errorf("unknown bucket %q (expected fixme|high|medium|low)", s)
}

// Classify maps an annotation to its bucket. FIXME always lands in Fixme,
// whatever its numeric priority.
func Classify(a annot.Annotation) Bucket {
	if a.Kind == annot.Fixme {
		return Fixme
	}
	switch a.Priority {
	case 3:
		return High
	case 2:
		return Medium
	default:
		return Low
	}
}
