package classifier

import "sort"

// labelCodec maps category labels to contiguous integer classes.
// Classes are stored sorted, so the encoding depends only on the set of
// labels seen, not on row order. Fields are exported for serialization.
type labelCodec struct {
	Classes []string
}

// fitLabels builds a codec over the distinct labels in the input
func fitLabels(labels []string) *labelCodec {
	seen := make(map[string]bool, 4)
	classes := make([]string, 0, 4)
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	return &labelCodec{Classes: classes}
}

// Encode returns the class index of a label, false if unknown
func (c *labelCodec) Encode(label string) (int, bool) {
	i := sort.SearchStrings(c.Classes, label)
	if i < len(c.Classes) && c.Classes[i] == label {
		return i, true
	}
	return 0, false
}

// Decode returns the label of a class index
func (c *labelCodec) Decode(class int) string {
	return c.Classes[class]
}

// Index is Encode with a -1 miss, for probability column lookups
func (c *labelCodec) Index(label string) int {
	if i, ok := c.Encode(label); ok {
		return i
	}
	return -1
}

// Len returns the number of known classes
func (c *labelCodec) Len() int {
	return len(c.Classes)
}
