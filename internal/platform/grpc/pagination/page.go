// Package pagination bounds page sizes of list RPCs.
package pagination

// Limits bounds a requested page size.
type Limits struct {
	Default int
	Max     int
}

// Clamp returns the page size to serve for requested. Zero or negative
// requests get Default and the result never exceeds Max or drops below one.
func (l Limits) Clamp(requested int32) int {
	size := int(requested)
	if size <= 0 {
		size = l.Default
	}
	if l.Max > 0 && size > l.Max {
		size = l.Max
	}
	return max(size, 1)
}
