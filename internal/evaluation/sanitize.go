package evaluation

// Series is a sanitized close series with its paired timestamps, oldest first.
type Series struct {
	Timestamps []int64
	Closes     []float64
}

// Len returns the number of usable samples.
func (s Series) Len() int {
	return len(s.Closes)
}

// Last returns the most recent close and its timestamp.
func (s Series) Last() (float64, int64, bool) {
	n := len(s.Closes)
	if n == 0 {
		return 0, 0, false
	}
	return s.Closes[n-1], s.Timestamps[n-1], true
}

// Sanitize drops every index whose close is nil or exactly zero, together
// with its timestamp. Only indices present in both inputs are considered.
// Zero is the provider's "no trade" sentinel, not a price.
func Sanitize(timestamps []int64, closes []*float64) Series {
	n := min(len(timestamps), len(closes))

	out := Series{
		Timestamps: make([]int64, 0, n),
		Closes:     make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		c := closes[i]
		if c == nil || *c == 0 {
			continue
		}
		out.Timestamps = append(out.Timestamps, timestamps[i])
		out.Closes = append(out.Closes, *c)
	}
	return out
}
