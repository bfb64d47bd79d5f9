package utils

// Percentage returns done/total as 0..100. An unknown total (<= 0) yields 0.
func Percentage(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(done) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
