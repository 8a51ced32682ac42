package textclean

// maxRepeatUnit bounds the period hasRepeat looks for, keeping it linear in
// message length. A block longer than this repeated back to back is not flagged
const maxRepeatUnit = 256

// hasRepeat reports whether some substring of minUnit..maxRepeatUnit runes occurs
// minCount or more times back to back. A block of period L repeated k times
// shows up as (k-1)*L consecutive positions where r[j] == r[j+L]
func hasRepeat(s string, minUnit, minCount int) bool {
	r := []rune(s)
	n := len(r)
	for l := minUnit; l <= maxRepeatUnit && l*minCount <= n; l++ {
		need := (minCount - 1) * l
		run := 0
		for j := 0; j+l < n; j++ {
			if r[j] != r[j+l] {
				run = 0
				continue
			}
			run++
			if run >= need {
				return true
			}
		}
	}
	return false
}
