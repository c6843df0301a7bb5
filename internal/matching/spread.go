package matching

// span is one cell of the LCS table: the subsequence length and the
// half-open window [begin, end) of s1 it occupies.
type span struct {
	length int
	begin  int
	end    int
}

func (s span) width() int { return s.end - s.begin }

// LCSWindow returns the length of a longest common subsequence of s1 and s2
// and the length of the smallest window of s1 containing one. The length
// says how much of s2 is found in s1, the window how spread out it is.
func LCSWindow(s1, s2 string) (length, window int) {
	a, b := []rune(s1), []rune(s2)

	table := make([][]span, len(a)+1)
	for i := range table {
		table[i] = make([]span, len(b)+1)
	}

	for j, y := range b {
		for i, x := range a {
			right, down := table[i+1][j], table[i][j+1]

			if x != y {
				switch {
				case right.length > down.length:
					table[i+1][j+1] = right
				case down.length > right.length:
					table[i+1][j+1] = down
				case right.width() < down.width():
					table[i+1][j+1] = right
				default:
					table[i+1][j+1] = down
				}
				continue
			}

			diag := table[i][j]
			next := span{length: diag.length + 1, begin: diag.begin, end: i + 1}
			if diag.length == 0 {
				next.begin = i
			}

			if right.length != next.length && down.length != next.length {
				table[i+1][j+1] = next
				continue
			}

			// A neighbour already reaches this length; keep whichever is tighter.
			switch {
			case right.length > down.length:
				if right.width() < next.width() {
					next = right
				}
			case down.length > right.length:
				if down.width() < next.width() {
					next = down
				}
			case right.width() < down.width():
				next = right
			default:
				next = down
			}
			table[i+1][j+1] = next
		}
	}

	last := table[len(a)][len(b)]
	return last.length, last.width()
}

// SpreadRatio works like Ratio but penalizes an LCS spread over a wide
// window of s1: 3*lcs / (len(s1) + len(s2) + window).
func SpreadRatio(s1, s2 string) float64 {
	lcs, window := LCSWindow(s1, s2)
	denominator := len([]rune(s1)) + len([]rune(s2)) + window
	if denominator == 0 {
		return 0
	}
	return float64(3*lcs) / float64(denominator)
}
