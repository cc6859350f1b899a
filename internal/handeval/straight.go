package handeval

// straightWindows lists the ten concrete rank windows a 5-card hand's rank
// multiset can match. The first nine are consecutive runs starting at
// 1..9; the tenth is the ace-high run 10-J-Q-K-A, whose low rank is
// reported as 10 rather than 1.
var straightWindows = [10][5]uint8{
	{1, 2, 3, 4, 5},
	{2, 3, 4, 5, 6},
	{3, 4, 5, 6, 7},
	{4, 5, 6, 7, 8},
	{5, 6, 7, 8, 9},
	{6, 7, 8, 9, 10},
	{7, 8, 9, 10, 11},
	{8, 9, 10, 11, 12},
	{9, 10, 11, 12, 13},
	{10, 11, 12, 13, 1},
}

var straightWindowLowRank = [10]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// detectStraight tests the given five ranks (order-free) against each
// window and returns the window's low rank, or 0 if none match.
func detectStraight(ranks [5]uint8) uint8 {
	for w, window := range straightWindows {
		if rankSetEqual(ranks, window) {
			return straightWindowLowRank[w]
		}
	}
	return 0
}

func rankSetEqual(a, b [5]uint8) bool {
	var counts [14]int
	for _, r := range a {
		counts[r]++
	}
	for _, r := range b {
		counts[r]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}
