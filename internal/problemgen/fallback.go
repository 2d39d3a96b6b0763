package problemgen

import "github.com/abhisek/codedrill/internal/store"

// fallbackCatalog holds one bundled static problem per difficulty tier,
// used when generation is unavailable or exhausts its attempts.
var fallbackCatalog = map[store.Difficulty]Draft{
	store.Easy: {
		Title: "Sum of Digits",
		Description: "Given a non-negative integer n, return the sum of its decimal digits. " +
			"For example, 1234 has digit sum 1 + 2 + 3 + 4 = 10. " +
			"Your function should handle n = 0 (digit sum 0) and values up to 10^18.",
		Difficulty: store.Easy,
		Category:   "math",
		Tags:       []string{"math", "loops"},
		TestCases: []store.TestCase{
			{Input: "1234", Expected: "10"},
			{Input: "0", Expected: "0"},
			{Input: "999", Expected: "27"},
		},
		Solution: "Repeatedly take n modulo 10 to read the last digit, add it to an " +
			"accumulator, then divide n by 10. Stop when n reaches 0. Runs in O(d) for d digits.",
	},
	store.Medium: {
		Title: "Longest Run of Unique Characters",
		Description: "Given a string s of ASCII characters, return the length of the longest " +
			"contiguous substring that contains no repeated character. " +
			"For s = \"abcabcbb\" the answer is 3 (\"abc\"); for s = \"bbbbb\" it is 1.",
		Difficulty: store.Medium,
		Category:   "strings",
		Tags:       []string{"strings", "sliding-window", "hash-table"},
		TestCases: []store.TestCase{
			{Input: "abcabcbb", Expected: "3"},
			{Input: "bbbbb", Expected: "1"},
			{Input: "pwwkew", Expected: "3"},
			{Input: "", Expected: "0"},
		},
		Solution: "Slide a window [lo, hi) over s keeping the last index of each character. " +
			"When s[hi] was seen inside the window, advance lo past that earlier index. " +
			"Track the maximum window length. O(n) time, O(alphabet) space.",
	},
	store.Hard: {
		Title: "Median of a Running Stream",
		Description: "Design a data structure that accepts integers one at a time and can " +
			"report the median of all values seen so far in O(log n) per insertion. " +
			"The median of an even-sized multiset is the mean of its two middle values. " +
			"Process a sequence of add(x) and median() operations and output each median as a decimal.",
		Difficulty: store.Hard,
		Category:   "data-structures",
		Tags:       []string{"heap", "design", "streaming"},
		TestCases: []store.TestCase{
			{Input: "add 1, add 2, median", Expected: "1.5"},
			{Input: "add 5, add 2, add 8, median", Expected: "5"},
			{Input: "add 3, median, add 1, median", Expected: "3 2"},
		},
		Solution: "Keep two heaps: a max-heap for the lower half and a min-heap for the upper " +
			"half, rebalancing so their sizes differ by at most one. The median is the top of the " +
			"larger heap, or the mean of both tops when sizes are equal.",
	},
}

// FallbackProblem returns a copy of the bundled problem for the tier.
// Unknown tiers map to Medium.
func FallbackProblem(d store.Difficulty) Draft {
	if draft, ok := fallbackCatalog[d]; ok {
		return draft
	}
	return fallbackCatalog[store.Medium]
}
