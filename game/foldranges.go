package game

// foldRangeKey identifies one of the nine hardcoded preflop fold tables by
// acting seat and the shape of the action history so far this round.
type foldRangeKey struct {
	seat    int
	history string
}

// History signatures used to key the fold tables. "unopened" is the first
// decision at a seat with no prior raise; "vs_one_raise" faces exactly one
// raise; "vs_two_raises" faces two or more raises (effectively an all-in
// restatement in a three-handed 15 BB pot).
const (
	historyUnopened    = "unopened"
	historyVsOneRaise  = "vs_one_raise"
	historyVsTwoRaises = "vs_two_raises"
)

// foldRanges maps each (seat, history) pair to the set of PreflopClass
// notations ("72o", "K9s", ...) that fold outright rather than reach
// LegalActions. Seat 0 is the small blind, seat 1 is the big blind and
// closes the preflop round (has seen the button's and the small blind's
// action and any raises), seat 2 is the button and acts first. Entries are
// deduplicated: a class listed by an earlier, looser table is simply
// redundant in a stricter one and is still only stored once per key.
var foldRanges = buildFoldRanges()

func buildFoldRanges() map[foldRangeKey]map[string]struct{} {
	tables := map[foldRangeKey][]string{
		{2, historyUnopened}: weakestClasses(40),
		{0, historyUnopened}: weakestClasses(45),
		{1, historyUnopened}: nil, // big blind always has a walk option, never folds unopened

		{2, historyVsOneRaise}: weakestClasses(110),
		{0, historyVsOneRaise}: weakestClasses(120),
		{1, historyVsOneRaise}: weakestClasses(115),

		{2, historyVsTwoRaises}: weakestClasses(145),
		{0, historyVsTwoRaises}: weakestClasses(150),
		{1, historyVsTwoRaises}: weakestClasses(148),
	}

	out := make(map[foldRangeKey]map[string]struct{}, len(tables))
	for key, classes := range tables {
		set := make(map[string]struct{}, len(classes))
		for _, c := range classes {
			set[c] = struct{}{}
		}
		out[key] = set
	}
	return out
}

// shouldFold reports whether the given preflop class is in seat's fold
// table for the given history signature.
func shouldFold(seat int, history string, class string) bool {
	set, ok := foldRanges[foldRangeKey{seat, history}]
	if !ok {
		return false
	}
	_, fold := set[class]
	return fold
}

// classOrder ranks all 169 preflop classes from strongest (0) to weakest,
// grouped by high card from ace down: within each group the pocket pair
// comes first, then the suited combos by descending kicker, then the
// offsuit combos by descending kicker.
var classOrder = buildClassOrder()

func buildClassOrder() []string {
	letters := "23456789TJQKA"
	var order []string
	for hi := len(letters) - 1; hi >= 0; hi-- {
		order = append(order, string(letters[hi])+string(letters[hi]))
		for lo := hi - 1; lo >= 0; lo-- {
			order = append(order, string(letters[hi])+string(letters[lo])+"s")
		}
		for lo := hi - 1; lo >= 0; lo-- {
			order = append(order, string(letters[hi])+string(letters[lo])+"o")
		}
	}
	return order
}

// weakestClasses returns the n weakest preflop classes by classOrder, used
// to build a fold table: every class NOT in the returned set is strong
// enough to continue.
func weakestClasses(n int) []string {
	if n > len(classOrder) {
		n = len(classOrder)
	}
	return append([]string{}, classOrder[len(classOrder)-n:]...)
}
