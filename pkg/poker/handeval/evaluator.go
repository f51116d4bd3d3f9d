package handeval

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"agentpoker-server/pkg/deck"
)

// ErrInvalidCardCount is an error when Evaluate is called with fewer than 5 or more than 7 cards
var ErrInvalidCardCount = errors.New("evaluate requires between 5 and 7 cards")

// Result is the ranking of the best five-card hand within a set of cards.
// Kickers is the ordered tie-break array: rank groups sorted first by
// multiplicity (descending), then by rank (descending), flattened.
type Result struct {
	Hand    Hand  `json:"hand"`
	Kickers []int `json:"kickers"`
}

func (r *Result) String() string {
	return r.Hand.String()
}

// Compare returns a negative number if r is weaker than other, a positive
// number if stronger, and 0 only for a genuine tie (identical category and
// kickers).
func (r *Result) Compare(other *Result) int {
	if r.Hand != other.Hand {
		return int(r.Hand) - int(other.Hand)
	}

	for i := 0; i < len(r.Kickers) && i < len(other.Kickers); i++ {
		if r.Kickers[i] != other.Kickers[i] {
			return r.Kickers[i] - other.Kickers[i]
		}
	}

	return len(r.Kickers) - len(other.Kickers)
}

// Strength packs the result into a single comparable integer.
// Kickers never reach 15, so base-15 positional packing preserves the
// Compare() ordering.
func (r *Result) Strength() int {
	kickers := make([]int, 5)
	copy(kickers, r.Kickers)

	strength := int(math.Pow(15, 5)) * int(r.Hand)
	for i := 0; i < 5; i++ {
		strength += int(math.Pow(15, float64(4-i))) * kickers[i]
	}

	return strength
}

// Evaluate returns the best five-card ranking the cards can make.
// Accepts 5 to 7 cards and scores every five-card subset (at most C(7,5)=21).
func Evaluate(cards []*deck.Card) (*Result, error) {
	n := len(cards)
	if n < 5 || n > 7 {
		return nil, ErrInvalidCardCount
	}

	var best *Result
	five := make([]*deck.Card, 5)
	forEachFiveCardSubset(cards, five, func() {
		result := evaluateFive(five)
		if best == nil || result.Compare(best) > 0 {
			best = result
		}
	})

	return best, nil
}

// forEachFiveCardSubset calls fn once for every five-card subset of cards,
// with the subset placed in five
func forEachFiveCardSubset(cards []*deck.Card, five []*deck.Card, fn func()) {
	n := len(cards)
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == 5 {
			fn()
			return
		}

		for i := start; i <= n-(5-depth); i++ {
			five[depth] = cards[i]
			choose(i+1, depth+1)
		}
	}

	choose(0, 0)
}

// evaluateFive ranks exactly five cards
func evaluateFive(five []*deck.Card) *Result {
	if len(five) != 5 {
		panic(fmt.Sprintf("evaluateFive requires 5 cards, got %d", len(five)))
	}

	ranks := make([]int, 5)
	isFlush := true
	for i, card := range five {
		ranks[i] = card.Rank
		if card.Suit != five[0].Suit {
			isFlush = false
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	straightHigh := straightHighCard(ranks)

	if isFlush && straightHigh > 0 {
		if straightHigh == deck.Ace {
			// no kickers; every royal flush ties
			return &Result{Hand: RoyalFlush}
		}

		return &Result{Hand: StraightFlush, Kickers: []int{straightHigh}}
	}

	kickers := groupedKickers(ranks)

	counts := rankCounts(ranks)
	switch {
	case counts[0] == 4:
		return &Result{Hand: FourOfAKind, Kickers: kickers}
	case counts[0] == 3 && counts[1] == 2:
		return &Result{Hand: FullHouse, Kickers: kickers}
	case isFlush:
		return &Result{Hand: Flush, Kickers: ranks}
	case straightHigh > 0:
		return &Result{Hand: Straight, Kickers: []int{straightHigh}}
	case counts[0] == 3:
		return &Result{Hand: ThreeOfAKind, Kickers: kickers}
	case counts[0] == 2 && counts[1] == 2:
		return &Result{Hand: TwoPair, Kickers: kickers}
	case counts[0] == 2:
		return &Result{Hand: OnePair, Kickers: kickers}
	}

	return &Result{Hand: HighCard, Kickers: ranks}
}

// straightHighCard returns the high card of a straight made from the five
// descending ranks, or 0 if they do not form one. The wheel (A-2-3-4-5)
// counts with a high card of 5.
func straightHighCard(ranks []int) int {
	straight := true
	for i := 1; i < 5; i++ {
		if ranks[i] != ranks[0]-i {
			straight = false
			break
		}
	}

	if straight {
		return ranks[0]
	}

	// wheel: ace plays low under the 5-4-3-2
	if ranks[0] == deck.Ace && ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2 {
		return 5
	}

	return 0
}

// rankCounts returns the sizes of the rank groups, largest first
func rankCounts(ranks []int) []int {
	byRank := make(map[int]int)
	for _, rank := range ranks {
		byRank[rank]++
	}

	counts := make([]int, 0, len(byRank))
	for _, count := range byRank {
		counts = append(counts, count)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	return counts
}

// groupedKickers flattens the rank groups into the tie-break array:
// groups ordered by multiplicity descending then rank descending, one entry
// per group
func groupedKickers(ranks []int) []int {
	byRank := make(map[int]int)
	for _, rank := range ranks {
		byRank[rank]++
	}

	type group struct {
		rank  int
		count int
	}

	groups := make([]group, 0, len(byRank))
	for rank, count := range byRank {
		groups = append(groups, group{rank: rank, count: count})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}

		return groups[i].rank > groups[j].rank
	})

	kickers := make([]int, len(groups))
	for i, g := range groups {
		kickers[i] = g.rank
	}

	return kickers
}
