package card

import "sort"

type CardList []Card

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

// Shuffle permutes the list with the provided swap-based shuffler (rand.Shuffle compatible).
func (ds CardList) Shuffle(shuffle func(n int, swap func(i, j int))) {
	shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// RemoveAt removes and returns the card at idx.
func (ds *CardList) RemoveAt(idx int) (Card, bool) {
	if idx < 0 || idx >= len(*ds) {
		return CardEmpty, false
	}
	c := (*ds)[idx]
	*ds = append((*ds)[:idx:idx], (*ds)[idx+1:]...)
	return c, true
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

// Clone returns an independent copy; nil stays nil.
func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// SortedByOrder returns a copy ordered weakest first.
func (ds CardList) SortedByOrder() CardList {
	out := ds.Clone()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out
}

// Strongest returns the index of the highest-order card, -1 when empty.
func (ds CardList) Strongest() int {
	best := -1
	for i, c := range ds {
		if best < 0 || c.Order() > ds[best].Order() {
			best = i
		}
	}
	return best
}

// Weakest returns the index of the lowest-order card, -1 when empty.
func (ds CardList) Weakest() int {
	best := -1
	for i, c := range ds {
		if best < 0 || c.Order() < ds[best].Order() {
			best = i
		}
	}
	return best
}
