package resource

import (
	"github.com/granddizzy/orders/schema"
)

// Reduce applies action to state and returns the next state and whether it
// changed. It never mutates slices reachable from state, so previously
// published snapshots stay valid.
func Reduce[T schema.Entity](state State[T], action Action) (State[T], bool) {
	switch a := action.(type) {
	case Pending:
		if a.Epoch != state.Epoch {
			return state, false
		}
		state.FetchingPage = true
		state.Error = ""
	case Fulfilled[T]:
		if a.Epoch != state.Epoch || a.Page == nil {
			return state, false
		}
		number := a.Number
		if number < 1 {
			number = a.Page.CurrentPage
		}
		state.Items = unique(nil, a.Page.Data)
		state.Spans = []Span{{Page: number, Count: len(state.Items)}}
		state.CurrentPage = number
		state.LastPage = a.Page.LastPage
		state.HasMoreNext = number < a.Page.LastPage
		state.HasMorePrev = number > 1
		state.FetchingPage = false
	case Rejected:
		if a.Epoch != state.Epoch {
			return state, false
		}
		state.FetchingPage = false
		state.Error = a.Err
	case SetSearch:
		if a.Term == state.Search {
			return state, false
		}
		state = invalidate(state)
		state.Search = a.Term
	case SetPageSize:
		if a.Size <= 0 || a.Size == state.PageSize {
			return state, false
		}
		state = invalidate(state)
		state.PageSize = a.Size
	case Clear:
		state = invalidate(state)
	case FetchStarted:
		if a.Epoch != state.Epoch {
			return state, false
		}
		switch a.Direction {
		case DirectionPrevious:
			if state.FetchingPrev || !state.HasMorePrev {
				return state, false
			}
			state.FetchingPrev = true
		default:
			if state.FetchingNext || !state.HasMoreNext {
				return state, false
			}
			state.FetchingNext = true
		}
		state.Error = ""
	case PageLoaded[T]:
		if a.Epoch != state.Epoch || a.Page == nil {
			return state, false
		}
		if a.Direction == DirectionPrevious {
			if len(state.Spans) > 0 && a.Number == state.FirstPage()-1 {
				state = prepend(state, a.Number, a.Page)
			} else {
				// the head moved while the page was in flight
				state.HasMorePrev = state.FirstPage() > 1
			}
			state.FetchingPrev = false
		} else {
			if len(state.Spans) == 0 || a.Number == state.LastLoadedPage()+1 {
				state = appendPage(state, a.Number, a.Page)
			} else {
				state.HasMoreNext = true
			}
			state.FetchingNext = false
		}
	case FetchFailed:
		if a.Epoch != state.Epoch {
			return state, false
		}
		if a.Direction == DirectionPrevious {
			state.FetchingPrev = false
		} else {
			state.FetchingNext = false
		}
		state.Error = a.Err
	case FetchReleased:
		if a.Epoch != state.Epoch {
			return state, false
		}
		if a.Direction == DirectionPrevious {
			state.FetchingPrev = false
			state.HasMorePrev = state.FirstPage() > 1
		} else {
			state.FetchingNext = false
		}
	case EntityLoaded[T]:
		item := a.Item
		state.Current = &item
		state.Error = ""
	case EntitySaved[T]:
		item := a.Item
		items := make([]T, len(state.Items))
		copy(items, state.Items)
		for i := range items {
			if items[i].Key() == item.Key() {
				items[i] = item
			}
		}
		state.Items = items
		if state.Current != nil && (*state.Current).Key() == item.Key() {
			state.Current = &item
		}
		state.Error = ""
	case EntityRemoved:
		state = remove(state, a.Key)
		if state.Current != nil && (*state.Current).Key() == a.Key {
			state.Current = nil
		}
	case Failed:
		state.Error = a.Err
	default:
		return state, false
	}
	state.Loading = state.FetchingNext || state.FetchingPrev || state.FetchingPage
	return state, true
}

func invalidate[T schema.Entity](state State[T]) State[T] {
	state.Epoch++
	state.Items = nil
	state.Spans = nil
	state.CurrentPage = 0
	state.LastPage = 0
	state.HasMoreNext = true
	state.HasMorePrev = false
	state.FetchingNext = false
	state.FetchingPrev = false
	state.FetchingPage = false
	state.Error = ""
	return state
}

// unique returns items whose key is neither in existing nor repeated earlier in items.
func unique[T schema.Entity](existing []T, items []T) []T {
	seen := make(map[int]struct{}, len(existing)+len(items))
	for _, item := range existing {
		seen[item.Key()] = struct{}{}
	}
	ret := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		ret = append(ret, item)
	}
	return ret
}

func appendPage[T schema.Entity](state State[T], number int, page *schema.Page[T]) State[T] {
	wasEmpty := len(state.Spans) == 0
	added := unique(state.Items, page.Data)
	items := make([]T, 0, len(state.Items)+len(added))
	items = append(append(items, state.Items...), added...)
	spans := make([]Span, 0, len(state.Spans)+1)
	spans = append(append(spans, state.Spans...), Span{Page: number, Count: len(added)})

	state.CurrentPage = number
	state.LastPage = page.LastPage
	state.HasMoreNext = number < page.LastPage
	if wasEmpty {
		state.HasMorePrev = number > 1
	}
	evicted := false
	for len(spans) > state.MaxPages {
		items = items[spans[0].Count:]
		spans = spans[1:]
		evicted = true
	}
	if evicted {
		state.HasMorePrev = true
	}
	state.Items = items
	state.Spans = spans
	return state
}

func prepend[T schema.Entity](state State[T], number int, page *schema.Page[T]) State[T] {
	added := unique(state.Items, page.Data)
	items := make([]T, 0, len(state.Items)+len(added))
	items = append(append(items, added...), state.Items...)
	spans := make([]Span, 0, len(state.Spans)+1)
	spans = append(append(spans, Span{Page: number, Count: len(added)}), state.Spans...)

	state.LastPage = page.LastPage
	state.HasMorePrev = number > 1
	evicted := false
	for len(spans) > state.MaxPages {
		last := spans[len(spans)-1]
		items = items[:len(items)-last.Count]
		spans = spans[:len(spans)-1]
		evicted = true
	}
	if evicted {
		state.HasMoreNext = true
		state.CurrentPage = spans[len(spans)-1].Page
	}
	state.Items = items
	state.Spans = spans
	return state
}

func remove[T schema.Entity](state State[T], key int) State[T] {
	index := -1
	for i, item := range state.Items {
		if item.Key() == key {
			index = i
			break
		}
	}
	if index == -1 {
		return state
	}
	items := make([]T, 0, len(state.Items)-1)
	items = append(append(items, state.Items[:index]...), state.Items[index+1:]...)
	spans := make([]Span, len(state.Spans))
	copy(spans, state.Spans)
	offset := 0
	for i := range spans {
		if index < offset+spans[i].Count {
			spans[i].Count--
			break
		}
		offset += spans[i].Count
	}
	state.Items = items
	state.Spans = spans
	return state
}
