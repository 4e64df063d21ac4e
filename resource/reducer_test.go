package resource

import (
	"testing"

	"github.com/granddizzy/orders/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Id   int
	Name string
}

func (i item) Key() int { return i.Id }

func pageOf(number, last int, ids ...int) *schema.Page[item] {
	ret := &schema.Page[item]{CurrentPage: number, LastPage: last}
	for _, id := range ids {
		ret.Data = append(ret.Data, item{Id: id})
	}
	return ret
}

func TestReduce_PageBased(t *testing.T) {
	state := NewState[item](2, 3)

	state, changed := Reduce(state, Pending{Epoch: state.Epoch})
	require.True(t, changed)
	assert.True(t, state.Loading)
	assert.True(t, state.FetchingPage)

	state, changed = Reduce(state, Fulfilled[item]{Epoch: state.Epoch, Number: 2, Page: pageOf(2, 4, 3, 4)})
	require.True(t, changed)
	assert.False(t, state.Loading)
	assert.Equal(t, []int{3, 4}, schema.Keys(state.Items))
	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, 4, state.LastPage)
	assert.True(t, state.HasMoreNext)
	assert.True(t, state.HasMorePrev)

	state, _ = Reduce(state, Pending{Epoch: state.Epoch})
	state, changed = Reduce(state, Rejected{Epoch: state.Epoch, Err: "boom"})
	require.True(t, changed)
	assert.False(t, state.Loading)
	assert.Equal(t, "boom", state.Error)
	assert.Equal(t, []int{3, 4}, schema.Keys(state.Items), "rejection keeps items")
}

func TestReduce_SetSearch(t *testing.T) {
	testCases := []struct {
		description string
		term        string
		changed     bool
	}{
		{description: "same term is a no-op", term: "", changed: false},
		{description: "new term invalidates", term: "desk", changed: true},
	}
	for _, testCase := range testCases {
		state := NewState[item](2, 3)
		state, _ = Reduce(state, Fulfilled[item]{Number: 1, Page: pageOf(1, 2, 1, 2)})
		next, changed := Reduce(state, SetSearch{Term: testCase.term})
		assert.Equal(t, testCase.changed, changed, testCase.description)
		if !changed {
			assert.Equal(t, state.Epoch, next.Epoch, testCase.description)
			continue
		}
		assert.Equal(t, state.Epoch+1, next.Epoch, testCase.description)
		assert.Empty(t, next.Items, testCase.description)
		assert.Empty(t, next.Spans, testCase.description)
		assert.True(t, next.HasMoreNext, testCase.description)
		assert.False(t, next.HasMorePrev, testCase.description)
		assert.Equal(t, testCase.term, next.Search, testCase.description)
	}
}

func TestReduce_SetPageSize(t *testing.T) {
	state := NewState[item](20, 3)
	_, changed := Reduce(state, SetPageSize{Size: 0})
	assert.False(t, changed)
	_, changed = Reduce(state, SetPageSize{Size: 20})
	assert.False(t, changed)
	next, changed := Reduce(state, SetPageSize{Size: 5})
	assert.True(t, changed)
	assert.Equal(t, 5, next.PageSize)
	assert.Equal(t, state.Epoch+1, next.Epoch)
}

func TestReduce_Window(t *testing.T) {
	state := NewState[item](2, 2)

	state, changed := Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	require.True(t, changed)
	assert.True(t, state.FetchingNext)
	assert.True(t, state.Loading)
	_, changed = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	assert.False(t, changed, "second claim while fetching is rejected")

	state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 1, Page: pageOf(1, 3, 1, 2)})
	assert.False(t, state.FetchingNext)
	assert.False(t, state.HasMorePrev)
	state, _ = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 2, Page: pageOf(2, 3, 2, 3, 4)})
	assert.Equal(t, []int{1, 2, 3, 4}, schema.Keys(state.Items), "duplicate key filtered")
	assert.Equal(t, []Span{{Page: 1, Count: 2}, {Page: 2, Count: 2}}, state.Spans)

	state, _ = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 3, Page: pageOf(3, 3, 5, 6)})
	assert.Equal(t, []int{3, 4, 5, 6}, schema.Keys(state.Items))
	assert.Equal(t, 2, state.FirstPage())
	assert.Equal(t, 3, state.LastLoadedPage())
	assert.True(t, state.HasMorePrev, "head eviction opens previous")
	assert.False(t, state.HasMoreNext)

	_, changed = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	assert.False(t, changed, "no claim past the last page")

	state, changed = Reduce(state, FetchStarted{Direction: DirectionPrevious, Epoch: state.Epoch})
	require.True(t, changed)
	state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionPrevious, Epoch: state.Epoch, Number: 1, Page: pageOf(1, 3, 1, 2)})
	assert.Equal(t, []int{1, 2, 3, 4}, schema.Keys(state.Items))
	assert.False(t, state.HasMorePrev)
	assert.True(t, state.HasMoreNext, "tail eviction opens next")
	assert.Equal(t, 2, state.CurrentPage)
	assert.False(t, state.Loading)
}

func TestReduce_StaleEpoch(t *testing.T) {
	state := NewState[item](2, 3)
	state, _ = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	stale := state.Epoch
	state, _ = Reduce(state, SetSearch{Term: "x"})
	state, changed := Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	require.True(t, changed)

	_, changed = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: stale, Number: 1, Page: pageOf(1, 1, 1)})
	assert.False(t, changed)
	_, changed = Reduce(state, FetchFailed{Direction: DirectionNext, Epoch: stale, Err: "late"})
	assert.False(t, changed, "stale failure cannot clear the new flag")
	assert.True(t, state.FetchingNext)
}

func TestReduce_NonAdjacentPage(t *testing.T) {
	// window holds pages 2 and 3 of 5
	window := func() State[item] {
		state := NewState[item](2, 2)
		state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 2, Page: pageOf(2, 5, 21, 22)})
		state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 3, Page: pageOf(3, 5, 31, 32)})
		return state
	}
	testCases := []struct {
		description string
		action      PageLoaded[item]
		expectSpans []Span
		expectKeys  []int
		expectNext  bool
		expectPrev  bool
	}{
		{
			description: "adjacent next page is appended",
			action:      PageLoaded[item]{Direction: DirectionNext, Number: 4, Page: pageOf(4, 5, 41, 42)},
			expectSpans: []Span{{Page: 3, Count: 2}, {Page: 4, Count: 2}},
			expectKeys:  []int{31, 32, 41, 42},
			expectNext:  true,
			expectPrev:  true,
		},
		{
			description: "next page past a gap is dropped",
			action:      PageLoaded[item]{Direction: DirectionNext, Number: 5, Page: pageOf(5, 5, 51, 52)},
			expectSpans: []Span{{Page: 2, Count: 2}, {Page: 3, Count: 2}},
			expectKeys:  []int{21, 22, 31, 32},
			expectNext:  true,
			expectPrev:  true,
		},
		{
			description: "adjacent previous page is prepended",
			action:      PageLoaded[item]{Direction: DirectionPrevious, Number: 1, Page: pageOf(1, 5, 11, 12)},
			expectSpans: []Span{{Page: 1, Count: 2}, {Page: 2, Count: 2}},
			expectKeys:  []int{11, 12, 21, 22},
			expectNext:  true,
			expectPrev:  false,
		},
		{
			description: "previous page overlapping the window is dropped",
			action:      PageLoaded[item]{Direction: DirectionPrevious, Number: 2, Page: pageOf(2, 5, 21, 22)},
			expectSpans: []Span{{Page: 2, Count: 2}, {Page: 3, Count: 2}},
			expectKeys:  []int{21, 22, 31, 32},
			expectNext:  true,
			expectPrev:  true,
		},
	}
	for _, testCase := range testCases {
		state := window()
		loaded := testCase.action
		loaded.Epoch = state.Epoch
		state, changed := Reduce(state, FetchStarted{Direction: loaded.Direction, Epoch: state.Epoch})
		require.True(t, changed, testCase.description)
		state, changed = Reduce(state, loaded)
		require.True(t, changed, testCase.description)
		assert.Equal(t, testCase.expectSpans, state.Spans, testCase.description)
		assert.Equal(t, testCase.expectKeys, schema.Keys(state.Items), testCase.description)
		assert.Equal(t, testCase.expectNext, state.HasMoreNext, testCase.description)
		assert.Equal(t, testCase.expectPrev, state.HasMorePrev, testCase.description)
		assert.False(t, state.FetchingNext, testCase.description)
		assert.False(t, state.FetchingPrev, testCase.description)
		assert.False(t, state.Loading, testCase.description)
	}
}

func TestReduce_FetchReleased(t *testing.T) {
	state := NewState[item](2, 3)
	state, _ = Reduce(state, FetchStarted{Direction: DirectionNext, Epoch: state.Epoch})
	state, _ = Reduce(state, PageLoaded[item]{Direction: DirectionNext, Epoch: state.Epoch, Number: 1, Page: pageOf(1, 3, 1, 2)})
	state, _ = Reduce(state, Failed{Err: "save failed"})
	state.HasMorePrev = true
	state, changed := Reduce(state, FetchStarted{Direction: DirectionPrevious, Epoch: state.Epoch})
	require.True(t, changed)

	state, changed = Reduce(state, FetchReleased{Direction: DirectionPrevious, Epoch: state.Epoch})
	require.True(t, changed)
	assert.False(t, state.FetchingPrev)
	assert.False(t, state.HasMorePrev, "no page before the first")
	assert.False(t, state.Loading)
	assert.Equal(t, "save failed", state.Error, "release keeps the error")

	_, changed = Reduce(state, FetchReleased{Direction: DirectionNext, Epoch: state.Epoch - 1})
	assert.False(t, changed)
}

func TestReduce_Entities(t *testing.T) {
	state := NewState[item](2, 3)
	state, _ = Reduce(state, Fulfilled[item]{Number: 1, Page: pageOf(1, 1, 1, 2, 3)})
	before := state.Items

	state, _ = Reduce(state, EntitySaved[item]{Item: item{Id: 2, Name: "renamed"}})
	assert.Equal(t, "renamed", state.Items[1].Name)
	assert.Equal(t, "", before[1].Name, "published snapshot untouched")

	state, _ = Reduce(state, EntityLoaded[item]{Item: item{Id: 3}})
	require.NotNil(t, state.Current)

	state, _ = Reduce(state, EntityRemoved{Key: 3})
	assert.Equal(t, []int{1, 2}, schema.Keys(state.Items))
	assert.Equal(t, 2, state.Spans[0].Count)
	assert.Nil(t, state.Current)

	state, _ = Reduce(state, Failed{Err: "nope"})
	assert.Equal(t, "nope", state.Error)
}
