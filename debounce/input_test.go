package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInput_Type(t *testing.T) {
	testCases := []struct {
		description string
		initial     string
		typed       []string
		expect      []string
	}{
		{description: "fast typing commits last term once", typed: []string{"a", "ab", "abc"}, expect: []string{"abc"}},
		{description: "unchanged term is not committed", initial: "desk", typed: []string{"des", "desk "}, expect: nil},
		{description: "cleared term is committed", initial: "desk", typed: []string{""}, expect: []string{""}},
	}
	for _, testCase := range testCases {
		clock := NewManualClock(time.Unix(0, 0))
		var committed []string
		input := NewInput(testCase.initial, func(term string) bool {
			committed = append(committed, term)
			return true
		}, WithClock(clock))
		for _, text := range testCase.typed {
			input.Type(text)
			assert.Equal(t, text, input.Text(), testCase.description)
			clock.Advance(100 * time.Millisecond)
		}
		clock.Advance(DefaultDelay)
		assert.Equal(t, testCase.expect, committed, testCase.description)
	}
}

func TestInput_Close(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var committed []string
	input := NewInput("", func(term string) bool {
		committed = append(committed, term)
		return true
	}, WithClock(clock))
	input.Type("chair")
	input.Close()
	clock.Advance(2 * DefaultDelay)
	assert.Empty(t, committed)
	assert.Equal(t, "", input.Committed())
}

func TestInput_Rejected(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	accept := false
	var committed []string
	input := NewInput("", func(term string) bool {
		if !accept {
			return false
		}
		committed = append(committed, term)
		return true
	}, WithClock(clock))

	input.Type("lamp")
	clock.Advance(DefaultDelay)
	assert.Empty(t, committed)
	assert.Equal(t, "", input.Committed(), "rejected term is not committed")

	accept = true
	input.Type("lamp")
	clock.Advance(DefaultDelay)
	assert.Equal(t, []string{"lamp"}, committed, "same term is retried after a rejection")
	assert.Equal(t, "lamp", input.Committed())

	input.Resubmit()
	clock.Advance(DefaultDelay)
	assert.Equal(t, []string{"lamp"}, committed, "resubmit of the committed term does nothing")
}
