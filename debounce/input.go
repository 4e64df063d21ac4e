package debounce

import (
	"strings"
	"sync"
)

// Input binds the visible text of a search field to a debounced search term.
type Input struct {
	mu        sync.Mutex
	text      string
	committed string
	debouncer *Debouncer[string]
	onCommit  func(term string) bool
}

// Type updates the visible text and schedules a commit of its trimmed value.
func (i *Input) Type(text string) {
	i.mu.Lock()
	i.text = text
	i.mu.Unlock()
	i.debouncer.Push(strings.TrimSpace(text))
}

// Text returns the visible text.
func (i *Input) Text() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.text
}

// Committed returns the last committed term.
func (i *Input) Committed() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.committed
}

// Flush commits the pending term now.
func (i *Input) Flush() bool {
	return i.debouncer.Flush()
}

// Resubmit schedules the visible text again when it differs from the
// committed term.
func (i *Input) Resubmit() {
	term := strings.TrimSpace(i.Text())
	if term == i.Committed() {
		return
	}
	i.debouncer.Push(term)
}

// Close cancels the pending commit.
func (i *Input) Close() {
	i.debouncer.Close()
}

func (i *Input) commit(term string) {
	if term == i.Committed() {
		return
	}
	if !i.onCommit(term) {
		return
	}
	i.mu.Lock()
	i.committed = term
	i.mu.Unlock()
}

// NewInput creates an input calling onCommit with each new term. initial is
// the already committed term. A term is committed only when onCommit
// returns true.
func NewInput(initial string, onCommit func(term string) bool, opts ...Option) *Input {
	ret := &Input{text: initial, committed: initial, onCommit: onCommit}
	ret.debouncer = New[string](ret.commit, opts...)
	return ret
}
