// Package debounce delays a committed value until its input has been quiet
// for a period, as used by the search box of a paged list.
//
// A Debouncer restarts its timer on every Push and commits the latest value
// exactly once when the timer fires. Input layers the visible text of a
// search field on top: Type updates Text immediately and the committed term
// only after the delay, skipping commits equal to the previous one.
package debounce
