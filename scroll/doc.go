// Package scroll implements a bidirectional infinite-scroll window over a
// resource store.
//
// A Window keeps at most MaxPages whole pages in memory. Reaching the tail
// boundary loads the next page and evicts head pages past the bound; reaching
// the head boundary loads the previous page and evicts tail pages. Boundary
// signals come from an Observer, typically a viewport intersection source;
// ManualObserver serves callers without one.
package scroll
