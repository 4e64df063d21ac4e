package schema

// Entity is implemented by every resource item kept in a store.
type Entity interface {
	Key() int
}

// Keys returns item keys in order.
func Keys[T Entity](items []T) []int {
	ret := make([]int, len(items))
	for i, item := range items {
		ret[i] = item.Key()
	}
	return ret
}
