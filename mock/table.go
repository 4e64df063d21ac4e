package mock

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/granddizzy/orders/schema"
)

// table is an in-memory resource collection ordered by id.
type table[T schema.Entity] struct {
	mu      sync.RWMutex
	items   []T
	nextId  int
	matches func(item T, search string) bool
	setId   func(item T, id int) T
	prepare func(item T) T
}

func newTable[T schema.Entity](matches func(T, string) bool, setId func(T, int) T) *table[T] {
	return &table[T]{matches: matches, setId: setId, nextId: 1}
}

func (t *table[T]) seed(items ...T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range items {
		if item.Key() >= t.nextId {
			t.nextId = item.Key() + 1
		}
		t.items = append(t.items, item)
	}
	sort.Slice(t.items, func(i, j int) bool { return t.items[i].Key() < t.items[j].Key() })
}

func (t *table[T]) page(page, perPage int, search string) *schema.Page[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var filtered []T
	for _, item := range t.items {
		if search == "" || t.matches(item, search) {
			filtered = append(filtered, item)
		}
	}
	total := len(filtered)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	ret := &schema.Page[T]{Data: []T{}, CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
	start := (page - 1) * perPage
	if start >= total {
		return ret
	}
	end := start + perPage
	if end > total {
		end = total
	}
	ret.Data = append(ret.Data, filtered[start:end]...)
	return ret
}

func (t *table[T]) get(id int) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, item := range t.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) create(body []byte) (T, error) {
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return item, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	item = t.setId(item, t.nextId)
	t.nextId++
	if t.prepare != nil {
		item = t.prepare(item)
	}
	t.items = append(t.items, item)
	return item, nil
}

func (t *table[T]) update(id int, body []byte) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.items {
		if existing.Key() != id {
			continue
		}
		data, err := json.Marshal(existing)
		if err != nil {
			return existing, true, err
		}
		var merged map[string]json.RawMessage
		_ = json.Unmarshal(data, &merged)
		var patch map[string]json.RawMessage
		if err = json.Unmarshal(body, &patch); err != nil {
			return existing, true, err
		}
		for k, v := range patch {
			merged[k] = v
		}
		data, _ = json.Marshal(merged)
		var item T
		if err = json.Unmarshal(data, &item); err != nil {
			return existing, true, err
		}
		item = t.setId(item, id)
		if t.prepare != nil {
			item = t.prepare(item)
		}
		t.items[i] = item
		return item, true, nil
	}
	var zero T
	return zero, false, nil
}

func (t *table[T]) replace(item T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.items {
		if existing.Key() == item.Key() {
			t.items[i] = item
			return
		}
	}
}

func (t *table[T]) delete(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.items {
		if existing.Key() == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

func (t *table[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}
