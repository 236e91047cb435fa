package status

import (
	"slices"
	"sync"
	"sync/atomic"
)

// MetricMap is a keyed set of metrics of type T
// Pointers returned by Get are stable; callers cache them and update the value in place
type MetricMap[T any] struct {
	items sync.Map // string -> *T
	count atomic.Int32
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the metric for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if v, ok := m.items.Load(key); ok {
		return v.(*T)
	}
	v, loaded := m.items.LoadOrStore(key, new(T))
	if !loaded {
		m.count.Add(1)
	}
	return v.(*T)
}

func (m *MetricMap[T]) Has(key string) bool {
	_, ok := m.items.Load(key)
	return ok
}

// Range visits metrics in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	keys := make([]string, 0, m.Count())
	m.items.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	slices.Sort(keys)
	for _, k := range keys {
		v, _ := m.items.Load(k)
		fn(k, v.(*T))
	}
}

func (m *MetricMap[T]) Count() int {
	return int(m.count.Load())
}
