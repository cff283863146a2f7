package lazy

import "sync"

// Value computes its content on first use and caches it.
type Value[T any] struct {
	once  sync.Once
	value T
	get   func() T
}

func New[T any](get func() T) *Value[T] {
	return &Value[T]{get: get}
}

func (l *Value[T]) Get() T {
	l.once.Do(func() {
		l.value = l.get()
		l.get = nil
	})
	return l.value
}
