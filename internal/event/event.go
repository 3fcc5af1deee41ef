// Package event provides a synchronous multi-cast notification.
package event

// Event fans one value out to its listeners. Listeners run on the caller's
// goroutine, in subscription order. The zero value is ready to use.
type Event[T any] struct {
	listeners []func(T)
}

// Subscribe adds fn. Nil listeners are ignored.
func (e *Event[T]) Subscribe(fn func(T)) {
	if fn == nil {
		return
	}
	e.listeners = append(e.listeners, fn)
}

func (e *Event[T]) Emit(v T) {
	for _, fn := range e.listeners {
		fn(v)
	}
}
