package handles

import "weak"

// probe is the registry's view of one handle. The handle is referenced
// weakly so tracking never becomes the reason a leaked handle stays
// reachable; the life record is referenced strongly so liveness stays
// answerable after the handle is collected.
type probe[T any] struct {
	ref  weak.Pointer[T]
	life *life
}

func newProbe[T any](h *T, l *life) probe[T] {
	return probe[T]{ref: weak.Make(h), life: l}
}

// Alive reports whether the handle has not been collected yet.
func (p probe[T]) Alive() bool { return p.ref.Value() != nil }

// HasRef reports whether the handle still keeps the process running.
func (p probe[T]) HasRef() bool { return p.Alive() && p.life.hasRef() }
