package handles

// Task tracks a goroutine from its start until its function returns.
type Task struct {
	done chan struct{}
	*life
}

// Go runs f in a new goroutine. The task counts as keeping the process
// running until f returns; use Unref for goroutines that should not.
func Go(f func()) *Task {
	h := &Task{done: make(chan struct{}), life: &life{}}
	register(TypeTask, h, h.life)
	go func() {
		defer func() {
			deregister(h.life)
			close(h.done)
		}()
		f()
	}()
	return h
}

// Wait blocks until the task's function has returned.
func (t *Task) Wait() {
	<-t.done
}

// Done returns a channel that is closed when the task's function has
// returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
