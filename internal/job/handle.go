package job

import "errors"

// Handle is a completion token for a scheduled job. Once IsCompleted reports
// true every write made by the job is visible to the caller. The zero Handle
// represents work that has already finished.
type Handle struct {
	st *state
}

type state struct {
	done chan struct{}
	err  error
}

func newHandle() (Handle, *state) {
	st := &state{done: make(chan struct{})}
	return Handle{st: st}, st
}

func (s *state) finish(err error) {
	s.err = err
	close(s.done)
}

// IsCompleted polls the job without blocking.
func (h Handle) IsCompleted() bool {
	if h.st == nil {
		return true
	}
	select {
	case <-h.st.done:
		return true
	default:
		return false
	}
}

// Complete blocks until the job has finished and returns its error.
func (h Handle) Complete() error {
	if h.st == nil {
		return nil
	}
	<-h.st.done
	return h.st.err
}

// Err returns the job's error once it has completed. A running job reports nil.
func (h Handle) Err() error {
	if !h.IsCompleted() || h.st == nil {
		return nil
	}
	return h.st.err
}

func (h Handle) wait() {
	if h.st != nil {
		<-h.st.done
	}
}

// Combine returns a handle that completes once every input handle has
// completed. Its error joins the errors of the inputs.
func Combine(handles ...Handle) Handle {
	pending := make([]Handle, 0, len(handles))
	for _, h := range handles {
		if h.st != nil {
			pending = append(pending, h)
		}
	}
	switch len(pending) {
	case 0:
		return Handle{}
	case 1:
		return pending[0]
	}
	h, st := newHandle()
	go func() {
		var errs []error
		for _, p := range pending {
			if err := p.Complete(); err != nil {
				errs = append(errs, err)
			}
		}
		st.finish(errors.Join(errs...))
	}()
	return h
}
