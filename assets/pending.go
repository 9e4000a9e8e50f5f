package assets

import "context"

type result struct {
	model *Model
	err   error
}

// Pending is an in-flight model load. The frame loop polls it; it never
// blocks.
type Pending struct {
	path  string
	ch    chan result
	done  bool
	model *Model
	err   error
}

// LoadAsync starts loading path on its own goroutine.
func (l *Loader) LoadAsync(ctx context.Context, path string) *Pending {
	p := &Pending{path: path, ch: make(chan result, 1)}
	go func() {
		m, err := l.LoadModel(ctx, path)
		p.ch <- result{model: m, err: err}
	}()
	return p
}

// Ready wraps an already available model, e.g. a primitive.
func Ready(m *Model) *Pending {
	return &Pending{done: true, model: m}
}

// Poll reports whether the load finished, and with what.
func (p *Pending) Poll() (*Model, bool, error) {
	if !p.done {
		select {
		case r := <-p.ch:
			p.done, p.model, p.err = true, r.model, r.err
		default:
		}
	}
	return p.model, p.done, p.err
}

// Wait blocks until the load finishes. Intended for startup and tests.
func (p *Pending) Wait(ctx context.Context) (*Model, error) {
	if p.done {
		return p.model, p.err
	}
	select {
	case r := <-p.ch:
		p.done, p.model, p.err = true, r.model, r.err
		return p.model, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pending) Path() string {
	return p.path
}
