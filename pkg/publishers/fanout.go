package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// KindFilter is implemented by publishers that only take some event kinds.
type KindFilter interface {
	Accepts(kind string) bool
}

// Fanout dispatches events to all configured publishers.
type Fanout struct {
	publishers []Publisher
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{publishers: cp}
}

// Publish forwards the event to every publisher accepting its kind and
// returns how many delivered it.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, p := range f.publishers {
		if kf, ok := p.(KindFilter); ok && !kf.Accepts(evt.Kind) {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s] %s event %s: %w", p.Type(), p.ID(), evt.Kind, evt.ID, err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers holding client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// filtered restricts a publisher to the event kinds listed in its config.
type filtered struct {
	Publisher
	kinds map[string]struct{}
}

func withKinds(p Publisher, kinds []string) Publisher {
	if len(kinds) == 0 {
		return p
	}
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return &filtered{Publisher: p, kinds: set}
}

func (f *filtered) Accepts(kind string) bool {
	_, ok := f.kinds[kind]
	return ok
}

func (f *filtered) Close() error {
	if c, ok := f.Publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
