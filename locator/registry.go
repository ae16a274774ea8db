// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Registry is the host's locator: it keeps the registered filters and routes
// queries typed in the search bar to them.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// Register adds f under its prefix.
func (r *Registry) Register(f Filter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.filters[f.Prefix()]; ok {
		return fmt.Errorf("a filter with prefix %q is already registered", f.Prefix())
	}

	r.filters[f.Prefix()] = f
	r.order = append(r.order, f.Prefix())

	return nil
}

// Deregister removes f. Unknown filters are ignored.
func (r *Registry) Deregister(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filters[f.Prefix()] != f {
		return
	}

	delete(r.filters, f.Prefix())

	for i, p := range r.order {
		if p == f.Prefix() {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}
}

// Lookup returns the filter registered under prefix.
func (r *Registry) Lookup(prefix string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.filters[prefix]

	return f, ok
}

// Filters returns the registered filters in registration order.
func (r *Registry) Filters() []Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filters := make([]Filter, 0, len(r.order))
	for _, p := range r.order {
		filters = append(filters, r.filters[p])
	}

	return filters
}

// Dispatch runs text through the filters. "<prefix> <query>" targets a single
// filter; any other text goes to every filter. Each filter runs on a fresh
// clone in its own goroutine, and feedback calls are serialized.
func (r *Registry) Dispatch(ctx context.Context, text string, feedback Feedback) {
	text = strings.TrimSpace(text)

	var targets []Filter

	if prefix, query, ok := strings.Cut(text, " "); ok {
		if f, found := r.Lookup(prefix); found {
			targets = []Filter{f}
			text = strings.TrimSpace(query)
		}
	}

	if targets == nil {
		targets = r.Filters()
	}

	serialized := &lockedFeedback{target: feedback}

	var wg sync.WaitGroup

	for _, f := range targets {
		wg.Add(1)

		go func(f Filter) {
			defer wg.Done()

			f.Clone().FetchResults(ctx, text, serialized)
		}(f)
	}

	wg.Wait()
}

type lockedFeedback struct {
	mu     sync.Mutex
	target Feedback
}

func (l *lockedFeedback) ResultFetched(result Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.target.ResultFetched(result)
}

func (l *lockedFeedback) ResultProblem(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.target.ResultProblem(message)
}
