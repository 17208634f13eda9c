package search

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ifn-backend/pkg/utils"
)

// Debounced runs searches for a live search box. Typing restarts the timer;
// only the last term of a burst is searched. Clearing the box publishes an
// empty result right away, and Submit searches without waiting.
type Debounced struct {
	mu         sync.Mutex
	searcher   *Searcher
	clock      utils.Clock
	window     time.Duration
	publish    func(Results)
	onError    func(error)
	timer      utils.Timer
	generation uint64
}

// NewDebounced wraps a searcher. publish receives every result; onError may be nil.
func NewDebounced(searcher *Searcher, clock utils.Clock, window time.Duration, publish func(Results), onError func(error)) *Debounced {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Debounced{searcher: searcher, clock: clock, window: window, publish: publish, onError: onError}
}

// Input handles a keystroke in the search box
func (d *Debounced) Input(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()

	term := strings.TrimSpace(text)
	switch {
	case utf8.RuneCountInString(term) >= d.searcher.MinChars():
		gen := d.generation
		d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen, term) })
	case term == "":
		d.publish(Results{Groups: []Group{}})
	}
}

// Submit searches immediately, as pressing Enter does
func (d *Debounced) Submit(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()

	term := strings.TrimSpace(text)
	if utf8.RuneCountInString(term) < d.searcher.MinChars() {
		return
	}
	d.run(term)
}

// Close cancels any pending search
func (d *Debounced) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancel()
}

func (d *Debounced) fire(gen uint64, term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation {
		return
	}
	d.timer = nil
	d.run(term)
}

func (d *Debounced) run(term string) {
	res, err := d.searcher.Search(term)
	if err != nil {
		d.onError(err)
		return
	}
	d.publish(res)
}

func (d *Debounced) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
