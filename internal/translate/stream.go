package translate

import "context"

// Event is one step of a streamed attempt: a fragment, or the final result
// when Done is set.
type Event struct {
	Gen      uint64
	Fragment string
	Done     bool
	Err      error
}

// Stream runs the attempt in its own goroutine and delivers its events, in
// order, on the returned channel. The channel is closed after the Done
// event. The request is never cancelled by a later edit; ctx only ends it
// when the program shuts down.
func Stream(ctx context.Context, s Streamer, a Attempt) <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		err := s.StreamTranslate(ctx, a.Text, a.Source, a.Target, func(fragment string) {
			if fragment == "" {
				return
			}
			ch <- Event{Gen: a.Gen, Fragment: fragment}
		})
		ch <- Event{Gen: a.Gen, Done: true, Err: err}
	}()
	return ch
}
