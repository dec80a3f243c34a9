// Package metrics exposes lightweight counters for the server's SSE
// surface via expvar, adapting the teacher's StreamingMetrics struct (which
// tracked connection/event counts behind a mutex) into atomic expvar
// counters published at /debug/vars rather than a metrics-client push
// target — this engine has no corpus-grounded metrics client dependency,
// so the ambient visibility concern stays on the standard library.
package metrics

import "expvar"

// Streaming counts the A2A server's open SSE streams and the events it has
// written and dropped across all of them.
var Streaming = struct {
	OpenStreams   *expvar.Int
	TotalStreams  *expvar.Int
	EventsWritten *expvar.Int
	EventsDropped *expvar.Int
}{
	OpenStreams:   expvar.NewInt("a2a_open_streams"),
	TotalStreams:  expvar.NewInt("a2a_total_streams"),
	EventsWritten: expvar.NewInt("a2a_events_written"),
	EventsDropped: expvar.NewInt("a2a_events_dropped"),
}

// StreamOpened records the start of an SSE stream; the returned func
// records its end and should be deferred by the caller.
func StreamOpened() func() {
	Streaming.TotalStreams.Add(1)
	Streaming.OpenStreams.Add(1)
	closed := false
	return func() {
		if closed {
			return
		}
		closed = true
		Streaming.OpenStreams.Add(-1)
	}
}

// EventWritten records a single SSE event written to a client.
func EventWritten() {
	Streaming.EventsWritten.Add(1)
}

// EventDropped records an event that could not be delivered (the bus
// channel was full or the subscriber had already gone away).
func EventDropped() {
	Streaming.EventsDropped.Add(1)
}
