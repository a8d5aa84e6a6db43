package stream

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
)

// NDJSONWriter serializes events as newline-delimited JSON on a chunked
// response, flushing after every event so the caller sees progress while the
// crawl is still running.
type NDJSONWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{w: w}
}

// Emit writes one event. Serialization failures are logged and dropped;
// the stream must keep its emission order for the remaining events.
func (n *NDJSONWriter) Emit(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("⚠️ Failed to marshal stream event: %v", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := n.w.Write(append(data, '\n')); err != nil {
		log.Printf("⚠️ Failed to write stream event: %v", err)
		return
	}
	if f, ok := n.w.(http.Flusher); ok {
		f.Flush()
	}
}
