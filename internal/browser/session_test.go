package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The close-event handler runs on playwright's connection-dispatch goroutine,
// which is also the goroutine that resolves an in-flight Close(). Resetting
// the cached handle must therefore return without waiting on the session
// mutex, even while a shutdown holds it.
func TestDropContextDoesNotBlockWhileManagerIsLocked(t *testing.T) {
	sm := NewSessionManager(t.TempDir())

	sm.mu.Lock()
	done := make(chan struct{})
	go func() {
		sm.dropContext(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		sm.mu.Unlock()
		t.Fatal("dropContext blocked on the session mutex")
	}
	sm.mu.Unlock()

	// once the lock is free the reset itself must still go through
	assert.Eventually(t, func() bool {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		return sm.ctx == nil
	}, time.Second, 10*time.Millisecond)
}
