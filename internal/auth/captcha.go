package auth

import (
	"sync"
	"time"
)

// CaptchaMailbox is the single-slot hand-off between the caller (who sees the
// challenge image) and the login flow waiting on an answer. Only one source
// can be blocked on a challenge at a time, so the slot carries no key.
type CaptchaMailbox struct {
	mu    sync.Mutex
	value string
	set   bool
}

func NewCaptchaMailbox() *CaptchaMailbox {
	return &CaptchaMailbox{}
}

// Put stores an answer, replacing any unconsumed one.
func (m *CaptchaMailbox) Put(value string) {
	m.mu.Lock()
	m.value = value
	m.set = true
	m.mu.Unlock()
}

// Clear drops any stale answer before a new challenge is announced.
func (m *CaptchaMailbox) Clear() {
	m.mu.Lock()
	m.value = ""
	m.set = false
	m.mu.Unlock()
}

// take consumes the answer, read-then-delete, so it is never reused.
func (m *CaptchaMailbox) take() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", false
	}
	v := m.value
	m.value = ""
	m.set = false
	return v, true
}

// Await polls the slot up to attempts times, sleeping interval between
// polls. An empty return means the wait timed out and login proceeds
// without a CAPTCHA value.
func (m *CaptchaMailbox) Await(attempts int, interval time.Duration) string {
	for i := 0; i < attempts; i++ {
		if v, ok := m.take(); ok {
			return v
		}
		time.Sleep(interval)
	}
	return ""
}
