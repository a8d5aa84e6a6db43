package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaptchaMailboxAnswerIsConsumedOnce(t *testing.T) {
	mb := NewCaptchaMailbox()
	mb.Put("ひらがな")

	assert.Equal(t, "ひらがな", mb.Await(1, time.Millisecond))
	// read-then-delete: the same answer is never served twice
	assert.Equal(t, "", mb.Await(2, time.Millisecond))
}

func TestCaptchaMailboxTimeoutReturnsEmpty(t *testing.T) {
	mb := NewCaptchaMailbox()

	start := time.Now()
	got := mb.Await(5, time.Millisecond)
	assert.Equal(t, "", got)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestCaptchaMailboxAnswerArrivingMidWait(t *testing.T) {
	mb := NewCaptchaMailbox()

	go func() {
		time.Sleep(20 * time.Millisecond)
		mb.Put("とりけし")
	}()

	assert.Equal(t, "とりけし", mb.Await(100, 5*time.Millisecond))
}

func TestCaptchaMailboxClearDropsStaleAnswer(t *testing.T) {
	mb := NewCaptchaMailbox()
	mb.Put("ふるいこたえ")
	mb.Clear()

	assert.Equal(t, "", mb.Await(1, time.Millisecond))
}

func TestCaptchaMailboxPutReplaces(t *testing.T) {
	mb := NewCaptchaMailbox()
	mb.Put("まちがい")
	mb.Put("ただしい")

	assert.Equal(t, "ただしい", mb.Await(1, time.Millisecond))
}
