// Package mailtest provides a recording mail.Mailer for tests.
package mailtest

import (
	"context"
	"sync"

	"linkdeck/api/internal/mail"
)

type Recorder struct {
	mu   sync.Mutex
	sent []mail.Message
	// Err, when set, is returned from Send and nothing is recorded.
	Err error
}

func (r *Recorder) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *Recorder) Sent() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]mail.Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent message sent to addr.
func (r *Recorder) Last(addr string) (mail.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].To == addr {
			return r.sent[i], true
		}
	}
	return mail.Message{}, false
}
