package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabled(t *testing.T) {
	err := Disabled{}.Send(context.Background(), Message{To: []string{"a@example.test"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTP_RejectsBadAddresses(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "localhost", Port: 25, From: "not an address"})
	err := s.Send(context.Background(), Message{To: []string{"a@example.test"}})
	assert.ErrorContains(t, err, "invalid from address")

	s = NewSMTP(SMTPConfig{Host: "localhost", Port: 25, From: "billing@example.test"})
	err = s.Send(context.Background(), Message{To: []string{"nope"}})
	assert.ErrorContains(t, err, "invalid recipient")
}
