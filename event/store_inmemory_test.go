package event_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rewindkit/go-rewind/event"
)

// testPayload is a minimal Domain Event payload for in-package tests.
type testPayload string

// Name implements message.Message.
func (testPayload) Name() string { return "test_payload" }

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, event.NewStoreSuite(func() event.Store {
		return event.NewInMemoryStore()
	}))
}
