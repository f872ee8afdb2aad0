package session

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// Navigation is fully synchronous; nothing here may leave a goroutine behind.
	goleak.VerifyTestMain(m)
}
