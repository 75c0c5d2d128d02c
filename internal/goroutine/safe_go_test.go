package goroutine

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})

	SafeGo(func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("горутина не выполнилась")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	logger.Init("error")
	hook := logtest.NewLocal(logger.Log)

	SafeGo(func() {
		panic("обвал обработчика")
	})

	assert.Eventually(t, func() bool {
		return len(hook.AllEntries()) > 0
	}, time.Second, 10*time.Millisecond)

	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "обвал обработчика")
}
