package gitversioning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestMessageLogDeduplicates(t *testing.T) {
	log, logs := observedLog(zapcore.InfoLevel)

	log.Info("resolved")
	log.Info("resolved")
	log.Warn("dirty")
	log.Warn("dirty")
	log.Info("other")

	require.Equal(t, 3, logs.Len())
	require.Equal(t, 1, logs.FilterMessage("resolved").Len())
	require.Equal(t, 1, logs.FilterMessage("dirty").Len())
}

func TestMessageLogDeduplicatesConcurrently(t *testing.T) {
	log, logs := observedLog(zapcore.InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Warn("once")
		}()
	}
	wg.Wait()

	require.Equal(t, 1, logs.FilterMessage("once").Len())
}

func TestMessageLogDebugPrintsEverything(t *testing.T) {
	log, logs := observedLog(zapcore.DebugLevel)

	log.Info("repeat")
	log.Info("repeat")
	log.Debug("detail")
	log.Debug("detail")

	require.Equal(t, 2, logs.FilterMessage("repeat").Len())
	require.Equal(t, 2, logs.FilterMessage("detail").Len())
}

func TestMessageLogDebugHiddenAtInfo(t *testing.T) {
	log, logs := observedLog(zapcore.InfoLevel)
	log.Debug("detail", zap.String("key", "value"))
	require.Equal(t, 0, logs.Len())
}

func TestMessageLogNil(t *testing.T) {
	var log *MessageLog
	require.NotPanics(t, func() {
		log.Debug("a")
		log.Info("b")
		log.Warn("c")
		require.NoError(t, log.Sync())
		require.NotNil(t, log.Logger())
	})

	require.NotNil(t, NewMessageLog(nil).Logger())
}

func TestNewProductionMessageLog(t *testing.T) {
	log, err := NewProductionMessageLog(false)
	require.NoError(t, err)
	require.False(t, log.Logger().Core().Enabled(zapcore.DebugLevel))

	verbose, err := NewProductionMessageLog(true)
	require.NoError(t, err)
	require.True(t, verbose.Logger().Core().Enabled(zapcore.DebugLevel))
}
