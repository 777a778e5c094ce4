package notify

import "go.uber.org/zap"

// KeepAwake asks the host not to sleep while timers are armed. The polling
// loop tolerates sleep (it catches up a bounded distance), so this is best
// effort.
type KeepAwake interface {
	Set(enabled bool)
}

// LogKeepAwake records the requested state without touching the OS. Used on
// platforms without a power-management hook.
type LogKeepAwake struct {
	log     *zap.Logger
	enabled bool
}

func NewLogKeepAwake(log *zap.Logger) *LogKeepAwake {
	return &LogKeepAwake{log: log}
}

func (k *LogKeepAwake) Set(enabled bool) {
	if enabled == k.enabled {
		return
	}
	k.enabled = enabled
	k.log.Info("keep-awake state changed", zap.Bool("enabled", enabled))
}
