package frost

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var pkgLogger atomic.Pointer[zap.Logger]

func init() {
	pkgLogger.Store(zap.NewNop())
}

// SetLogger replaces the package logger. A nil logger disables logging.
// Secret material (shares, nonces) is never logged.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger.Store(l.Named("frost"))
}

func logger() *zap.Logger {
	return pkgLogger.Load()
}

// participantField renders an identifier for structured logs.
func participantField(id Identifier) zap.Field {
	return zap.String("participant", id.String())
}
