package ccl

import "go.uber.org/zap"

// logger is the package-wide diagnostic sink. It stays a no-op until a host
// process opts in via SetLogger.
var logger = zap.NewNop()

// SetLogger installs the structured logger used for DebugAllocator
// diagnostics (red-zone corruption, frees of untracked pointers) and for the
// debug event Pool.Destroy emits. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
