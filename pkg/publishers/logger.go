package publishers

import "github.com/Adda-Baaj/berita-banjir/internal/logger"

// Logger is the structured logger publishers report delivery through.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
