package debug

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// GetLogger returns a singleton zerolog logger writing to a file.
// The TUI owns stdout, so logs go elsewhere.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		path := filepath.Join(os.TempDir(), "convo-debug.log")
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger = zerolog.Nop()
			return
		}
		logger = zerolog.New(f).With().Timestamp().Caller().Logger()
	})
	return logger
}
