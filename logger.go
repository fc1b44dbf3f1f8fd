package anchorui

import (
	"log/slog"

	"github.com/agiangrant/anchorui/internal/log"
)

// SetLogger sets the logger used by every anchorui package. By default
// nothing is logged; pass nil to restore that.
//
// Debug records rebuilds and atlas creation, Warn configuration problems
// such as an unknown font, Error container overflow.
func SetLogger(l *slog.Logger) {
	log.Set(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *slog.Logger {
	return log.L()
}
