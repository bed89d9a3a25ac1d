package rowtable

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// DefaultLogger is used by tables without a logger.
	// It discards all output, set it to logrus.StandardLogger()
	// to log render passes of all tables.
	DefaultLogger logrus.FieldLogger = newDiscardLogger()

	// DefaultRecyclingCacheSize is the number of parked views
	// of a table with recycling enabled.
	DefaultRecyclingCacheSize = 20
)

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
