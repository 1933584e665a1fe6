// Package logger provides structured logging for the census collector.
//
// It wraps zerolog behind a small Logger interface with support for
// leveled logging, structured fields, pretty console output, and an
// optional log file. A global instance keeps call sites terse:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("place_fips", "19000").Info("fetching place history")
//	logger.WithError(err).Error("collection failed")
package logger
