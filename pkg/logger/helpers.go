package logger

import "fmt"

// LogRequest logs one Census API request
func LogRequest(method, url string, statusCode int, durationMS float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMS,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		GetLogger().DebugWithFields("census request completed", fields)
	case statusCode >= 400 && statusCode < 500:
		GetLogger().WarnWithFields("census request client error", fields)
	case statusCode >= 500:
		GetLogger().ErrorWithFields("census request server error", fields)
	}
}

// LogRateLimit logs a rate-limit backoff event
func LogRateLimit(endpoint string, retryAfter int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfter,
	}).Warn("rate limit reached, backing off")
}

// LogCollectionProgress logs progress through the work-set
func LogCollectionProgress(done, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(done) / float64(total) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"done":       done,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("collection progress")
}
