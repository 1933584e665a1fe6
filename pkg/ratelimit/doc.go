// Package ratelimit paces requests against the Census API.
//
// Keyed callers get a generous per-minute budget; anonymous callers are
// throttled much harder. The collector takes one token before every
// request attempt, so retries are paced the same as first attempts.
package ratelimit
