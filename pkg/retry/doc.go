// Package retry provides bounded retry with pluggable backoff strategies.
//
// Census API calls fail transiently (timeouts, 429s, 5xx) and succeed on
// re-attempt often enough that every fetch goes through retry.Do with an
// exponential backoff. Permanent outcomes, including the API's explicit
// no-data signal, are classified as non-retryable and returned immediately.
package retry
