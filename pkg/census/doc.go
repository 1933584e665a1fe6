// Package census is a client for the Census Bureau ACS 5-year estimates
// API. It fetches demographic attribute sets for Texas places, classifies
// API responses into the pkg/errors taxonomy, and normalizes the API's
// suppression sentinels to zero. It also enumerates places via the
// wildcard place query for entity discovery.
package census
