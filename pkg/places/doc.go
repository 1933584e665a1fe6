// Package places supplies the entity lists the collector runs over.
//
// Two sources exist: CountySource reads static reference data (a county
// configuration and the TIGER place gazetteer) and yields the incorporated
// places inside the target counties; DiscoverySource enumerates places
// live from the Census API with a population floor and an optional radius
// filter. Both are one-time lookups per run, outside the resumable
// work-set.
package places
