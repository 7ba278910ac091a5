// Package compatcache provides the two-tier compatibility resolution cache
// used to answer "what is the browser support for this MDN document".
//
// Cache resolves a document path to a model.Resolution. Answers come from an
// in-memory tier, then from a persistent tier (a kvstore.Store), and only
// then from a source.Source. Whatever is fetched is written to both tiers.
//
// ## Freshness
//
// An entry is fresh when less than the freshness duration (default 24 hours)
// has elapsed since it was fetched. Freshness is evaluated when an entry is
// read. Nothing is swept in the background.
//
// ## In-flight De-duplication
//
// For any document path, at most one fetch from the source is outstanding at
// a time. Callers that arrive while a fetch is running wait for that fetch
// and all observe its single outcome. A caller whose context ends while
// waiting gets an unresolved answer, but the fetch itself continues and its
// outcome is cached for the next caller.
//
// ## Failure Handling
//
// Source failures are never returned. When a fetch fails and the persistent
// tier held a stale entry, that entry is answered and kept in memory with its
// original fetch time, so the persistent tier never looks fresher than it
// is. When no stale entry exists, a negative entry recording "no data" is
// written to both tiers and answered, which keeps a missing document from
// being refetched on every lookup for the freshness duration.
//
// A persisted entry that cannot be decoded is deleted and treated as absent.
//
// ## Memory Tier
//
// Reads of the memory tier are lock-free. The tier is an immutable pair of
// maps stored atomically: a main map and a small map of updates not yet
// merged into it. Writers copy the update map and merge it into a new main
// map only once repeatedly copying the update map would cost more than
// rebuilding the main map.
package compatcache
