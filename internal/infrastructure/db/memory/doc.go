// Package memory provides process-local implementations of the storage
// ports. They honour the same contracts as the durable backends (unique
// usernames, owner-scoped listings, expiring sessions) and exist for tests;
// a restart loses everything, so they are never selectable through config.
package memory
