// Package journal keeps a local SQLite record of every reading the
// simulator emitted.
//
// The journal is a mirror: it lets an operator check what was sent when the
// time-series store is unreachable or has been wiped, and it backs the
// readings endpoint of the status API. Timestamps are stored in UTC with a
// fixed-width layout so range filters compare correctly as text.
package journal
