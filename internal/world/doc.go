// Package world owns the live entity tables and the immutable building
// layout of one world instance.
//
// All access goes through a single read/write lock. Reads may run
// concurrently with each other; every mutation runs alone. Callers that need
// several reads or writes to observe one consistent state use Read or Write.
package world
