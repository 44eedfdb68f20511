// Package session houses concrete implementations of the core.SessionRegistry.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages from depending on concrete storage.
//
// InMemoryRegistry keeps sessions in a process local map with sliding
// expiration; Sweeper reclaims expired entries in the background.
package session
