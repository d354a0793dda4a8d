// Package domain holds the core types and interfaces of the leave dashboard.
//
// Sessions, leave requests, stats and dashboard views live here, together
// with the interfaces the application layer depends on. Nothing in this
// package imports other leavedesk packages.
package domain
