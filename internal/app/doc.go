// Package app is the session & synchronization core of the dashboard.
//
// The Synchronizer keeps a role-projected view of backend state fresh on a
// fixed cadence with a single-flight guard, the Submitter validates and
// submits new leave applications, the DecisionCoordinator performs the
// approve/reject transition, and the Service orchestrates the session
// lifecycle around them. All state-changing actions force an immediate
// resynchronization instead of waiting for the next tick.
package app
