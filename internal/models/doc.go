// Package models defines the core domain entities for Resolve.
//
// The central pair is Expense and Share: an Expense records money paid by one
// party on behalf of several, and each Share is one participant's portion of
// it. Participants may be registered users (referenced by id) or unregistered
// people known only by a display name; a Share carries exactly one of the two.
//
// Everything else (User, Group, Friendship) exists to give expenses an
// identity and membership context. BalanceSummary and ActivityItem are derived
// read-side views and are never persisted.
package models
