// Package invite tracks open invitations to join a gang.
//
// Invitations are keyed by gang and member and expire after a TTL. The Book
// runs no timers of its own: the owner calls Expire from its control loop
// and notifies whoever needs to know about the invitations it returns.
package invite
