// Package reply decodes raw server command replies into classifiable failures.
//
// A reply with ok: 0 becomes a CommandError. A successful reply that carries a
// writeConcernError becomes a WriteConcernError holding the whole reply, so the
// nested code stays reachable at writeConcernError.code. Any other successful
// reply decodes to nil.
package reply
