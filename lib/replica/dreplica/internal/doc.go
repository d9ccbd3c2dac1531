// Package internal defines the commands and queries exchanged between the distributed
// replica and its raft state machine.
//
// Commands are entries of the raft log and therefore have a compact binary encoding
// (see Command.Serialize). Queries never leave the node and are passed as Go values.
package internal
