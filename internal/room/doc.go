// Package room implements the rooms of the chat system.
//
// A Manager owns every Room and a Room owns its Connections and its bounded
// message history. Only the Manager mutates a Room; everything else observes
// rooms through Stats, Messages and Connections snapshots.
package room
