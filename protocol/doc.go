// Package protocol owns the EBB wire contract: command formatting, reply
// framing, and reply decoding.
//
// Ownership boundary:
// - Transport contract and drain primitive
// - reply class table (one fixed class per mnemonic)
// - framing engine (deadline + inactivity heuristics)
// - pure decoders from raw reply bytes to typed values
package protocol
