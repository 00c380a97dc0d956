// Package canon produces canonical JSON and content hashes for usage records.
//
// Canonical JSON here means: object keys sorted by UTF-16 code units, strings
// NFC normalized, no HTML escaping, no floats and no nulls. Two records with the
// same content always serialize to the same bytes, which keeps stored payloads
// and identity keys stable across runs.
package canon
