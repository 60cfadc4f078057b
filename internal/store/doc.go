// Package store persists the device configuration.
//
// This package manages:
//   - Loading, saving, and erasing the single DeviceConfig record
//   - Record framing: magic, format version, length, CRC32 checksum
//   - Fail-closed loads (corrupt record == absent config)
//   - Atomic whole-record replace (no partial-field updates)
//
// The underlying key-value store is bbolt; its transactional writes give
// the old-or-new-never-spliced guarantee the configuration lifecycle
// requires. The record itself carries its own integrity framing so a
// record damaged below the transaction layer is still rejected whole.
//
// Only the orchestrator calls Save and Erase, so the store never sees
// concurrent writers.
package store
