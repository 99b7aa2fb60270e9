// Package catcodec decodes and encodes the sample catalogue ("cat" files) used
// by the OpenTTD base sound set.
//
// A cat file starts with an offset table, one (offset, size) pair of
// little-endian uint32 values per entry, followed by the entry bodies. Each
// body holds a length-prefixed name, a canonical 44-byte PCM WAV envelope, a
// spacer byte and a length-prefixed filename:
//
//   - ReadCat and WriteCat convert between a cat file and a list of Samples.
//   - ReadWAV and WriteWAV convert between a Sample and a standalone WAV file.
//   - ReadIndex and WriteIndex handle the plain-text sfo index that pairs WAV
//     filenames with their internal names.
//
// All output goes through Writer, which writes to a "<name>.new" file and only
// replaces the target (keeping the previous version as "<name>.bak") once
// Commit succeeds.
package catcodec
