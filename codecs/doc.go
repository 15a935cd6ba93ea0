// Package codecs provides ready-made codecs for codecstack pipelines:
//
//   - Delta: per-element delta encoding for fixed-width integers.
//   - Shuffle: byte shuffle by item size, to group like byte positions
//     ahead of a compressor.
//   - Zstd, Zlib: general-purpose compression. Their decoded output is
//     flat raw bytes; both accept a decode hint to restore shape/dtype.
//   - Checksum: appends and verifies an XXH64 digest.
//   - PackCBOR, PackMsgpack: self-describing framing; the encoded form
//     carries dtype and shape, so no decode hint is needed.
//   - Limit: middleware bounding the size a wrapped codec will decode.
//
// All codecs here register factories with the registry package so stacks
// containing them can be rebuilt from their Config.
package codecs
