// Package codecstack composes binary-buffer codecs (compressors and
// transform filters) into a single ordered pipeline with well-defined
// encode/decode semantics and a verified round-trip mode.
//
// Components:
//   - Codec: one reversible buffer transform (Encode/Decode). Opaque to the
//     stack; any implementation can be substituted.
//   - Stack: an immutable, ordered sequence of codecs acting as one codec.
//     Encode runs left to right, Decode right to left.
//   - Buffer / Descriptor: a typed, shaped block of bytes and the
//     shape+dtype snapshot the stack keeps per encode stage.
//   - Observer: per-stage callbacks (timings, byte sizes, logging) under
//     observers/.
//
// Composition:
//
//	s := codecstack.New(a, b, c)
//	enc, _ := s.Encode(buf)  // c.Encode(b.Encode(a.Encode(buf)))
//	dec, _ := s.Decode(enc)  // a.Decode(b.Decode(c.Decode(enc)))
//
// EncodeDecode computes Decode(Encode(buf)) but snapshots the shape and
// dtype of the buffer entering every encode stage, then replays those
// snapshots through the decode path: codecs whose encoded form is not
// self-describing get the snapshot as a decode hint (HintedDecoder), and
// every decoded stage is checked against its snapshot. A codec whose decode
// silently produces plausible but wrong-shaped data fails loudly with a
// ShapeMismatchError or DTypeMismatchError instead of round-tripping garbage.
//
// The stack is stateless between calls and adds no framing, headers, or
// metadata of its own to encoded output. Codec instances may be shared
// across stacks; the stack imposes no synchronization of its own.
package codecstack
