// Package observers provides ready-made Observer implementations for the
// observed stack operations: wall-clock timings, byte sizes, and a
// structured-logging observer.
//
// The collecting observers (Walltime, Bytesize) accumulate into plain
// exported slices and are meant for one stack invocation (or one
// goroutine's worth of invocations) at a time. Share codecs, not
// observers.
package observers

import (
	"time"

	"github.com/unkn0wn-root/codecstack"
)

// Timing is one codec call's wall-clock duration.
type Timing struct {
	Codec   string
	Elapsed time.Duration
}

// Walltime records per-stage encode/decode durations in call order. The
// in-flight start times live on the struct, so a Walltime must not be
// shared across concurrent or interleaved invocations; give each its own.
type Walltime struct {
	EncodeTimes []Timing
	DecodeTimes []Timing

	encStart time.Time
	decStart time.Time
}

var _ codecstack.Observer = (*Walltime)(nil)

func (w *Walltime) PreEncode(codecstack.Codec, codecstack.Buffer) {
	w.encStart = time.Now()
}

func (w *Walltime) PostEncode(c codecstack.Codec, _, _ codecstack.Buffer) {
	w.EncodeTimes = append(w.EncodeTimes, Timing{Codec: name(c), Elapsed: time.Since(w.encStart)})
}

func (w *Walltime) PreDecode(codecstack.Codec, codecstack.Buffer) {
	w.decStart = time.Now()
}

func (w *Walltime) PostDecode(c codecstack.Codec, _, _ codecstack.Buffer) {
	w.DecodeTimes = append(w.DecodeTimes, Timing{Codec: name(c), Elapsed: time.Since(w.decStart)})
}
