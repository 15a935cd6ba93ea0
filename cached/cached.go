// Package cached wraps a codec with a memoizing byte store, so repeated
// encodes or decodes of identical buffers are served from cache instead of
// re-running an expensive transform. Entries are keyed by the inner codec's
// identity plus an XXH64 digest over dtype, shape and payload, so several
// cached codecs may share one Provider; values are framed by internal/wire.
//
// The cache is strictly an optimization: any provider failure is logged
// and the call falls through to the wrapped codec, and results are
// identical either way because codecs are deterministic.
package cached

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/unkn0wn-root/codecstack"
	"github.com/unkn0wn-root/codecstack/internal/wire"
)

// Provider is a minimal byte store. Implementations must be safe for
// concurrent use and byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for the same key.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. May ignore cost or ttl if unsupported. Returns
	// ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Options tune a cached codec. Inner and Provider are required.
type Options struct {
	Inner    codecstack.Codec
	Provider Provider

	Logger codecstack.Logger // nil => NopLogger
	TTL    time.Duration     // 0 => provider default / no expiry
}

// Codec memoizes an inner codec's Encode and Decode through a Provider.
// It accepts decode hints and passes them through to the inner codec when
// supported; hinted results are cached under a hint-qualified key.
//
// Keys are namespaced by the inner codec's identity (its Config when
// available, else its String, else its dynamic type), so codecs with
// different parameters never serve each other's entries. Inner codecs that
// expose neither a Config nor a parameter-carrying String need their own
// Provider.
type Codec struct {
	inner codecstack.Codec
	prov  Provider
	log   codecstack.Logger
	ttl   time.Duration
	scope string
}

var (
	_ codecstack.Codec         = (*Codec)(nil)
	_ codecstack.HintedDecoder = (*Codec)(nil)
)

func New(opts Options) (*Codec, error) {
	if opts.Inner == nil {
		return nil, errNoInner
	}
	if opts.Provider == nil {
		return nil, errNoProvider
	}
	log := opts.Logger
	if log == nil {
		log = codecstack.NopLogger{}
	}
	return &Codec{
		inner: opts.Inner,
		prov:  opts.Provider,
		log:   log,
		ttl:   opts.TTL,
		scope: codecScope(opts.Inner),
	}, nil
}

func (c *Codec) String() string {
	if s, ok := c.inner.(interface{ String() string }); ok {
		return "cached(" + s.String() + ")"
	}
	return "cached"
}

// Close releases the provider.
func (c *Codec) Close(ctx context.Context) error { return c.prov.Close(ctx) }

func (c *Codec) Encode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	key := c.scope + ":e:" + digest(buf)
	if hit, ok := c.lookup(key); ok {
		return hit, nil
	}
	out, err := c.inner.Encode(buf)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	c.store(key, out)
	return out, nil
}

func (c *Codec) Decode(buf codecstack.Buffer) (codecstack.Buffer, error) {
	key := c.scope + ":d:" + digest(buf)
	if hit, ok := c.lookup(key); ok {
		return hit, nil
	}
	out, err := c.inner.Decode(buf)
	if err != nil {
		return codecstack.Buffer{}, err
	}
	c.store(key, out)
	return out, nil
}

func (c *Codec) DecodeInto(buf codecstack.Buffer, want codecstack.Descriptor) (codecstack.Buffer, error) {
	key := c.scope + ":d:" + want.String() + ":" + digest(buf)
	if hit, ok := c.lookup(key); ok {
		return hit, nil
	}
	var out codecstack.Buffer
	var err error
	if hd, ok := c.inner.(codecstack.HintedDecoder); ok {
		out, err = hd.DecodeInto(buf, want)
	} else {
		out, err = c.inner.Decode(buf)
	}
	if err != nil {
		return codecstack.Buffer{}, err
	}
	c.store(key, out)
	return out, nil
}

func (c *Codec) lookup(key string) (codecstack.Buffer, bool) {
	raw, ok, err := c.prov.Get(context.Background(), key)
	if err != nil {
		c.log.Warn("cache get failed", codecstack.Fields{"key": key, "err": err})
		return codecstack.Buffer{}, false
	}
	if !ok {
		return codecstack.Buffer{}, false
	}
	b, err := wire.DecodeBuffer(raw)
	if err != nil {
		// self-heal corrupt entry
		_ = c.prov.Del(context.Background(), key)
		c.log.Warn("cache entry corrupt, dropped", codecstack.Fields{"key": key})
		return codecstack.Buffer{}, false
	}
	return b, true
}

func (c *Codec) store(key string, b codecstack.Buffer) {
	raw, err := wire.EncodeBuffer(b)
	if err != nil {
		c.log.Debug("result not cacheable", codecstack.Fields{"key": key, "err": err})
		return
	}
	ok, err := c.prov.Set(context.Background(), key, raw, int64(len(raw)), c.ttl)
	if err != nil {
		c.log.Warn("cache set failed", codecstack.Fields{"key": key, "err": err})
		return
	}
	if !ok {
		c.log.Debug("cache set rejected (pressure)", codecstack.Fields{"key": key})
	}
}

// codecScope derives the key namespace from the inner codec's identity.
// The Config is preferred because it carries parameters; a String or the
// dynamic type is the fallback.
func codecScope(c codecstack.Codec) string {
	var id string
	if cc, ok := c.(codecstack.Configurable); ok {
		if cfg, err := cc.Config(); err == nil {
			id = renderConfig(cfg)
		}
	}
	if id == "" {
		if s, ok := c.(fmt.Stringer); ok {
			id = s.String()
		} else {
			id = fmt.Sprintf("%T", c)
		}
	}
	return strconv.FormatUint(xxhash.Sum64String(id), 16)
}

// renderConfig serializes a Config deterministically (sorted keys,
// recursing into nested configs and member lists).
func renderConfig(cfg codecstack.Config) string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(renderValue(cfg[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func renderValue(v any) string {
	switch t := v.(type) {
	case codecstack.Config:
		return renderConfig(t)
	case map[string]any:
		return renderConfig(codecstack.Config(t))
	case []codecstack.Config:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = renderConfig(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// digest keys a buffer by dtype, shape and payload.
func digest(b codecstack.Buffer) string {
	h := xxhash.New()
	h.WriteString(b.DType.String())
	for _, d := range b.Shape {
		h.WriteString(":")
		h.WriteString(strconv.Itoa(d))
	}
	h.WriteString("|")
	h.Write(b.Data)
	return strconv.FormatUint(h.Sum64(), 16)
}
