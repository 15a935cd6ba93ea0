package codecs

import (
	"github.com/unkn0wn-root/codecstack"
	"github.com/unkn0wn-root/codecstack/registry"
)

func init() {
	registry.Register("delta", func(cfg codecstack.Config, _ *registry.Registry) (codecstack.Codec, error) {
		s, _ := cfg["dtype"].(string)
		dt, err := codecstack.ParseDType(s)
		if err != nil {
			return nil, err
		}
		return Delta{DType: dt}, nil
	})
	registry.Register("shuffle", func(codecstack.Config, *registry.Registry) (codecstack.Codec, error) {
		return Shuffle{}, nil
	})
	registry.Register("zstd", func(cfg codecstack.Config, _ *registry.Registry) (codecstack.Codec, error) {
		return NewZstd(intFrom(cfg["level"]))
	})
	registry.Register("zlib", func(cfg codecstack.Config, _ *registry.Registry) (codecstack.Codec, error) {
		return Zlib{Level: intFrom(cfg["level"])}, nil
	})
	registry.Register("xxh64", func(codecstack.Config, *registry.Registry) (codecstack.Codec, error) {
		return Checksum{}, nil
	})
	registry.Register("pack.cbor", func(codecstack.Config, *registry.Registry) (codecstack.Codec, error) {
		return PackCBOR{}, nil
	})
	registry.Register("pack.msgpack", func(codecstack.Config, *registry.Registry) (codecstack.Codec, error) {
		return PackMsgpack{}, nil
	})
}

// intFrom reads an int that may have round-tripped through a serializer
// as a wider or floating type. Unknown types read as 0.
func intFrom(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
