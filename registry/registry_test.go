package registry_test

import (
	"strings"
	"testing"

	"github.com/unkn0wn-root/codecstack"
	"github.com/unkn0wn-root/codecstack/codecs"
	"github.com/unkn0wn-root/codecstack/registry"
)

func TestBuildRejectsBadConfigs(t *testing.T) {
	cases := []codecstack.Config{
		{},
		{"id": ""},
		{"id": 42},
		{"id": "no-such-codec"},
	}
	for i, cfg := range cases {
		if _, err := registry.Build(cfg); err == nil {
			t.Fatalf("case %d: Build succeeded", i)
		}
	}
}

func TestBuildStackFromConfig(t *testing.T) {
	cfg := codecstack.Config{
		"id": codecstack.StackID,
		"codecs": []codecstack.Config{
			{"id": "delta", "dtype": "int32"},
			{"id": "shuffle"},
			{"id": "zstd", "level": 1},
		},
	}
	c, err := registry.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, ok := c.(*codecstack.Stack)
	if !ok {
		t.Fatalf("Build returned %T, want *Stack", c)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	in := codecstack.NewBuffer(codecstack.Int32, 2, 5)
	for i := range in.Data {
		in.Data[i] = byte(i % 7)
	}
	out, err := s.EncodeDecode(in)
	if err != nil {
		t.Fatalf("EncodeDecode: %v", err)
	}
	if !out.Descriptor().Equal(in.Descriptor()) {
		t.Fatalf("round trip descriptor = %s", out.Descriptor())
	}
}

// TestConfigRoundTrip rebuilds a stack from its own reported Config,
// including a nested stack, and checks behavior survives.
func TestConfigRoundTrip(t *testing.T) {
	inner := codecstack.New(codecs.Shuffle{})
	orig := codecstack.New(codecs.Delta{DType: codecstack.Int16}, inner, codecs.PackCBOR{})

	cfg, err := orig.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	rebuilt, err := registry.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	in := codecstack.NewBuffer(codecstack.Int16, 4)
	copy(in.Data, []byte{1, 0, 2, 0, 3, 0, 250, 255})

	a, err := orig.Encode(in)
	if err != nil {
		t.Fatalf("orig Encode: %v", err)
	}
	b, err := rebuilt.Encode(in)
	if err != nil {
		t.Fatalf("rebuilt Encode: %v", err)
	}
	if string(a.Data) != string(b.Data) {
		t.Fatalf("rebuilt stack encodes differently")
	}
}

// TestSerializedMemberList accepts the []any-of-maps form configs take
// after passing through a serializer.
func TestSerializedMemberList(t *testing.T) {
	cfg := codecstack.Config{
		"id": codecstack.StackID,
		"codecs": []any{
			map[string]any{"id": "zlib", "level": float64(4)},
			map[string]any{"id": "xxh64"},
		},
	}
	c, err := registry.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s := c.(*codecstack.Stack); s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestBuildReportsMemberPosition(t *testing.T) {
	cfg := codecstack.Config{
		"id": codecstack.StackID,
		"codecs": []codecstack.Config{
			{"id": "shuffle"},
			{"id": "bogus"},
		},
	}
	_, err := registry.Build(cfg)
	if err == nil || !strings.Contains(err.Error(), "member 1") {
		t.Fatalf("err = %v, want member position", err)
	}
}

func TestCustomRegistryIsolated(t *testing.T) {
	r := registry.New()
	// fresh registries know stacks but not the built-ins
	if _, err := r.Build(codecstack.Config{"id": "shuffle"}); err == nil {
		t.Fatalf("fresh registry knows shuffle")
	}
	r.Register("shuffle", func(codecstack.Config, *registry.Registry) (codecstack.Codec, error) {
		return codecs.Shuffle{}, nil
	})
	if _, err := r.Build(codecstack.Config{"id": "shuffle"}); err != nil {
		t.Fatalf("Build after Register: %v", err)
	}
}
