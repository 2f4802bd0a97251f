package goToken

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goToken/value"
)

func FuzzEngineDecode(f *testing.F) {
	cfg := DefaultConfig()
	cfg.Signing.PrivateKey = []byte(testSecret)
	engine, err := NewBuilder().WithConfig(cfg).WithClock(FixedClock(testNow)).Build()
	if err != nil {
		f.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	valid, err := engine.Encode(map[string]value.Value{
		"sub":  value.String("alice"),
		"exp":  value.TimeDelta(time.Hour),
		"tags": value.List{value.Int(1), value.Dict{"x": value.Float(0.5)}},
	})
	if err != nil {
		f.Fatalf("Encode failed: %v", err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.eyJ4IjpudWxsfQ.")
	f.Add(valid + "A")

	f.Fuzz(func(t *testing.T, token string) {
		data, err := engine.Decode(token)
		if err != nil {
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DecodeError, got %T", err)
			}
			if data != nil {
				t.Fatal("failed decode must not return claims")
			}
			return
		}
		_ = data.GoString()
	})
}
