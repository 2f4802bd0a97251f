package goToken

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/MrEthical07/goToken/value"
)

func sampleTokenData() *TokenData {
	return newTokenData(map[string]value.Value{
		"sub":   value.String("alice"),
		"level": value.Int(3),
		"exp":   value.At(testNow),
		"roles": value.List{value.String("admin")},
	})
}

func TestTokenDataMissingClaim(t *testing.T) {
	data := sampleTokenData()

	_, err := data.Get("nope")
	if !errors.Is(err, ErrMissingClaim) {
		t.Fatalf("expected ErrMissingClaim, got %v", err)
	}
	var merr *MissingClaimError
	if !errors.As(err, &merr) || merr.Name != "nope" {
		t.Fatalf("expected MissingClaimError naming the claim, got %v", err)
	}
	if err.Error() != `missing claim "nope"` {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if _, ok := data.Lookup("nope"); ok {
		t.Fatal("Lookup must report absence")
	}
	if data.Has("nope") || !data.Has("sub") {
		t.Fatal("unexpected Has result")
	}
}

func TestTokenDataCollections(t *testing.T) {
	data := sampleTokenData()

	if data.Len() != 4 {
		t.Fatalf("expected 4 claims, got %d", data.Len())
	}
	keys := data.Keys()
	if !slices.Equal(keys, []string{"exp", "level", "roles", "sub"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
	values := data.Values()
	items := data.Items()
	if len(values) != len(keys) || len(items) != len(keys) {
		t.Fatal("collections disagree on length")
	}
	for i, it := range items {
		if it.Name != keys[i] || !value.Equal(it.Value, values[i]) {
			t.Fatalf("item %d out of step: %+v", i, it)
		}
	}

	keys[0] = "changed"
	if data.Keys()[0] != "exp" {
		t.Fatal("Keys must return a copy")
	}
	m := data.Map()
	delete(m, "sub")
	if !data.Has("sub") {
		t.Fatal("Map must return a copy")
	}
}

func TestTokenDataIteratorsRestart(t *testing.T) {
	data := sampleTokenData()

	names := data.Names()
	first := slices.Collect(names)
	second := slices.Collect(names)
	if !slices.Equal(first, second) || len(first) != 4 {
		t.Fatalf("expected restartable names, got %v then %v", first, second)
	}

	count := 0
	for name, v := range data.All() {
		if !value.Equal(v, data.Map()[name]) {
			t.Fatalf("value mismatch for %s", name)
		}
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early break after 2, got %d", count)
	}
}

func TestTokenDataTypedAccessors(t *testing.T) {
	data := sampleTokenData()

	if s, err := data.String("sub"); err != nil || s != "alice" {
		t.Fatalf("String(sub) = %q, %v", s, err)
	}
	if n, err := data.Int("level"); err != nil || n != 3 {
		t.Fatalf("Int(level) = %d, %v", n, err)
	}
	if tm, err := data.Time("exp"); err != nil || !tm.Equal(testNow) {
		t.Fatalf("Time(exp) = %v, %v", tm, err)
	}

	if _, err := data.Int("sub"); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if _, err := data.Time("missing"); !errors.Is(err, ErrMissingClaim) {
		t.Fatalf("expected ErrMissingClaim, got %v", err)
	}
}

func TestTokenDataDebugRendering(t *testing.T) {
	data := newTokenData(map[string]value.Value{
		"b": value.Int(2),
		"a": value.String("x"),
		"t": value.Unix(0, 0),
	})
	want := `TokenData{"a": String("x"), "b": Int(2), "t": DateTime(1970-01-01T00:00:00Z)}`
	for i := 0; i < 5; i++ {
		if got := fmt.Sprint(data); got != want {
			t.Fatalf("unexpected rendering:\n got: %s\nwant: %s", got, want)
		}
	}
	if got := fmt.Sprintf("%#v", data); got != want {
		t.Fatalf("unexpected GoString rendering %s", got)
	}
}

func TestTokenDataEmpty(t *testing.T) {
	data := newTokenData(nil)
	if data.Len() != 0 || len(data.Keys()) != 0 {
		t.Fatal("expected empty claims")
	}
	if got := fmt.Sprint(data); got != "TokenData{}" {
		t.Fatalf("unexpected empty rendering %q", got)
	}

	var none *TokenData
	if none.Has("x") || none.Len() != 0 {
		t.Fatal("nil TokenData must behave as empty")
	}
}
