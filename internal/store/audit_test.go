package store

import (
	"encoding/json"
	"reflect"
	"testing"
)

// The detail column is NOT NULL with a default, but a bound NULL parameter
// bypasses the default. A detail-less entry must therefore serialize to an
// empty object, or success audits for deactivate/delete would be dropped.
func TestMarshalDetailNilBecomesEmptyObject(t *testing.T) {
	got, err := marshalDetail(nil)
	if err != nil {
		t.Fatalf("marshalDetail(nil) error: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("marshalDetail(nil) = %q, want %q", got, "{}")
	}
}

func TestMarshalDetailRoundTrip(t *testing.T) {
	in := map[string]any{"resource_type": "job", "views": float64(3)}

	raw, err := marshalDetail(in)
	if err != nil {
		t.Fatalf("marshalDetail error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestMarshalDetailUnserializable(t *testing.T) {
	if _, err := marshalDetail(map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("expected error for unserializable detail value")
	}
}
