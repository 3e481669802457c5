package icon

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"emoji literal", "🦊", KindEmoji},
		{"plain text", "fox", KindEmoji},
		{"mascot asset path", "/mascot-fox.png", KindMascot},
		{"absolute http url", "http://cdn.example.com/fox.png", KindMascot},
		{"absolute https url", "https://cdn.example.com/fox.png", KindMascot},
		{"relative non-mascot path", "/images/fox.png", KindEmoji},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Kind() != tt.want {
				t.Errorf("Parse(%q).Kind() = %v, want %v", tt.raw, got.Kind(), tt.want)
			}
			if got.String() != tt.raw {
				t.Errorf("Parse(%q).String() = %q, want the raw form back", tt.raw, got.String())
			}
		})
	}
}

func TestIconJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Icon Icon `json:"icon"`
	}

	original := wrapper{Icon: Mascot("/mascot-penguin.png")}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"icon":"/mascot-penguin.png"}` {
		t.Errorf("marshaled form = %s, want the raw string", data)
	}

	var decoded wrapper
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Icon.IsMascot() || decoded.Icon.String() != "/mascot-penguin.png" {
		t.Errorf("decoded icon = (%v, %q), classification lost in round trip",
			decoded.Icon.Kind(), decoded.Icon.String())
	}
}

func TestIconScan(t *testing.T) {
	var fromString Icon
	if err := fromString.Scan("🦊"); err != nil {
		t.Fatalf("Scan(string) failed: %v", err)
	}
	if fromString.Kind() != KindEmoji || fromString.String() != "🦊" {
		t.Errorf("Scan(string) = (%v, %q)", fromString.Kind(), fromString.String())
	}

	var fromBytes Icon
	if err := fromBytes.Scan([]byte("/mascot-fox.png")); err != nil {
		t.Fatalf("Scan([]byte) failed: %v", err)
	}
	if !fromBytes.IsMascot() {
		t.Error("Scan([]byte) lost mascot classification")
	}

	var fromNil Icon
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !fromNil.IsZero() {
		t.Error("Scan(nil) produced a non-zero icon")
	}

	var bad Icon
	if err := bad.Scan(42); err == nil {
		t.Error("Scan(int) succeeded, want error")
	}
}

func TestIconValue(t *testing.T) {
	v, err := Emoji("🐸").Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}
	if v != "🐸" {
		t.Errorf("Value() = %v, want the raw string", v)
	}
}
