// Package icon models a user's avatar as a tagged union of a plain emoji
// literal and a mascot image reference. The raw string form is what the
// database and the wire carry; classification happens exactly once, here,
// instead of as ad hoc prefix checks at every render site.
package icon

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Kind discriminates the two icon representations.
type Kind int

const (
	KindEmoji Kind = iota
	KindMascot
)

// Icon is either an emoji literal or a mascot image reference.
type Icon struct {
	kind  Kind
	value string
}

// Emoji returns an emoji icon.
func Emoji(literal string) Icon {
	return Icon{kind: KindEmoji, value: literal}
}

// Mascot returns a mascot image icon.
func Mascot(path string) Icon {
	return Icon{kind: KindMascot, value: path}
}

// Parse classifies a raw icon string. Mascot references are either asset
// paths under /mascot- or absolute URLs; everything else is an emoji.
func Parse(raw string) Icon {
	if strings.HasPrefix(raw, "/mascot-") || strings.HasPrefix(raw, "http") {
		return Mascot(raw)
	}
	return Emoji(raw)
}

// Kind returns the icon's discriminant.
func (i Icon) Kind() Kind { return i.kind }

// IsMascot reports whether the icon references a mascot image.
func (i Icon) IsMascot() bool { return i.kind == KindMascot }

// String returns the raw stored form.
func (i Icon) String() string { return i.value }

// IsZero reports whether the icon is unset.
func (i Icon) IsZero() bool { return i.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Icon) UnmarshalText(text []byte) error {
	*i = Parse(string(text))
	return nil
}

// Value implements driver.Valuer so the icon is stored as its raw string.
func (i Icon) Value() (driver.Value, error) {
	return i.value, nil
}

// Scan implements sql.Scanner.
func (i *Icon) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*i = Parse(v)
		return nil
	case []byte:
		*i = Parse(string(v))
		return nil
	case nil:
		*i = Icon{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into icon.Icon", src)
	}
}
