package piece

import "fmt"

// Kind identifies one of the seven piece forms. Only used for identity and
// color lookup by presentation code.
type Kind string

const (
	KindI Kind = "I"
	KindJ Kind = "J"
	KindL Kind = "L"
	KindO Kind = "O"
	KindS Kind = "S"
	KindT Kind = "T"
	KindZ Kind = "Z"
)

// Kinds lists every valid kind in a stable order.
var Kinds = []Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts a one letter name ("I", "J", ...) into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown piece kind %q", s)
	}
	return k, nil
}
