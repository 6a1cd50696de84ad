package types

// CfdSource identifies which provider produced a Quote. It is a closed
// variant over the providers this repo ships plus an escape hatch for
// anything added later; callers must not key a map off Source directly
// since Other carries a payload and two Other values with different
// labels would otherwise collide under naive hashing.
type CfdSource struct {
	kind  sourceKind
	label string
}

type sourceKind int

const (
	sourceNinjas sourceKind = iota
	sourceOwninja
	sourceOther
)

var (
	SourceNinjas  = CfdSource{kind: sourceNinjas}
	SourceOwninja = CfdSource{kind: sourceOwninja}
)

// SourceOther builds a CfdSource for a provider not built into this repo.
func SourceOther(label string) CfdSource {
	return CfdSource{kind: sourceOther, label: label}
}

// String returns the provider tag used in logs and in the "src=" field of
// the stdout publisher output.
func (s CfdSource) String() string {
	switch s.kind {
	case sourceNinjas:
		return "ninjas"
	case sourceOwninja:
		return "owninja"
	default:
		return s.label
	}
}

// MarshalJSON renders a CfdSource as its String() tag, since the struct's
// fields are private and would otherwise encode as {}.
func (s CfdSource) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
