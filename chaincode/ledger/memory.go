package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

const (
	compositeKeyNamespace = "\x00"
	minUnicodeRuneValue   = 0
	maxUnicodeRuneValue   = utf8.MaxRune
)

// Memory is an in-process ledger with Fabric's composite key layout. It is
// not safe for concurrent use; callers serialize invocations the way a peer
// does.
type Memory struct {
	State map[string][]byte
	Clock func() time.Time
}

// NewMemory returns an empty ledger whose clock is the wall clock.
func NewMemory() *Memory {
	return &Memory{
		State: make(map[string][]byte),
		Clock: time.Now,
	}
}

func (m *Memory) GetState(key string) ([]byte, error) {
	v, ok := m.State[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	m.State[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) DelState(key string) error {
	delete(m.State, key)
	return nil
}

// CreateCompositeKey builds keys the way the Fabric shim does.
func (m *Memory) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return CompositeKey(objectType, attributes)
}

func (m *Memory) Stage() multisig.Batch {
	return NewStaged(m)
}

func (m *Memory) Now() (time.Time, error) {
	return m.Clock(), nil
}

// CompositeKey joins objectType and attributes with the namespace byte used
// by the shim, rejecting attributes that would make the key ambiguous.
func CompositeKey(objectType string, attributes []string) (string, error) {
	if err := validateKeyPart(objectType); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(compositeKeyNamespace)
	b.WriteString(objectType)
	b.WriteRune(minUnicodeRuneValue)
	for _, att := range attributes {
		if err := validateKeyPart(att); err != nil {
			return "", err
		}
		b.WriteString(att)
		b.WriteRune(minUnicodeRuneValue)
	}
	return b.String(), nil
}

func validateKeyPart(s string) error {
	if !utf8.ValidString(s) {
		return errors.Errorf("not a valid utf8 string: [%x]", s)
	}
	for index, r := range s {
		if r == minUnicodeRuneValue || r == maxUnicodeRuneValue {
			return errors.Errorf("input contains unicode %#U starting at position [%d]; %#U and %#U are not allowed in the input attribute of a composite key",
				r, index, minUnicodeRuneValue, maxUnicodeRuneValue)
		}
	}
	return nil
}
