package ledger

import (
	"sort"

	"github.com/hyperledger/fabric/common/flogging"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

var logger = flogging.MustGetLogger("multisig.ledger")

// Staged buffers writes over a parent state. Reads see the buffered writes
// first. Nothing reaches the parent before Commit.
type Staged struct {
	parent  multisig.State
	writes  map[string][]byte
	deletes map[string]struct{}
	done    bool
}

// NewStaged opens a write buffer over parent.
func NewStaged(parent multisig.State) *Staged {
	return &Staged{
		parent:  parent,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (s *Staged) GetState(key string) ([]byte, error) {
	if _, ok := s.deletes[key]; ok {
		return nil, nil
	}
	if v, ok := s.writes[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return s.parent.GetState(key)
}

func (s *Staged) PutState(key string, value []byte) error {
	if s.done {
		return errors.New("write to a committed batch")
	}
	if key == "" {
		return errors.New("empty key")
	}
	delete(s.deletes, key)
	s.writes[key] = append([]byte(nil), value...)
	return nil
}

func (s *Staged) DelState(key string) error {
	if s.done {
		return errors.New("delete on a committed batch")
	}
	delete(s.writes, key)
	s.deletes[key] = struct{}{}
	return nil
}

func (s *Staged) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return s.parent.CreateCompositeKey(objectType, attributes)
}

// Commit applies the buffered writes to the parent in key order. A batch can
// be committed once.
func (s *Staged) Commit() error {
	if s.done {
		return errors.New("batch already committed")
	}
	s.done = true

	keys := make([]string, 0, len(s.writes))
	for k := range s.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.parent.PutState(k, s.writes[k]); err != nil {
			return errors.Wrapf(err, "failed to commit %q", k)
		}
	}

	dels := make([]string, 0, len(s.deletes))
	for k := range s.deletes {
		dels = append(dels, k)
	}
	sort.Strings(dels)
	for _, k := range dels {
		if err := s.parent.DelState(k); err != nil {
			return errors.Wrapf(err, "failed to commit deletion of %q", k)
		}
	}
	logger.Debugf("committed batch: %d writes, %d deletes", len(keys), len(dels))
	return nil
}
