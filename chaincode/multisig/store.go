package multisig

import (
	"encoding/json"
	"math/bits"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Object types of the composite keys written by the controller.
const (
	walletObjectType   = "multisig"
	proposalObjectType = "proposal"
	balanceObjectType  = "balance"
)

// State is durable keyed storage. A nil value from GetState means the key is
// absent.
type State interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	CreateCompositeKey(objectType string, attributes []string) (string, error)
}

// Batch is a staged view over a State. Writes stay invisible to the
// underlying State until Commit.
type Batch interface {
	State
	Commit() error
}

// Ledger is the substrate seen by one invocation.
type Ledger interface {
	State
	// Stage opens an all-or-nothing write set over the ledger.
	Stage() Batch
	// Now is the timestamp of the current invocation.
	Now() (time.Time, error)
}

func walletKey(st State, addr Address) (string, error) {
	return st.CreateCompositeKey(walletObjectType, []string{string(addr)})
}

func proposalKey(st State, addr Address) (string, error) {
	return st.CreateCompositeKey(proposalObjectType, []string{string(addr)})
}

func balanceKey(st State, addr Address) (string, error) {
	return st.CreateCompositeKey(balanceObjectType, []string{string(addr)})
}

func getRecord(st State, key string, v interface{}) (bool, error) {
	raw, err := st.GetState(key)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %q", key)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrapf(err, "failed to decode %q", key)
	}
	return true, nil
}

func putRecord(st State, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode record")
	}
	return errors.Wrapf(st.PutState(key, raw), "failed to write %q", key)
}

// GetWallet loads the wallet stored at addr.
func GetWallet(st State, addr Address) (*Wallet, error) {
	key, err := walletKey(st, addr)
	if err != nil {
		return nil, err
	}
	w := &Wallet{}
	found, err := getRecord(st, key, w)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrWalletNotFound, "wallet %s", addr)
	}
	return w, nil
}

// PutWallet persists w under its address.
func PutWallet(st State, w *Wallet) error {
	key, err := walletKey(st, w.Address)
	if err != nil {
		return err
	}
	return putRecord(st, key, w)
}

// GetProposal loads the proposal stored at addr.
func GetProposal(st State, addr Address) (*Proposal, error) {
	key, err := proposalKey(st, addr)
	if err != nil {
		return nil, err
	}
	p := &Proposal{}
	found, err := getRecord(st, key, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrProposalNotFound, "proposal %s", addr)
	}
	return p, nil
}

func putProposal(st State, p *Proposal) error {
	key, err := proposalKey(st, p.Address)
	if err != nil {
		return err
	}
	return putRecord(st, key, p)
}

func deleteProposal(st State, addr Address) error {
	key, err := proposalKey(st, addr)
	if err != nil {
		return err
	}
	return errors.Wrapf(st.DelState(key), "failed to delete %q", key)
}

// Balance returns the value held by addr.
func Balance(st State, addr Address) (uint64, error) {
	key, err := balanceKey(st, addr)
	if err != nil {
		return 0, err
	}
	raw, err := st.GetState(key)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read balance of %s", addr)
	}
	if raw == nil {
		return 0, nil
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "corrupt balance of %s", addr)
	}
	return v, nil
}

func setBalance(st State, addr Address, v uint64) error {
	key, err := balanceKey(st, addr)
	if err != nil {
		return err
	}
	if v == 0 {
		return errors.Wrapf(st.DelState(key), "failed to clear balance of %s", addr)
	}
	return errors.Wrapf(st.PutState(key, []byte(strconv.FormatUint(v, 10))), "failed to write balance of %s", addr)
}

// Credit adds amount to the balance of addr.
func Credit(st State, addr Address, amount uint64) error {
	cur, err := Balance(st, addr)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(cur, amount, 0)
	if carry != 0 {
		return errors.Wrapf(ErrArithmeticOverflow, "crediting %d to %s", amount, addr)
	}
	return setBalance(st, addr, sum)
}

// Debit removes amount from the balance of addr.
func Debit(st State, addr Address, amount uint64) error {
	cur, err := Balance(st, addr)
	if err != nil {
		return err
	}
	if cur < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, needs %d", addr, cur, amount)
	}
	return setBalance(st, addr, cur-amount)
}

// Transfer moves amount from one address to another.
func Transfer(st State, from, to Address, amount uint64) error {
	if err := Debit(st, from, amount); err != nil {
		return err
	}
	return Credit(st, to, amount)
}
