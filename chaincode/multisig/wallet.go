package multisig

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Owner is a weighted principal of a wallet.
type Owner struct {
	Identity Address `json:"identity"`
	Weight   uint64  `json:"weight"`
}

// Wallet is the owner registry of one vault.
type Wallet struct {
	Address         Address `json:"address"`
	WalletID        string  `json:"walletId"`
	Owners          []Owner `json:"owners"`
	ThresholdWeight uint64  `json:"thresholdWeight"`
	// OwnerSetVersion is bumped by every owner or threshold change.
	// Proposals snapshot it at creation.
	OwnerSetVersion uint64  `json:"ownerSetVersion"`
	Vault           Address `json:"vault"`
	Payer           Address `json:"payer"`
}

// TotalWeight sums the weights of all owners.
func TotalWeight(owners []Owner) (uint64, error) {
	var total uint64
	for _, o := range owners {
		var carry uint64
		total, carry = bits.Add64(total, o.Weight, 0)
		if carry != 0 {
			return 0, ErrArithmeticOverflow
		}
	}
	return total, nil
}

// ValidateOwners checks the registry invariants for an owner list and a
// threshold. The first violated rule is reported.
func ValidateOwners(owners []Owner, threshold uint64, maxOwners int) error {
	if len(owners) == 0 {
		return ErrNoOwners
	}
	if maxOwners > 0 && len(owners) > maxOwners {
		return errors.Wrapf(ErrTooManyOwners, "%d owners, limit %d", len(owners), maxOwners)
	}
	for _, o := range owners {
		if o.Weight == 0 {
			return errors.Wrapf(ErrInvalidOwnerWeight, "owner %s", o.Identity)
		}
	}
	seen := make(map[Address]struct{}, len(owners))
	for _, o := range owners {
		if _, dup := seen[o.Identity]; dup {
			return errors.Wrapf(ErrDuplicateOwner, "owner %s", o.Identity)
		}
		seen[o.Identity] = struct{}{}
	}
	if threshold == 0 {
		return ErrThresholdZero
	}
	total, err := TotalWeight(owners)
	if err != nil {
		return err
	}
	if threshold > total {
		return errors.Wrapf(ErrThresholdExceedsTotal, "threshold %d, total weight %d", threshold, total)
	}
	return nil
}

// Owner returns the registered owner with the given identity.
func (w *Wallet) Owner(id Address) (Owner, bool) {
	for _, o := range w.Owners {
		if o.Identity == id {
			return o, true
		}
	}
	return Owner{}, false
}

// IsOwner reports whether id is a current owner.
func (w *Wallet) IsOwner(id Address) bool {
	_, ok := w.Owner(id)
	return ok
}

// WeightOf sums the registered weight of the given signers. Identities that
// are not current owners contribute nothing.
func (w *Wallet) WeightOf(signers []Address) (uint64, error) {
	var sum uint64
	for _, s := range signers {
		o, ok := w.Owner(s)
		if !ok {
			continue
		}
		var carry uint64
		sum, carry = bits.Add64(sum, o.Weight, 0)
		if carry != 0 {
			return 0, ErrArithmeticOverflow
		}
	}
	return sum, nil
}

// SetOwners replaces the registry and the threshold.
func (w *Wallet) SetOwners(owners []Owner, threshold uint64, maxOwners int) error {
	if err := ValidateOwners(owners, threshold, maxOwners); err != nil {
		return err
	}
	w.Owners = append([]Owner(nil), owners...)
	w.ThresholdWeight = threshold
	w.OwnerSetVersion++
	return nil
}

// ChangeThreshold sets a new threshold weight.
func (w *Wallet) ChangeThreshold(threshold uint64) error {
	if err := ValidateOwners(w.Owners, threshold, 0); err != nil {
		return err
	}
	w.ThresholdWeight = threshold
	w.OwnerSetVersion++
	return nil
}

// ChangeOwnerWeight sets the weight of an existing owner.
func (w *Wallet) ChangeOwnerWeight(id Address, weight uint64) error {
	owners := append([]Owner(nil), w.Owners...)
	found := false
	for i := range owners {
		if owners[i].Identity == id {
			owners[i].Weight = weight
			found = true
			break
		}
	}
	if !found {
		return errors.Wrapf(ErrOwnerNotFound, "owner %s", id)
	}
	if err := ValidateOwners(owners, w.ThresholdWeight, 0); err != nil {
		return err
	}
	w.Owners = owners
	w.OwnerSetVersion++
	return nil
}

// CreateWallet validates the owner list and persists a new wallet keyed by
// walletID. The vault address is derived from the wallet address.
func (c *Controller) CreateWallet(l Ledger, walletID string, owners []Owner, threshold uint64, payer Address) (*Wallet, error) {
	if err := ValidateOwners(owners, threshold, c.limits.MaxOwners); err != nil {
		return nil, err
	}

	addr := WalletAddress(walletID)
	if _, err := GetWallet(l, addr); err == nil {
		return nil, errors.Wrapf(ErrWalletExists, "wallet %s", walletID)
	} else if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	w := &Wallet{
		Address:         addr,
		WalletID:        walletID,
		Owners:          append([]Owner(nil), owners...),
		ThresholdWeight: threshold,
		OwnerSetVersion: 0,
		Vault:           VaultAddress(addr),
		Payer:           payer,
	}
	if err := PutWallet(l, w); err != nil {
		return nil, err
	}
	return w, nil
}
