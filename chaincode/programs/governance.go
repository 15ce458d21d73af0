package programs

import (
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Governance instructions.
const (
	SetOwners         = "setOwners"
	ChangeThreshold   = "changeThreshold"
	ChangeOwnerWeight = "changeOwnerWeight"
)

// GovernanceInstruction is the data of an owner management instruction.
type GovernanceInstruction struct {
	Instruction string           `json:"instruction"`
	Owners      []multisig.Owner `json:"owners,omitempty"`
	Threshold   uint64           `json:"threshold,omitempty"`
	Owner       multisig.Address `json:"owner,omitempty"`
	Weight      uint64           `json:"weight,omitempty"`
}

// GovernanceAccounts lists the accounts of an owner management instruction
// on wallet.
func GovernanceAccounts(wallet multisig.Address) []multisig.AccountMeta {
	return []multisig.AccountMeta{
		{Address: wallet, IsWritable: true},
		{Address: multisig.VaultAddress(wallet), IsSigner: true},
	}
}

// Governance changes the owner registry of a wallet. It acts only when the
// wallet's own vault signed, which happens solely through an executed
// proposal of that wallet. Each change bumps the owner set version.
//
// Accounts: 0 wallet (writable), 1 vault of the wallet (signer).
type Governance struct {
	MaxOwners int
}

func (g Governance) Invoke(inv *multisig.Invocation) error {
	var ix GovernanceInstruction
	if err := decodePayload(inv.Payload, &ix); err != nil {
		return err
	}

	walletAcc, err := inv.RequireWritable(0)
	if err != nil {
		return err
	}
	vaultAcc, err := inv.RequireSigner(1)
	if err != nil {
		return err
	}
	if vaultAcc.Address != multisig.VaultAddress(walletAcc.Address) {
		return errors.Wrapf(multisig.ErrMissingSignature, "vault of wallet %s did not sign", walletAcc.Address)
	}

	w, err := multisig.GetWallet(inv.State, walletAcc.Address)
	if err != nil {
		return err
	}
	before := w.OwnerSetVersion

	switch ix.Instruction {
	case SetOwners:
		err = w.SetOwners(ix.Owners, ix.Threshold, g.MaxOwners)
	case ChangeThreshold:
		err = w.ChangeThreshold(ix.Threshold)
	case ChangeOwnerWeight:
		err = w.ChangeOwnerWeight(ix.Owner, ix.Weight)
	default:
		err = errors.Errorf("unsupported governance instruction %q", ix.Instruction)
	}
	if err != nil {
		return err
	}

	if err := multisig.PutWallet(inv.State, w); err != nil {
		return err
	}
	logger.Debugf("wallet %s: %s, owner set version %d -> %d", w.Address, ix.Instruction, before, w.OwnerSetVersion)
	inv.Logf("%s on wallet %s, owner set version %d", ix.Instruction, w.Address, w.OwnerSetVersion)
	return nil
}
