package programs

import (
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// TransferInstruction is the data of a system transfer.
type TransferInstruction struct {
	Instruction string `json:"instruction"`
	Amount      uint64 `json:"amount"`
}

// TransferData encodes a system transfer of amount.
func TransferData(amount uint64) []byte {
	return Encode(TransferInstruction{Instruction: "transfer", Amount: amount})
}

// TransferAccounts lists the accounts of a transfer from a signing source.
func TransferAccounts(from, to multisig.Address) []multisig.AccountMeta {
	return []multisig.AccountMeta{
		{Address: from, IsSigner: true, IsWritable: true},
		{Address: to, IsWritable: true},
	}
}

// System moves value between balances.
//
// Accounts: 0 source (signer, writable), 1 destination (writable).
type System struct{}

func (System) Invoke(inv *multisig.Invocation) error {
	var ix TransferInstruction
	if err := decodePayload(inv.Payload, &ix); err != nil {
		return err
	}
	if ix.Instruction != "transfer" {
		return errors.Errorf("unsupported system instruction %q", ix.Instruction)
	}

	from, err := inv.RequireSigner(0)
	if err != nil {
		return err
	}
	if _, err := inv.RequireWritable(0); err != nil {
		return err
	}
	to, err := inv.RequireWritable(1)
	if err != nil {
		return err
	}

	if err := multisig.Transfer(inv.State, from.Address, to.Address, ix.Amount); err != nil {
		return err
	}
	inv.Logf("transfer %d from %s to %s", ix.Amount, from.Address, to.Address)
	return nil
}
