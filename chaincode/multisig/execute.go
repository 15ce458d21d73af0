package multisig

import (
	"github.com/pkg/errors"
)

var errCapabilityNotSerializable = errors.New("vault capability cannot be serialized")

// Capability lets the execution engine sign for a wallet's vault without a
// private key. It is minted per execution and never leaves this package.
type Capability struct {
	vault Address
}

func mintCapability(w *Wallet) Capability {
	return Capability{vault: VaultAddress(w.Address)}
}

func (c Capability) signs(addr Address) bool {
	return c.vault != "" && addr == c.vault
}

// MarshalJSON always fails.
func (Capability) MarshalJSON() ([]byte, error) {
	return nil, errCapabilityNotSerializable
}

// ExecuteRequest carries the inputs of Execute.
type ExecuteRequest struct {
	Wallet   Address
	Proposal Address
	// Caller relays the execution and must be a current owner.
	Caller Address
	// Accounts is the flat account list threaded through the instructions
	// in order. Only the addresses are used; flags come from the proposal.
	Accounts []AccountMeta
}

// ExecuteResult reports a successful execution.
type ExecuteResult struct {
	Proposal *Proposal
	Logs     []string
}

// Execute replays the instructions of an approved proposal through the vault
// capability. Either every instruction takes effect and the proposal is
// marked executed, or nothing is written.
func (c *Controller) Execute(l Ledger, req ExecuteRequest) (*ExecuteResult, error) {
	w, p, err := load(l, req.Wallet, req.Proposal)
	if err != nil {
		return nil, err
	}
	if err := checkPending(l, w, p); err != nil {
		return nil, err
	}
	if !w.IsOwner(req.Caller) {
		return nil, errors.Wrapf(ErrNotOwner, "%s is not an owner of wallet %s", req.Caller, w.Address)
	}
	weight, err := w.WeightOf(p.Signers)
	if err != nil {
		return nil, err
	}
	if weight < w.ThresholdWeight {
		return nil, errors.Wrapf(ErrInsufficientWeight, "signed weight %d, threshold %d", weight, w.ThresholdWeight)
	}

	batches, err := matchAccounts(p, req.Accounts)
	if err != nil {
		return nil, err
	}

	now, err := l.Now()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read invocation time")
	}

	capability := mintCapability(w)
	staged := l.Stage()
	var logs []string
	for i, ix := range p.Instructions {
		prog, ok := c.programs.Lookup(ix.Target)
		if !ok {
			return nil, &InstructionError{Index: i, Target: ix.Target, Err: ErrUnknownProgram}
		}

		accounts := make([]AccountInfo, len(batches[i]))
		for j, rec := range ix.Accounts {
			accounts[j] = AccountInfo{
				Address:    rec.Address,
				IsSigner:   rec.IsSigner && (capability.signs(rec.Address) || rec.Address == req.Caller),
				IsWritable: rec.IsWritable,
			}
		}

		inv := &Invocation{
			State:    staged,
			Target:   ix.Target,
			Accounts: accounts,
			Payload:  append([]byte(nil), ix.Data...),
			Now:      now,
		}
		if err := prog.Invoke(inv); err != nil {
			return nil, &InstructionError{Index: i, Target: ix.Target, Err: err}
		}
		logs = append(logs, inv.Logs()...)
	}

	p.Executed = true
	if err := putProposal(staged, p); err != nil {
		return nil, err
	}
	if err := staged.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit execution")
	}
	return &ExecuteResult{Proposal: p, Logs: logs}, nil
}

// matchAccounts splits the caller's flat account list into one slice per
// instruction and checks every address against the recorded one.
func matchAccounts(p *Proposal, flat []AccountMeta) ([][]AccountMeta, error) {
	if want := p.AccountCount(); len(flat) != want {
		return nil, errors.Wrapf(ErrAccountMismatch, "got %d accounts, proposal needs %d", len(flat), want)
	}
	out := make([][]AccountMeta, len(p.Instructions))
	cursor := 0
	for i, ix := range p.Instructions {
		n := len(ix.Accounts)
		batch := flat[cursor : cursor+n]
		for j, rec := range ix.Accounts {
			if batch[j].Address != rec.Address {
				return nil, errors.Wrapf(ErrAccountMismatch, "instruction %d account %d: got %s, recorded %s", i, j, batch[j].Address, rec.Address)
			}
		}
		out[i] = batch
		cursor += n
	}
	return out, nil
}
