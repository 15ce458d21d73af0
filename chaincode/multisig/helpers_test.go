package multisig_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/ledger"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/programs"
)

const (
	alice   multisig.Address = "alice"
	bob     multisig.Address = "bob"
	carol   multisig.Address = "carol"
	mallory multisig.Address = "mallory"
	dest    multisig.Address = "destination"
)

type harness struct {
	t      *testing.T
	l      *ledger.Memory
	router *multisig.Router
	ctrl   *multisig.Controller
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithLimits(t, multisig.DefaultLimits())
}

func newHarnessWithLimits(t *testing.T, limits multisig.Limits) *harness {
	h := &harness{
		t:      t,
		l:      ledger.NewMemory(),
		router: programs.NewRouter(limits, nil),
		now:    time.Unix(1700000000, 0).UTC(),
	}
	h.l.Clock = func() time.Time { return h.now }
	h.ctrl = multisig.NewController(limits, h.router)
	return h
}

func (h *harness) wallet(id string, threshold uint64, owners ...multisig.Owner) *multisig.Wallet {
	w, err := h.ctrl.CreateWallet(h.l, id, owners, threshold, alice)
	require.NoError(h.t, err)
	return w
}

func (h *harness) propose(w *multisig.Wallet, id string, proposer multisig.Address, ixs ...multisig.Instruction) *multisig.Proposal {
	p, err := h.ctrl.CreateProposal(h.l, multisig.ProposalRequest{
		Wallet:       w.Address,
		ProposalID:   id,
		Instructions: ixs,
		Proposer:     proposer,
	})
	require.NoError(h.t, err)
	return p
}

func (h *harness) approve(w *multisig.Wallet, p *multisig.Proposal, who multisig.Address) {
	_, err := h.ctrl.Approve(h.l, w.Address, p.Address, who)
	require.NoError(h.t, err)
}

func (h *harness) execute(w *multisig.Wallet, p *multisig.Proposal, caller multisig.Address) (*multisig.ExecuteResult, error) {
	return h.ctrl.Execute(h.l, multisig.ExecuteRequest{
		Wallet:   w.Address,
		Proposal: p.Address,
		Caller:   caller,
		Accounts: accountsOf(p.Instructions...),
	})
}

func (h *harness) fund(addr multisig.Address, amount uint64) {
	require.NoError(h.t, multisig.Credit(h.l, addr, amount))
}

func (h *harness) balance(addr multisig.Address) uint64 {
	b, err := multisig.Balance(h.l, addr)
	require.NoError(h.t, err)
	return b
}

func (h *harness) reload(p *multisig.Proposal) *multisig.Proposal {
	got, err := multisig.GetProposal(h.l, p.Address)
	require.NoError(h.t, err)
	return got
}

func owner(id multisig.Address, weight uint64) multisig.Owner {
	return multisig.Owner{Identity: id, Weight: weight}
}

func transfer(from, to multisig.Address, amount uint64) multisig.Instruction {
	return multisig.Instruction{
		Target:   programs.SystemProgram,
		Accounts: programs.TransferAccounts(from, to),
		Data:     programs.TransferData(amount),
	}
}

func governance(w *multisig.Wallet, ix programs.GovernanceInstruction) multisig.Instruction {
	return multisig.Instruction{
		Target:   programs.GovernanceProgram,
		Accounts: programs.GovernanceAccounts(w.Address),
		Data:     programs.Encode(ix),
	}
}

func accountsOf(ixs ...multisig.Instruction) []multisig.AccountMeta {
	var out []multisig.AccountMeta
	for _, ix := range ixs {
		for _, a := range ix.Accounts {
			out = append(out, multisig.AccountMeta{Address: a.Address})
		}
	}
	return out
}

func govSetOwners(owners ...multisig.Owner) programs.GovernanceInstruction {
	return programs.GovernanceInstruction{
		Instruction: programs.SetOwners,
		Owners:      owners,
		Threshold:   1,
	}
}
