package multisig

import (
	"github.com/pkg/errors"
)

// load reads the wallet and proposal of an operation from durable state and
// checks that they belong together.
func load(l Ledger, walletAddr, proposalAddr Address) (*Wallet, *Proposal, error) {
	w, err := GetWallet(l, walletAddr)
	if err != nil {
		return nil, nil, err
	}
	p, err := GetProposal(l, proposalAddr)
	if err != nil {
		return nil, nil, err
	}
	if p.Wallet != w.Address {
		return nil, nil, errors.Wrapf(ErrInvalidWallet, "proposal %s belongs to %s, not %s", p.Address, p.Wallet, w.Address)
	}
	return w, p, nil
}

// checkPending enforces the preconditions shared by every operation that
// advances a proposal towards execution.
func checkPending(l Ledger, w *Wallet, p *Proposal) error {
	if p.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "proposal %s", p.Address)
	}
	if p.Cancelled {
		return errors.Wrapf(ErrProposalCancelled, "proposal %s", p.Address)
	}
	if w.OwnerSetVersion != p.OwnerSetVersion {
		return errors.Wrapf(ErrOwnerSetChanged, "wallet at version %d, proposal at %d", w.OwnerSetVersion, p.OwnerSetVersion)
	}
	if p.ExpiresAt != 0 {
		now, err := l.Now()
		if err != nil {
			return errors.Wrap(err, "failed to read invocation time")
		}
		if p.expired(now) {
			return errors.Wrapf(ErrProposalExpired, "proposal %s expired at %d", p.Address, p.ExpiresAt)
		}
	}
	return nil
}

// Approve appends approver to the proposal's signers.
func (c *Controller) Approve(l Ledger, walletAddr, proposalAddr, approver Address) (*Proposal, error) {
	w, p, err := load(l, walletAddr, proposalAddr)
	if err != nil {
		return nil, err
	}
	if err := checkPending(l, w, p); err != nil {
		return nil, err
	}
	if !w.IsOwner(approver) {
		return nil, errors.Wrapf(ErrNotOwner, "%s is not an owner of wallet %s", approver, w.Address)
	}
	if p.HasSigned(approver) {
		return nil, errors.Wrapf(ErrAlreadySigned, "%s on proposal %s", approver, p.Address)
	}

	p.Signers = append(p.Signers, approver)
	if err := putProposal(l, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Revoke withdraws a previously given approval.
func (c *Controller) Revoke(l Ledger, walletAddr, proposalAddr, owner Address) (*Proposal, error) {
	w, p, err := load(l, walletAddr, proposalAddr)
	if err != nil {
		return nil, err
	}
	if err := checkPending(l, w, p); err != nil {
		return nil, err
	}
	if !w.IsOwner(owner) {
		return nil, errors.Wrapf(ErrNotOwner, "%s is not an owner of wallet %s", owner, w.Address)
	}
	if !p.HasSigned(owner) {
		return nil, errors.Wrapf(ErrNotSigned, "%s on proposal %s", owner, p.Address)
	}

	signers := make([]Address, 0, len(p.Signers)-1)
	for _, s := range p.Signers {
		if s != owner {
			signers = append(signers, s)
		}
	}
	p.Signers = signers
	if err := putProposal(l, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Cancel makes an unexecuted proposal terminal. Only its proposer may cancel,
// also after the owner set changed.
func (c *Controller) Cancel(l Ledger, walletAddr, proposalAddr, requester Address) (*Proposal, error) {
	_, p, err := load(l, walletAddr, proposalAddr)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %s", p.Address)
	}
	if p.Cancelled {
		return nil, errors.Wrapf(ErrAlreadyCancelled, "proposal %s", p.Address)
	}
	if p.Proposer != requester {
		return nil, errors.Wrapf(ErrNotProposer, "%s did not propose %s", requester, p.Address)
	}

	p.Cancelled = true
	if err := putProposal(l, p); err != nil {
		return nil, err
	}
	return p, nil
}
