package multisig

import (
	"github.com/pkg/errors"
)

// Close erases a terminal proposal and pays its storage deposit to
// recipient, or to the proposer when recipient is empty. The requester must
// be the proposer or a current owner. Only the proposer may send the deposit
// anywhere but back to the proposer.
func (c *Controller) Close(l Ledger, proposalAddr, requester, recipient Address) (*Proposal, error) {
	p, err := GetProposal(l, proposalAddr)
	if err != nil {
		return nil, err
	}
	if !p.Terminal() {
		return nil, errors.Wrapf(ErrNotExecuted, "proposal %s", p.Address)
	}
	if requester != p.Proposer {
		w, err := GetWallet(l, p.Wallet)
		if err != nil {
			return nil, err
		}
		if !w.IsOwner(requester) {
			return nil, errors.Wrapf(ErrUnauthorizedClose, "%s may not close %s", requester, p.Address)
		}
		if recipient != "" && recipient != p.Proposer {
			return nil, errors.Wrapf(ErrUnauthorizedClose, "deposit of %s belongs to its proposer %s", p.Address, p.Proposer)
		}
	}
	if recipient == "" {
		recipient = p.Proposer
	}

	b := l.Stage()
	if p.Deposit > 0 {
		if err := Credit(b, recipient, p.Deposit); err != nil {
			return nil, err
		}
	}
	if err := deleteProposal(b, p.Address); err != nil {
		return nil, err
	}
	if err := b.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit close")
	}
	return p, nil
}
