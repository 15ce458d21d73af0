package multisig

import (
	"encoding/json"
	"math/bits"
	"time"

	"github.com/pkg/errors"
)

// AccountMeta is an account reference recorded in an instruction.
type AccountMeta struct {
	Address    Address `json:"address"`
	IsSigner   bool    `json:"isSigner"`
	IsWritable bool    `json:"isWritable"`
}

// Instruction is one sub-operation of a proposal.
type Instruction struct {
	Target   Address       `json:"target"`
	Accounts []AccountMeta `json:"accounts"`
	Data     []byte        `json:"data"`
}

// Proposal is a batch of instructions waiting for weighted approval.
type Proposal struct {
	Address      Address       `json:"address"`
	ProposalID   string        `json:"proposalId"`
	Wallet       Address       `json:"wallet"`
	Proposer     Address       `json:"proposer"`
	Instructions []Instruction `json:"instructions"`
	// Signers is kept in approval order and never holds duplicates.
	Signers         []Address `json:"signers"`
	OwnerSetVersion uint64    `json:"ownerSetVersion"`
	Executed        bool      `json:"executed"`
	Cancelled       bool      `json:"cancelled"`
	// ExpiresAt is a unix timestamp in seconds; zero never expires.
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	Deposit   uint64 `json:"deposit"`
}

// AccountCount is the length of the flat account list Execute expects.
func (p *Proposal) AccountCount() int {
	n := 0
	for _, ix := range p.Instructions {
		n += len(ix.Accounts)
	}
	return n
}

// HasSigned reports whether id already approved.
func (p *Proposal) HasSigned(id Address) bool {
	for _, s := range p.Signers {
		if s == id {
			return true
		}
	}
	return false
}

// Terminal reports whether the proposal can be closed.
func (p *Proposal) Terminal() bool { return p.Executed || p.Cancelled }

func (p *Proposal) expired(now time.Time) bool {
	return p.ExpiresAt != 0 && now.Unix() >= p.ExpiresAt
}

// ProposalRequest carries the inputs of CreateProposal.
type ProposalRequest struct {
	Wallet       Address
	ProposalID   string
	Instructions []Instruction
	Proposer     Address
	ExpiresAt    int64
}

func (c *Controller) validateInstructions(ixs []Instruction) error {
	if c.limits.MaxInstructions > 0 && len(ixs) > c.limits.MaxInstructions {
		return errors.Wrapf(ErrTooManyInstructions, "%d instructions, limit %d", len(ixs), c.limits.MaxInstructions)
	}
	for i, ix := range ixs {
		if c.limits.MaxAccountsPerInstruction > 0 && len(ix.Accounts) > c.limits.MaxAccountsPerInstruction {
			return errors.Wrapf(ErrTooManyAccounts, "instruction %d has %d accounts, limit %d", i, len(ix.Accounts), c.limits.MaxAccountsPerInstruction)
		}
		if c.limits.MaxPayloadSize > 0 && len(ix.Data) > c.limits.MaxPayloadSize {
			return errors.Wrapf(ErrDataTooLarge, "instruction %d carries %d bytes, limit %d", i, len(ix.Data), c.limits.MaxPayloadSize)
		}
	}
	return nil
}

func copyInstructions(ixs []Instruction) []Instruction {
	out := make([]Instruction, len(ixs))
	for i, ix := range ixs {
		out[i] = Instruction{
			Target:   ix.Target,
			Accounts: append([]AccountMeta(nil), ix.Accounts...),
			Data:     append([]byte(nil), ix.Data...),
		}
	}
	return out
}

// CreateProposal stores a new proposal signed by its proposer. The proposer
// pays the storage deposit, which Close hands back.
func (c *Controller) CreateProposal(l Ledger, req ProposalRequest) (*Proposal, error) {
	w, err := GetWallet(l, req.Wallet)
	if err != nil {
		return nil, err
	}
	if !w.IsOwner(req.Proposer) {
		return nil, errors.Wrapf(ErrNotOwner, "%s is not an owner of wallet %s", req.Proposer, w.Address)
	}
	if err := c.validateInstructions(req.Instructions); err != nil {
		return nil, err
	}
	if req.ExpiresAt != 0 {
		now, err := l.Now()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read invocation time")
		}
		if now.Unix() >= req.ExpiresAt {
			return nil, errors.Wrapf(ErrProposalExpired, "expiry %d is not after %d", req.ExpiresAt, now.Unix())
		}
	}

	addr := ProposalAddress(w.Address, req.ProposalID)
	if _, err := GetProposal(l, addr); err == nil {
		return nil, errors.Wrapf(ErrProposalExists, "proposal %s", req.ProposalID)
	} else if !errors.Is(err, ErrProposalNotFound) {
		return nil, err
	}

	p := &Proposal{
		Address:         addr,
		ProposalID:      req.ProposalID,
		Wallet:          w.Address,
		Proposer:        req.Proposer,
		Instructions:    copyInstructions(req.Instructions),
		Signers:         []Address{req.Proposer},
		OwnerSetVersion: w.OwnerSetVersion,
		ExpiresAt:       req.ExpiresAt,
	}

	b := l.Stage()
	if c.limits.DepositPerByte > 0 {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(err, "failed to size proposal")
		}
		hi, lo := bits.Mul64(c.limits.DepositPerByte, uint64(len(raw)))
		if hi != 0 {
			return nil, errors.Wrap(ErrArithmeticOverflow, "storage deposit")
		}
		p.Deposit = lo
		if err := Debit(b, req.Proposer, p.Deposit); err != nil {
			return nil, err
		}
	}
	if err := putProposal(b, p); err != nil {
		return nil, err
	}
	if err := b.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit proposal")
	}
	return p, nil
}
