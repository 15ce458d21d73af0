package transactions

import (
	"math"

	"github.com/hyperledger-labs/cc-tools/errors"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger-labs/cc-tools/transactions"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

var walletArg = transactions.Argument{
	Tag:         "wallet",
	Label:       "Wallet Address",
	Description: "Address of the multisig wallet",
	DataType:    "string",
	Required:    true,
}

var proposalArg = transactions.Argument{
	Tag:         "proposal",
	Label:       "Proposal Address",
	Description: "Address of the proposal",
	DataType:    "string",
	Required:    true,
}

var CreateProposal = transactions.Transaction{
	Tag:         "createProposal",
	Label:       "Proposal Creation",
	Description: "Proposes a batch of instructions; the proposer signs it",
	Method:      "POST",
	Callers:     memberCallers,

	Args: []transactions.Argument{
		walletArg,
		{
			Tag:         "proposalId",
			Label:       "Proposal ID",
			Description: "Seed of the proposal address, unique per wallet",
			DataType:    "string",
			Required:    true,
		},
		{
			Tag:         "instructions",
			Label:       "Instructions",
			Description: "Ordered list of {target, accounts, data}",
			DataType:    "[]@object",
			Required:    true,
		},
		{
			Tag:         "expiresAt",
			Label:       "Expires At",
			Description: "Unix time after which the proposal can no longer be approved or executed",
			DataType:    "uint64",
			Required:    false,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletAddr, _ := req["wallet"].(string)
		proposalID, _ := req["proposalId"].(string)

		var instructions []multisig.Instruction
		if err := decodeArg(req, "instructions", &instructions); err != nil {
			return nil, err
		}
		var expiresAt int64
		if _, ok := req["expiresAt"]; ok {
			v, err := uintArg(req, "expiresAt")
			if err != nil {
				return nil, err
			}
			if v > math.MaxInt64 {
				return nil, errors.NewCCError("Invalid argument expiresAt: out of range", 400)
			}
			expiresAt = int64(v)
		}

		ctrl, l, proposer, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		proposal, err := ctrl.CreateProposal(l, multisig.ProposalRequest{
			Wallet:       multisig.Address(walletAddr),
			ProposalID:   proposalID,
			Instructions: instructions,
			Proposer:     proposer,
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			return nil, ccError(err, "Failed to create proposal")
		}
		logger.Debugf("proposal %s created on wallet %s with %d instructions", proposal.Address, walletAddr, len(proposal.Instructions))

		emit(stub, "proposalCreated", proposal)
		return respond(proposal)
	},
}

var ApproveProposal = transactions.Transaction{
	Tag:         "approveProposal",
	Label:       "Approve Proposal",
	Description: "Adds the invoker's approval to a proposal",
	Method:      "PUT",
	Callers:     memberCallers,

	Args: []transactions.Argument{walletArg, proposalArg},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletAddr, _ := req["wallet"].(string)
		proposalAddr, _ := req["proposal"].(string)

		ctrl, l, approver, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		proposal, err := ctrl.Approve(l, multisig.Address(walletAddr), multisig.Address(proposalAddr), approver)
		if err != nil {
			return nil, ccError(err, "Failed to approve proposal")
		}

		emit(stub, "proposalApproved", map[string]interface{}{
			"proposal": proposal.Address,
			"approver": approver,
			"signers":  proposal.Signers,
		})
		return respond(proposal)
	},
}

var RevokeApproval = transactions.Transaction{
	Tag:         "revokeApproval",
	Label:       "Revoke Approval",
	Description: "Withdraws the invoker's approval from a pending proposal",
	Method:      "PUT",
	Callers:     memberCallers,

	Args: []transactions.Argument{walletArg, proposalArg},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletAddr, _ := req["wallet"].(string)
		proposalAddr, _ := req["proposal"].(string)

		ctrl, l, owner, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		proposal, err := ctrl.Revoke(l, multisig.Address(walletAddr), multisig.Address(proposalAddr), owner)
		if err != nil {
			return nil, ccError(err, "Failed to revoke approval")
		}
		return respond(proposal)
	},
}

var CancelProposal = transactions.Transaction{
	Tag:         "cancelProposal",
	Label:       "Cancel Proposal",
	Description: "Cancels an unexecuted proposal; proposer only",
	Method:      "PUT",
	Callers:     memberCallers,

	Args: []transactions.Argument{walletArg, proposalArg},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletAddr, _ := req["wallet"].(string)
		proposalAddr, _ := req["proposal"].(string)

		ctrl, l, requester, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		proposal, err := ctrl.Cancel(l, multisig.Address(walletAddr), multisig.Address(proposalAddr), requester)
		if err != nil {
			return nil, ccError(err, "Failed to cancel proposal")
		}

		emit(stub, "proposalCancelled", proposal)
		return respond(proposal)
	},
}

var ReadProposal = transactions.Transaction{
	Tag:         "readProposal",
	Label:       "Read Proposal",
	Description: "Reads a proposal by address",
	Method:      "GET",
	ReadOnly:    true,
	Callers:     memberCallers,

	Args: []transactions.Argument{proposalArg},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		proposalAddr, _ := req["proposal"].(string)

		_, l, _, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}
		proposal, err := multisig.GetProposal(l, multisig.Address(proposalAddr))
		if err != nil {
			return nil, ccError(err, "Error reading proposal")
		}
		return respond(proposal)
	},
}
