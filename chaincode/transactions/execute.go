package transactions

import (
	"github.com/hyperledger-labs/cc-tools/errors"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger-labs/cc-tools/transactions"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

var ExecuteProposal = transactions.Transaction{
	Tag:         "executeProposal",
	Label:       "Execute Proposal",
	Description: "Runs the instructions of an approved proposal as the wallet's vault",
	Method:      "POST",
	Callers:     memberCallers,

	Args: []transactions.Argument{
		walletArg,
		proposalArg,
		{
			Tag:         "accounts",
			Label:       "Accounts",
			Description: "Flat list of {address} for every instruction, in order",
			DataType:    "[]@object",
			Required:    false,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletAddr, _ := req["wallet"].(string)
		proposalAddr, _ := req["proposal"].(string)

		var accounts []multisig.AccountMeta
		if _, ok := req["accounts"]; ok {
			if err := decodeArg(req, "accounts", &accounts); err != nil {
				return nil, err
			}
		}

		ctrl, l, caller, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		result, err := ctrl.Execute(l, multisig.ExecuteRequest{
			Wallet:   multisig.Address(walletAddr),
			Proposal: multisig.Address(proposalAddr),
			Caller:   caller,
			Accounts: accounts,
		})
		if err != nil {
			logger.Infof("execution of %s rejected: %s", proposalAddr, err)
			return nil, ccError(err, "Failed to execute proposal")
		}
		logger.Infof("proposal %s executed by %s", proposalAddr, caller)

		response := map[string]interface{}{
			"proposal": result.Proposal,
			"logs":     result.Logs,
		}
		emit(stub, "proposalExecuted", response)
		return respond(response)
	},
}

var CloseProposal = transactions.Transaction{
	Tag:         "closeProposal",
	Label:       "Close Proposal",
	Description: "Erases an executed or cancelled proposal and refunds its deposit",
	Method:      "DELETE",
	Callers:     memberCallers,

	Args: []transactions.Argument{
		proposalArg,
		{
			Tag:         "recipient",
			Label:       "Recipient",
			Description: "Receives the storage deposit; defaults to the proposer",
			DataType:    "string",
			Required:    false,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		proposalAddr, _ := req["proposal"].(string)
		recipient, _ := req["recipient"].(string)

		ctrl, l, requester, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		proposal, err := ctrl.Close(l, multisig.Address(proposalAddr), requester, multisig.Address(recipient))
		if err != nil {
			return nil, ccError(err, "Failed to close proposal")
		}
		if recipient == "" {
			recipient = string(proposal.Proposer)
		}

		emit(stub, "proposalClosed", map[string]interface{}{
			"proposal":  proposal.Address,
			"recipient": recipient,
			"refund":    proposal.Deposit,
		})
		return respond(proposal)
	},
}
