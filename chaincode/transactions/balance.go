package transactions

import (
	"github.com/hyperledger-labs/cc-tools/errors"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger-labs/cc-tools/transactions"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

type balanceResponse struct {
	Address multisig.Address `json:"address"`
	Balance uint64           `json:"balance"`
}

var GetBalance = transactions.Transaction{
	Tag:         "getBalance",
	Label:       "Get Balance",
	Description: "Returns the value held by an address",
	Method:      "GET",
	ReadOnly:    true,
	Callers:     memberCallers,

	Args: []transactions.Argument{
		{
			Tag:         "address",
			Label:       "Address",
			Description: "Identity, vault or any other address; defaults to the invoker",
			DataType:    "string",
			Required:    false,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		addr, _ := req["address"].(string)

		_, l, invoker, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}
		if addr == "" {
			addr = string(invoker)
		}

		balance, err := multisig.Balance(l, multisig.Address(addr))
		if err != nil {
			return nil, ccError(err, "Error reading balance")
		}
		return respond(balanceResponse{Address: multisig.Address(addr), Balance: balance})
	},
}

var MintBalance = transactions.Transaction{
	Tag:         "mintBalance",
	Label:       "Mint Balance",
	Description: "Credits new value to an address",
	Method:      "POST",
	Callers:     adminCallers,

	Args: []transactions.Argument{
		{
			Tag:      "address",
			Label:    "Address",
			DataType: "string",
			Required: true,
		},
		{
			Tag:      "amount",
			Label:    "Amount",
			DataType: "uint64",
			Required: true,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		addr, _ := req["address"].(string)
		amount, cerr := uintArg(req, "amount")
		if cerr != nil {
			return nil, cerr
		}

		_, l, _, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		if err := multisig.Credit(l, multisig.Address(addr), amount); err != nil {
			return nil, ccError(err, "Failed to mint")
		}
		balance, err := multisig.Balance(l, multisig.Address(addr))
		if err != nil {
			return nil, ccError(err, "Error reading balance")
		}
		logger.Debugf("minted %d to %s", amount, addr)
		return respond(balanceResponse{Address: multisig.Address(addr), Balance: balance})
	},
}

var TransferBalance = transactions.Transaction{
	Tag:         "transferBalance",
	Label:       "Transfer Balance",
	Description: "Moves value from the invoker to another address, such as a vault",
	Method:      "PUT",
	Callers:     memberCallers,

	Args: []transactions.Argument{
		{
			Tag:      "to",
			Label:    "Recipient",
			DataType: "string",
			Required: true,
		},
		{
			Tag:      "amount",
			Label:    "Amount",
			DataType: "uint64",
			Required: true,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		to, _ := req["to"].(string)
		amount, cerr := uintArg(req, "amount")
		if cerr != nil {
			return nil, cerr
		}

		_, l, from, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		b := l.Stage()
		if err := multisig.Transfer(b, from, multisig.Address(to), amount); err != nil {
			return nil, ccError(err, "Failed to transfer")
		}
		if err := b.Commit(); err != nil {
			return nil, errors.WrapError(err, "Failed to commit transfer")
		}
		balance, err := multisig.Balance(l, from)
		if err != nil {
			return nil, ccError(err, "Error reading balance")
		}
		return respond(balanceResponse{Address: from, Balance: balance})
	},
}
