package transactions

import (
	"github.com/hyperledger-labs/cc-tools/errors"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger-labs/cc-tools/transactions"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

var CreateWallet = transactions.Transaction{
	Tag:         "createWallet",
	Label:       "Multisig Wallet Creation",
	Description: "Creates a weighted multisig wallet and derives its vault",
	Method:      "POST",
	Callers:     memberCallers,

	Args: []transactions.Argument{
		{
			Tag:         "walletId",
			Label:       "Wallet ID",
			Description: "Seed of the wallet address",
			DataType:    "string",
			Required:    true,
		},
		{
			Tag:         "owners",
			Label:       "Owners",
			Description: "Ordered list of {identity, weight}; weights as decimal strings",
			DataType:    "[]@object",
			Required:    true,
		},
		{
			Tag:         "threshold",
			Label:       "Threshold Weight",
			Description: "Summed weight of approvals needed to execute",
			DataType:    "uint64",
			Required:    true,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		walletID, _ := req["walletId"].(string)

		owners, cerr := decodeOwners(req, "owners")
		if cerr != nil {
			return nil, cerr
		}
		threshold, cerr := uintArg(req, "threshold")
		if cerr != nil {
			return nil, cerr
		}

		ctrl, l, payer, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}

		wallet, err := ctrl.CreateWallet(l, walletID, owners, threshold, payer)
		if err != nil {
			return nil, ccError(err, "Failed to create wallet")
		}
		logger.Debugf("wallet %s created with %d owners, threshold %d", wallet.Address, len(wallet.Owners), wallet.ThresholdWeight)

		emit(stub, "walletCreated", wallet)
		return respond(wallet)
	},
}

var ReadWallet = transactions.Transaction{
	Tag:         "readWallet",
	Label:       "Read Wallet",
	Description: "Reads a multisig wallet by address",
	Method:      "GET",
	ReadOnly:    true,
	Callers:     memberCallers,

	Args: []transactions.Argument{
		{
			Tag:      "wallet",
			Label:    "Wallet Address",
			DataType: "string",
			Required: true,
		},
	},

	Routine: func(stub *sw.StubWrapper, req map[string]interface{}) ([]byte, errors.ICCError) {
		addr, _ := req["wallet"].(string)

		_, l, _, cerr := invocation(stub)
		if cerr != nil {
			return nil, cerr
		}
		wallet, err := multisig.GetWallet(l, multisig.Address(addr))
		if err != nil {
			return nil, ccError(err, "Error reading wallet")
		}
		return respond(wallet)
	},
}
