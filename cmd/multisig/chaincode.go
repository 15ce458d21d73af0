package main

import (
	"github.com/hyperledger-labs/cc-tools/assets"
	"github.com/hyperledger-labs/cc-tools/events"
	tx "github.com/hyperledger-labs/cc-tools/transactions"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	pb "github.com/hyperledger/fabric-protos-go/peer"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/config"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/transactions"
)

// MultisigCC routes every invocation through the cc-tools transaction list.
type MultisigCC struct{}

// setup registers the argument types, transactions and events. It runs once
// per process.
func setup(cfg config.Config) error {
	transactions.Configure(cfg.Limits.MultisigLimits())
	if err := assets.CustomDataTypes(transactions.DataTypes); err != nil {
		return err
	}
	tx.InitHeader(tx.Header{
		Name:    "Weighted Multisig",
		Version: Version,
	})
	tx.InitTxList(transactions.TxList)
	events.InitEventList(transactions.EventList)
	if err := tx.StartupCheck(); err != nil {
		return err
	}
	return nil
}

func (t *MultisigCC) Init(stub shim.ChaincodeStubInterface) pb.Response {
	return shim.Success(nil)
}

func (t *MultisigCC) Invoke(stub shim.ChaincodeStubInterface) pb.Response {
	fn, _ := stub.GetFunctionAndParameters()
	result, err := tx.Run(stub)
	if err != nil {
		logger.Debugf("%s failed with status %d: %s", fn, err.Status(), err.Message())
		return pb.Response{
			Status:  err.Status(),
			Message: err.Message(),
		}
	}
	return shim.Success(result)
}
