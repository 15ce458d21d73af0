package transactions

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger-labs/cc-tools/accesscontrol"
	"github.com/hyperledger-labs/cc-tools/errors"
	"github.com/hyperledger-labs/cc-tools/events"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger/fabric/common/flogging"
	pkgerrors "github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/ledger"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/programs"
)

var logger = flogging.MustGetLogger("multisig.chaincode")

var limits = multisig.DefaultLimits()

// Configure sets the limits enforced by every transaction. It is called once
// at start up.
func Configure(l multisig.Limits) {
	limits = l
}

// memberCallers may invoke the multisig transactions; owner checks happen in
// the controller.
var memberCallers = []accesscontrol.Caller{
	{MSP: "Org1MSP"},
	{MSP: "Org2MSP"},
}

var adminCallers = []accesscontrol.Caller{
	{MSP: "Org1MSP", OU: "admin"},
	{MSP: "Org2MSP", OU: "admin"},
}

// invocation binds the controller to the ledger of the current call and
// resolves who signed it.
func invocation(stub *sw.StubWrapper) (*multisig.Controller, *ledger.Stub, multisig.Address, errors.ICCError) {
	invoker, err := ledger.Invoker(stub.Stub)
	if err != nil {
		return nil, nil, "", errors.WrapErrorWithStatus(err, "Unable to identify invoker", 401)
	}
	router := programs.NewRouter(limits, stub.Stub)
	return multisig.NewController(limits, router), ledger.NewStub(stub.Stub), invoker, nil
}

var errorStatus = []struct {
	err    error
	status int32
}{
	{multisig.ErrWalletNotFound, 404},
	{multisig.ErrProposalNotFound, 404},
	{multisig.ErrNotOwner, 403},
	{multisig.ErrNotProposer, 403},
	{multisig.ErrUnauthorizedClose, 403},
	{multisig.ErrWalletExists, 409},
	{multisig.ErrProposalExists, 409},
	{multisig.ErrAlreadySigned, 409},
	{multisig.ErrNotSigned, 409},
	{multisig.ErrAlreadyExecuted, 409},
	{multisig.ErrNotExecuted, 409},
	{multisig.ErrAlreadyCancelled, 409},
	{multisig.ErrProposalCancelled, 409},
	{multisig.ErrProposalExpired, 409},
	{multisig.ErrOwnerSetChanged, 409},
	{multisig.ErrInsufficientWeight, 409},
	{multisig.ErrInstructionFailed, 422},
}

// ccError converts a controller error to a cc-tools error carrying a status
// the client can act on.
func ccError(err error, msg string) errors.ICCError {
	for _, e := range errorStatus {
		if pkgerrors.Is(err, e.err) {
			return errors.WrapErrorWithStatus(err, msg, e.status)
		}
	}
	return errors.WrapErrorWithStatus(err, msg, 400)
}

// decodeArg converts a parsed cc-tools argument into v through its JSON form.
func decodeArg(req map[string]interface{}, tag string, v interface{}) errors.ICCError {
	raw, ok := req[tag]
	if !ok || raw == nil {
		return errors.NewCCError(fmt.Sprintf("Missing argument %s", tag), 400)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return errors.WrapErrorWithStatus(err, fmt.Sprintf("Invalid argument %s", tag), 400)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.WrapErrorWithStatus(err, fmt.Sprintf("Invalid argument %s", tag), 400)
	}
	return nil
}

func respond(v interface{}) ([]byte, errors.ICCError) {
	respJSON, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapError(err, "failed to encode response to JSON format")
	}
	return respJSON, nil
}

func emit(stub *sw.StubWrapper, event string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Warnf("failed to encode %s event: %s", event, err)
		return
	}
	if cerr := events.CallEvent(stub, event, payload); cerr != nil {
		logger.Warnf("failed to emit %s event: %s", event, cerr.Error())
	}
}
