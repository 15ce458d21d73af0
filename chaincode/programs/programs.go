// Package programs holds the built-in targets a proposal can invoke.
package programs

import (
	"encoding/json"

	"github.com/hyperledger/fabric/common/flogging"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

var logger = flogging.MustGetLogger("multisig.programs")

// Well-known program targets.
const (
	SystemProgram     multisig.Address = "system"
	MemoProgram       multisig.Address = "memo"
	GovernanceProgram multisig.Address = "governance"
	// ChaincodePrefix marks targets forwarded to another chaincode, written
	// as "chaincode:<name>" or "chaincode:<name>@<channel>".
	ChaincodePrefix = "chaincode:"
)

// Register binds the built-in programs on r. Targets with ChaincodePrefix
// are forwarded through invoker; a nil invoker leaves them unresolved.
func Register(r *multisig.Router, limits multisig.Limits, invoker Invoker) {
	r.Register(SystemProgram, System{})
	r.Register(MemoProgram, Memo{})
	r.Register(GovernanceProgram, Governance{MaxOwners: limits.MaxOwners})
	if invoker != nil {
		r.Fallback(ChaincodeResolver(invoker))
	}
}

// NewRouter returns a router with the built-in programs registered.
func NewRouter(limits multisig.Limits, invoker Invoker) *multisig.Router {
	r := multisig.NewRouter()
	Register(r, limits, invoker)
	return r
}

func decodePayload(payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return errors.Wrap(err, "malformed instruction data")
	}
	return nil
}

// Encode marshals instruction data for a built-in program.
func Encode(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
