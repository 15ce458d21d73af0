package programs

import (
	"strings"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Invoker calls another chaincode within the current transaction.
// shim.ChaincodeStubInterface satisfies it.
type Invoker interface {
	InvokeChaincode(chaincodeName string, args [][]byte, channel string) peer.Response
}

// ChaincodeCall is the data of a forwarded instruction.
type ChaincodeCall struct {
	Args []string `json:"args"`
}

// Chaincode forwards an instruction to another chaincode. The addresses of
// the signing accounts are appended to the arguments so that the callee can
// check who authorized the call.
type Chaincode struct {
	Name    string
	Channel string
	Invoker Invoker
}

func (c Chaincode) Invoke(inv *multisig.Invocation) error {
	var call ChaincodeCall
	if err := decodePayload(inv.Payload, &call); err != nil {
		return err
	}
	if len(call.Args) == 0 {
		return errors.New("chaincode call without a function name")
	}

	args := make([][]byte, 0, len(call.Args)+len(inv.Accounts))
	for _, a := range call.Args {
		args = append(args, []byte(a))
	}
	for _, acc := range inv.Accounts {
		if acc.IsSigner {
			args = append(args, []byte(acc.Address))
		}
	}

	resp := c.Invoker.InvokeChaincode(c.Name, args, c.Channel)
	if resp.Status >= shim.ERRORTHRESHOLD {
		return errors.Errorf("chaincode %s returned %d: %s", c.Name, resp.Status, resp.Message)
	}
	inv.Logf("invoked chaincode %s %s", c.Name, call.Args[0])
	return nil
}

// ChaincodeResolver resolves "chaincode:<name>[@<channel>]" targets.
func ChaincodeResolver(invoker Invoker) func(multisig.Address) (multisig.Program, bool) {
	return func(target multisig.Address) (multisig.Program, bool) {
		s := string(target)
		if !strings.HasPrefix(s, ChaincodePrefix) {
			return nil, false
		}
		name, channel := strings.TrimPrefix(s, ChaincodePrefix), ""
		if i := strings.LastIndex(name, "@"); i >= 0 {
			name, channel = name[:i], name[i+1:]
		}
		if name == "" {
			return nil, false
		}
		return Chaincode{Name: name, Channel: channel, Invoker: invoker}, true
	}
}
