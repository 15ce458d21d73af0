package programs

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Memo records its UTF-8 payload in the execution logs. Every account passed
// to it must have signed.
type Memo struct{}

func (Memo) Invoke(inv *multisig.Invocation) error {
	if !utf8.Valid(inv.Payload) {
		return errors.New("memo is not valid utf8")
	}
	for i := range inv.Accounts {
		if _, err := inv.RequireSigner(i); err != nil {
			return err
		}
	}
	inv.Logf("memo (len %d): %q", len(inv.Payload), inv.Payload)
	return nil
}
