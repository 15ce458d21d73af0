package ledger

import (
	"time"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Stub exposes a chaincode stub as the controller's ledger. Fabric already
// discards the write set of a failed invocation; staging adds the same
// guarantee inside a single call.
type Stub struct {
	stub shim.ChaincodeStubInterface
}

// NewStub wraps stub.
func NewStub(stub shim.ChaincodeStubInterface) *Stub {
	return &Stub{stub: stub}
}

func (s *Stub) GetState(key string) ([]byte, error) {
	v, err := s.stub.GetState(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Stub) PutState(key string, value []byte) error {
	return s.stub.PutState(key, value)
}

func (s *Stub) DelState(key string) error {
	return s.stub.DelState(key)
}

func (s *Stub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return s.stub.CreateCompositeKey(objectType, attributes)
}

// Stage opens a write buffer over the stub.
func (s *Stub) Stage() multisig.Batch {
	return NewStaged(s)
}

// Now returns the transaction timestamp chosen by the client.
func (s *Stub) Now() (time.Time, error) {
	ts, err := s.stub.GetTxTimestamp()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to read transaction timestamp")
	}
	return time.Unix(ts.GetSeconds(), int64(ts.GetNanos())).UTC(), nil
}

// Invoker returns the identity of the client that signed the current
// invocation: the hash of its X.509 certificate.
func Invoker(stub cid.ChaincodeStubInterface) (multisig.Address, error) {
	cert, err := cid.GetX509Certificate(stub)
	if err != nil {
		return "", errors.Wrap(err, "failed to read invoker certificate")
	}
	if cert == nil {
		return "", errors.New("invoker has no X.509 certificate")
	}
	return multisig.IdentityFromCertificate(cert.Raw), nil
}
