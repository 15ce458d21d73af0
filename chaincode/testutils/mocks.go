package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/protobuf/ptypes/timestamp"
	sw "github.com/hyperledger-labs/cc-tools/stubwrapper"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/ledger"
)

// ChaincodeCall records one InvokeChaincode issued through the mock.
type ChaincodeCall struct {
	Name    string
	Channel string
	Args    []string
}

// MockStub simulates the Fabric ledger for unit tests without a running
// network. Stub methods the multisig chaincode never calls are left to the
// embedded interface and panic if reached.
type MockStub struct {
	shim.ChaincodeStubInterface

	State        map[string][]byte // State stores key-value pairs simulating the ledger
	TransientMap map[string][]byte // TransientMap stores transient data for the current transaction
	TxID         string            // TxID is the simulated transaction ID
	ChannelID    string            // ChannelID is the simulated channel name
	Creator      []byte            // Creator is the serialized identity of the invoker
	Invocations  []string          // Invocations tracks state calls for verification

	// Timestamp is returned by GetTxTimestamp; the zero value means now.
	Timestamp time.Time
	// Events holds every event set during the transaction, by name.
	Events map[string][]byte
	// ChaincodeCalls records calls to other chaincodes.
	ChaincodeCalls []ChaincodeCall
	// ChaincodeResponse, when set, answers InvokeChaincode.
	ChaincodeResponse func(name string, args [][]byte, channel string) peer.Response
}

// NewMockStub creates a new mock stub with initialized state. Its creator is
// an Org1MSP admin.
func NewMockStub() *MockStub {
	return &MockStub{
		State:        make(map[string][]byte),
		TransientMap: make(map[string][]byte),
		TxID:         "mock-tx-id",
		ChannelID:    "mock-channel",
		Creator:      DefaultIdentity().Creator,
		Invocations:  []string{},
		Events:       make(map[string][]byte),
	}
}

// SetInvoker makes id the creator of the following invocations.
func (m *MockStub) SetInvoker(id *Identity) {
	m.Creator = id.Creator
}

// GetState retrieves the value for a given key from mock state
func (m *MockStub) GetState(key string) ([]byte, error) {
	m.Invocations = append(m.Invocations, fmt.Sprintf("GetState:%s", key))
	return m.State[key], nil
}

// PutState stores a key-value pair in mock state. An empty value deletes.
func (m *MockStub) PutState(key string, value []byte) error {
	m.Invocations = append(m.Invocations, fmt.Sprintf("PutState:%s", key))
	if len(value) == 0 {
		delete(m.State, key)
		return nil
	}
	m.State[key] = value
	return nil
}

// DelState removes a key from mock state
func (m *MockStub) DelState(key string) error {
	m.Invocations = append(m.Invocations, fmt.Sprintf("DeleteState:%s", key))
	delete(m.State, key)
	return nil
}

// CreateCompositeKey creates a composite key in the shim's format
func (m *MockStub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return ledger.CompositeKey(objectType, attributes)
}

// SplitCompositeKey splits a composite key
func (m *MockStub) SplitCompositeKey(compositeKey string) (string, []string, error) {
	parts := strings.Split(strings.TrimPrefix(compositeKey, "\x00"), "\x00")
	if len(parts) < 2 {
		return "", nil, fmt.Errorf("not a composite key: %q", compositeKey)
	}
	return parts[0], parts[1 : len(parts)-1], nil
}

// KeysWithPrefix lists the state keys of objectType.
func (m *MockStub) KeysWithPrefix(objectType string) []string {
	prefix := "\x00" + objectType + "\x00"
	var keys []string
	for k := range m.State {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// GetTransient returns the transient map
func (m *MockStub) GetTransient() (map[string][]byte, error) {
	return m.TransientMap, nil
}

// GetTxID returns the transaction ID
func (m *MockStub) GetTxID() string {
	return m.TxID
}

// GetChannelID returns the channel ID
func (m *MockStub) GetChannelID() string {
	return m.ChannelID
}

// GetTxTimestamp returns Timestamp, or the current time when it is unset
func (m *MockStub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	now := m.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	return &timestamp.Timestamp{
		Seconds: now.Unix(),
		Nanos:   int32(now.Nanosecond()),
	}, nil
}

// GetCreator returns the transaction creator
func (m *MockStub) GetCreator() ([]byte, error) {
	return m.Creator, nil
}

// GetDecorations is a no-op
func (m *MockStub) GetDecorations() map[string][]byte {
	return make(map[string][]byte)
}

// GetSignedProposal returns nil
func (m *MockStub) GetSignedProposal() (*peer.SignedProposal, error) {
	return nil, nil
}

// SetEvent records the event payload
func (m *MockStub) SetEvent(name string, payload []byte) error {
	m.Events[name] = payload
	return nil
}

// InvokeChaincode records the call and answers with ChaincodeResponse, or
// success when it is unset.
func (m *MockStub) InvokeChaincode(chaincodeName string, args [][]byte, channel string) peer.Response {
	call := ChaincodeCall{Name: chaincodeName, Channel: channel}
	for _, a := range args {
		call.Args = append(call.Args, string(a))
	}
	m.ChaincodeCalls = append(m.ChaincodeCalls, call)
	if m.ChaincodeResponse != nil {
		return m.ChaincodeResponse(chaincodeName, args, channel)
	}
	return shim.Success(nil)
}

// MockStubWrapper wraps MockStub for cc-tools compatibility
type MockStubWrapper struct {
	*sw.StubWrapper
	mockStub *MockStub
}

// NewMockStubWrapper creates a wrapped mock stub
func NewMockStubWrapper() (*MockStubWrapper, *MockStub) {
	mockStub := NewMockStub()
	wrapper := &sw.StubWrapper{
		Stub: mockStub,
	}
	return &MockStubWrapper{
		StubWrapper: wrapper,
		mockStub:    mockStub,
	}, mockStub
}

// GetMockStub returns the underlying mock stub for assertions
func (m *MockStubWrapper) GetMockStub() *MockStub {
	return m.mockStub
}
