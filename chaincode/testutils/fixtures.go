package testutils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/msp"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/ledger"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Identity is a client identity usable as the creator of a mock invocation.
type Identity struct {
	Name    string
	MSP     string
	PEM     []byte
	Creator []byte
	// Address is the identity as the controller sees it.
	Address multisig.Address
}

// NewIdentity issues a self-signed ECDSA certificate for name and wraps it in
// a serialized identity of mspID.
func NewIdentity(name, mspID, ou string) (*Identity, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         name,
			Organization:       []string{"org.example.com"},
			OrganizationalUnit: []string{ou},
		},
		NotBefore: time.Now().Add(-time.Hour),
		NotAfter:  time.Now().Add(24 * time.Hour),
		KeyUsage:  x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	creator, err := proto.Marshal(&msp.SerializedIdentity{
		Mspid:   mspID,
		IdBytes: certPEM,
	})
	if err != nil {
		return nil, err
	}
	return &Identity{
		Name:    name,
		MSP:     mspID,
		PEM:     certPEM,
		Creator: creator,
		Address: multisig.IdentityFromCertificate(der),
	}, nil
}

// MustIdentity is NewIdentity for test set up.
func MustIdentity(name, mspID, ou string) *Identity {
	id, err := NewIdentity(name, mspID, ou)
	if err != nil {
		panic(err)
	}
	return id
}

var (
	defaultIdentityOnce sync.Once
	defaultIdentity     *Identity
)

// DefaultIdentity is the Org1MSP admin every new mock stub starts with.
func DefaultIdentity() *Identity {
	defaultIdentityOnce.Do(func() {
		defaultIdentity = MustIdentity("Admin@org1.example.com", "Org1MSP", "admin")
	})
	return defaultIdentity
}

// TestFixtures provides common identities for unit tests
type TestFixtures struct {
	Alice *Identity
	Bob   *Identity
	Carol *Identity
	// Mallory belongs to a member org but owns no wallet.
	Mallory *Identity
}

// NewTestFixtures creates a standard set of test identities
func NewTestFixtures() *TestFixtures {
	return &TestFixtures{
		Alice:   MustIdentity("alice", "Org1MSP", "client"),
		Bob:     MustIdentity("bob", "Org1MSP", "client"),
		Carol:   MustIdentity("carol", "Org2MSP", "client"),
		Mallory: MustIdentity("mallory", "Org2MSP", "client"),
	}
}

// Owners pairs identities with weights, in order.
func Owners(ids []*Identity, weights ...uint64) []multisig.Owner {
	owners := make([]multisig.Owner, len(ids))
	for i, id := range ids {
		owners[i] = multisig.Owner{Identity: id.Address, Weight: weights[i]}
	}
	return owners
}

// Fund credits amount to addr directly in the mock state.
func Fund(mockStub *MockStub, addr multisig.Address, amount uint64) error {
	return multisig.Credit(ledger.NewStub(mockStub), addr, amount)
}

// BalanceOf reads the balance of addr from the mock state.
func BalanceOf(mockStub *MockStub, addr multisig.Address) (uint64, error) {
	return multisig.Balance(ledger.NewStub(mockStub), addr)
}

// AssertNoError fails the test when err is not nil
func AssertNoError(t testing.TB, err error, msg string) {
	t.Helper()
	require.NoError(t, err, msg)
}

// AssertEqual fails the test when expected and actual differ
func AssertEqual(t testing.TB, expected, actual interface{}, msg string) {
	t.Helper()
	require.Equal(t, expected, actual, msg)
}
