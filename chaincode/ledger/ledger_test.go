package ledger

import (
	"testing"
	"time"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagedReadsOwnWrites(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.PutState("a", []byte("1")))
	require.NoError(t, m.PutState("b", []byte("2")))

	s := NewStaged(m)
	require.NoError(t, s.PutState("a", []byte("10")))
	require.NoError(t, s.DelState("b"))
	require.NoError(t, s.PutState("c", []byte("3")))

	v, err := s.GetState("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("10"), v)
	v, err = s.GetState("b")
	require.NoError(t, err)
	assert.Nil(t, v)

	// parent untouched until commit
	assert.Equal(t, []byte("1"), m.State["a"])
	assert.Equal(t, []byte("2"), m.State["b"])
	assert.NotContains(t, m.State, "c")

	require.NoError(t, s.Commit())
	assert.Equal(t, []byte("10"), m.State["a"])
	assert.NotContains(t, m.State, "b")
	assert.Equal(t, []byte("3"), m.State["c"])

	assert.Error(t, s.Commit())
	assert.Error(t, s.PutState("d", []byte("4")))
}

func TestStagedDiscard(t *testing.T) {
	m := NewMemory()
	s := m.Stage()
	require.NoError(t, s.PutState("a", []byte("1")))
	assert.Empty(t, m.State)
}

func TestStagedPutAfterDelete(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.PutState("a", []byte("1")))
	s := NewStaged(m)
	require.NoError(t, s.DelState("a"))
	require.NoError(t, s.PutState("a", []byte("2")))
	require.NoError(t, s.Commit())
	assert.Equal(t, []byte("2"), m.State["a"])
}

func TestCompositeKeyMatchesShim(t *testing.T) {
	stub := shimtest.NewMockStub("multisig", nil)

	want, err := stub.CreateCompositeKey("proposal", []string{"abc", "def"})
	require.NoError(t, err)
	got, err := CompositeKey("proposal", []string{"abc", "def"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = CompositeKey("proposal", []string{"a\x00b"})
	assert.Error(t, err)
	_, err = CompositeKey("proposal", []string{string([]byte{0xff})})
	assert.Error(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte("x")
	require.NoError(t, m.PutState("k", v))
	v[0] = 'y'
	got, err := m.GetState("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	assert.Error(t, m.PutState("", v))
}

func TestStubAdapter(t *testing.T) {
	mock := shimtest.NewMockStub("multisig", nil)
	mock.MockTransactionStart("tx1")
	defer mock.MockTransactionEnd("tx1")
	mock.TxTimestamp = &timestamp.Timestamp{Seconds: 1700000000, Nanos: 5}

	s := NewStub(mock)
	now, err := s.Now()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 5).UTC(), now)

	b := s.Stage()
	require.NoError(t, b.PutState("k", []byte("v")))
	v, err := s.GetState("k")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, b.Commit())
	v, err = s.GetState("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
