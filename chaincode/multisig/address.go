package multisig

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Seeds used for address derivation.
const (
	MultisigSeed    = "multisig"
	TransactionSeed = "transaction"
	VaultSeed       = "vault"
)

// derivationMarker separates derived addresses from certificate hashes.
const derivationMarker = "ProgramDerivedAddress"

// Address identifies a principal, a record or a program target.
type Address string

func (a Address) String() string { return string(a) }

// Derive deterministically builds an address from a list of seeds. Seeds are
// length prefixed so that ("ab","c") and ("a","bc") never collide.
func Derive(seeds ...string) Address {
	h := sha256.New()
	var n [4]byte
	for _, s := range seeds {
		binary.BigEndian.PutUint32(n[:], uint32(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	h.Write([]byte(derivationMarker))
	return Address(hex.EncodeToString(h.Sum(nil)))
}

// WalletAddress returns the address of the wallet created with walletID.
func WalletAddress(walletID string) Address {
	return Derive(MultisigSeed, walletID)
}

// VaultAddress returns the key-less vault controlled by wallet.
func VaultAddress(wallet Address) Address {
	return Derive(VaultSeed, string(wallet))
}

// ProposalAddress returns the address of proposal proposalID under wallet.
func ProposalAddress(wallet Address, proposalID string) Address {
	return Derive(TransactionSeed, string(wallet), proposalID)
}

// IdentityFromCertificate maps the DER bytes of an X.509 certificate to the
// principal identity used in owner lists.
func IdentityFromCertificate(der []byte) Address {
	sum := sha256.Sum256(der)
	return Address(hex.EncodeToString(sum[:]))
}
