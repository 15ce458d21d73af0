package transactions

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/hyperledger-labs/cc-tools/errors"
	"github.com/hyperledger-labs/cc-tools/transactions"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/programs"
	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/testutils"
)

var defaultTestLimits = multisig.DefaultLimits()

// args builds a request map with the shapes cc-tools hands to a routine.
func args(kv ...interface{}) map[string]interface{} {
	req := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		req[kv[i].(string)] = kv[i+1]
	}
	return req
}

func ownersArg(owners ...multisig.Owner) []interface{} {
	out := make([]interface{}, len(owners))
	for i, o := range owners {
		out[i] = map[string]interface{}{"identity": string(o.Identity), "weight": strconv.FormatUint(o.Weight, 10)}
	}
	return out
}

func instructionArg(ix multisig.Instruction) map[string]interface{} {
	accounts := make([]interface{}, len(ix.Accounts))
	for i, a := range ix.Accounts {
		accounts[i] = map[string]interface{}{
			"address":    string(a.Address),
			"isSigner":   a.IsSigner,
			"isWritable": a.IsWritable,
		}
	}
	return map[string]interface{}{
		"target":   string(ix.Target),
		"accounts": accounts,
		"data":     base64.StdEncoding.EncodeToString(ix.Data),
	}
}

func accountsArg(addrs ...multisig.Address) []interface{} {
	out := make([]interface{}, len(addrs))
	for i, a := range addrs {
		out[i] = map[string]interface{}{"address": string(a)}
	}
	return out
}

func decode(raw []byte, v interface{}) {
	ExpectWithOffset(1, json.Unmarshal(raw, v)).To(Succeed())
}

func statusOf(err errors.ICCError) int32 {
	ExpectWithOffset(1, err).To(HaveOccurred())
	return err.Status()
}

var _ = Describe("Multisig transactions", func() {
	var (
		f       *testutils.TestFixtures
		wrapper *testutils.MockStubWrapper
		stub    *testutils.MockStub
		wallet  multisig.Wallet
		dest    multisig.Address
	)

	call := func(tx transactions.Transaction, as *testutils.Identity, req map[string]interface{}) ([]byte, errors.ICCError) {
		stub.SetInvoker(as)
		return tx.Routine(wrapper.StubWrapper, req)
	}

	mustCall := func(tx transactions.Transaction, as *testutils.Identity, req map[string]interface{}) []byte {
		res, err := call(tx, as, req)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return res
	}

	balanceOf := func(addr multisig.Address) uint64 {
		var b balanceResponse
		decode(mustCall(GetBalance, f.Alice, args("address", string(addr))), &b)
		return b.Balance
	}

	propose := func(id string, as *testutils.Identity, ixs ...multisig.Instruction) multisig.Proposal {
		list := make([]interface{}, len(ixs))
		for i, ix := range ixs {
			list[i] = instructionArg(ix)
		}
		var p multisig.Proposal
		decode(mustCall(CreateProposal, as, args(
			"wallet", string(wallet.Address),
			"proposalId", id,
			"instructions", list,
		)), &p)
		return p
	}

	BeforeEach(func() {
		f = testutils.NewTestFixtures()
		wrapper, stub = testutils.NewMockStubWrapper()
		dest = f.Mallory.Address

		raw := mustCall(CreateWallet, f.Alice, args(
			"walletId", "treasury",
			"owners", ownersArg(
				multisig.Owner{Identity: f.Alice.Address, Weight: 2},
				multisig.Owner{Identity: f.Bob.Address, Weight: 2},
				multisig.Owner{Identity: f.Carol.Address, Weight: 1},
			),
			"threshold", float64(3),
		))
		decode(raw, &wallet)

		mustCall(MintBalance, testutils.DefaultIdentity(), args("address", string(f.Alice.Address), "amount", float64(100)))
		mustCall(TransferBalance, f.Alice, args("to", string(wallet.Vault), "amount", float64(100)))
	})

	Describe("createWallet", func() {
		It("stores the wallet under its derived address", func() {
			Expect(wallet.Address).To(Equal(multisig.WalletAddress("treasury")))
			Expect(wallet.Vault).To(Equal(multisig.VaultAddress(wallet.Address)))
			Expect(wallet.Payer).To(Equal(f.Alice.Address))
			Expect(wallet.ThresholdWeight).To(Equal(uint64(3)))

			var read multisig.Wallet
			decode(mustCall(ReadWallet, f.Bob, args("wallet", string(wallet.Address))), &read)
			Expect(read).To(Equal(wallet))
		})

		It("rejects an existing wallet id", func() {
			_, err := call(CreateWallet, f.Bob, args(
				"walletId", "treasury",
				"owners", ownersArg(multisig.Owner{Identity: f.Bob.Address, Weight: 1}),
				"threshold", float64(1),
			))
			Expect(statusOf(err)).To(Equal(int32(409)))
		})

		It("rejects a threshold above the total weight", func() {
			_, err := call(CreateWallet, f.Bob, args(
				"walletId", "small",
				"owners", ownersArg(multisig.Owner{Identity: f.Bob.Address, Weight: 1}),
				"threshold", float64(2),
			))
			Expect(statusOf(err)).To(Equal(int32(400)))
			Expect(err.Error()).To(ContainSubstring("total weight"))
		})

		It("reports unknown wallets", func() {
			_, err := call(ReadWallet, f.Bob, args("wallet", "nope"))
			Expect(statusOf(err)).To(Equal(int32(404)))
		})
	})

	Describe("proposal lifecycle", func() {
		var p multisig.Proposal

		BeforeEach(func() {
			Expect(balanceOf(wallet.Vault)).To(Equal(uint64(100)))
			p = propose("pay-mallory", f.Alice, multisig.Instruction{
				Target:   programs.SystemProgram,
				Accounts: programs.TransferAccounts(wallet.Vault, dest),
				Data:     programs.TransferData(40),
			})
		})

		It("starts signed by the proposer", func() {
			Expect(p.Address).To(Equal(multisig.ProposalAddress(wallet.Address, "pay-mallory")))
			Expect(p.Signers).To(Equal([]multisig.Address{f.Alice.Address}))
		})

		It("executes once the threshold weight is reached", func() {
			execArgs := args(
				"wallet", string(wallet.Address),
				"proposal", string(p.Address),
				"accounts", accountsArg(wallet.Vault, dest),
			)

			_, err := call(ExecuteProposal, f.Alice, execArgs)
			Expect(statusOf(err)).To(Equal(int32(409)))
			Expect(err.Error()).To(ContainSubstring("insufficient"))

			var approved multisig.Proposal
			decode(mustCall(ApproveProposal, f.Carol, args("wallet", string(wallet.Address), "proposal", string(p.Address))), &approved)
			Expect(approved.Signers).To(ConsistOf(f.Alice.Address, f.Carol.Address))

			var result struct {
				Proposal multisig.Proposal `json:"proposal"`
				Logs     []string          `json:"logs"`
			}
			decode(mustCall(ExecuteProposal, f.Bob, execArgs), &result)
			Expect(result.Proposal.Executed).To(BeTrue())
			Expect(result.Logs).To(HaveLen(1))

			Expect(balanceOf(wallet.Vault)).To(Equal(uint64(60)))
			Expect(balanceOf(dest)).To(Equal(uint64(40)))

			_, err = call(ExecuteProposal, f.Bob, execArgs)
			Expect(statusOf(err)).To(Equal(int32(409)))
			Expect(balanceOf(wallet.Vault)).To(Equal(uint64(60)))
		})

		It("rejects approvals from non-owners and repeat approvals", func() {
			_, err := call(ApproveProposal, f.Mallory, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(403)))

			_, err = call(ApproveProposal, f.Alice, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(409)))
		})

		It("withdraws an approval", func() {
			mustCall(ApproveProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			var revoked multisig.Proposal
			decode(mustCall(RevokeApproval, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address))), &revoked)
			Expect(revoked.Signers).To(Equal([]multisig.Address{f.Alice.Address}))
		})

		It("fails with a mismatched account list", func() {
			mustCall(ApproveProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			_, err := call(ExecuteProposal, f.Bob, args(
				"wallet", string(wallet.Address),
				"proposal", string(p.Address),
				"accounts", accountsArg(wallet.Vault, f.Bob.Address),
			))
			Expect(statusOf(err)).To(Equal(int32(400)))
			Expect(balanceOf(wallet.Vault)).To(Equal(uint64(100)))
		})

		It("rejects expired proposals", func() {
			stub.Timestamp = time.Unix(1700000000, 0)
			var expiring multisig.Proposal
			decode(mustCall(CreateProposal, f.Alice, args(
				"wallet", string(wallet.Address),
				"proposalId", "short-lived",
				"instructions", []interface{}{},
				"expiresAt", "1700000060",
			)), &expiring)

			_, err := call(CreateProposal, f.Alice, args(
				"wallet", string(wallet.Address),
				"proposalId", "stillborn",
				"instructions", []interface{}{},
				"expiresAt", "1700000000",
			))
			Expect(statusOf(err)).To(Equal(int32(409)))

			stub.Timestamp = time.Unix(1700000060, 0)
			_, err = call(ApproveProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(expiring.Address)))
			Expect(statusOf(err)).To(Equal(int32(409)))
			Expect(err.Error()).To(ContainSubstring("expired"))
		})

		It("cancels and closes a proposal", func() {
			_, err := call(CancelProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(403)))

			_, err = call(CloseProposal, f.Alice, args("proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(409)))

			var cancelled multisig.Proposal
			decode(mustCall(CancelProposal, f.Alice, args("wallet", string(wallet.Address), "proposal", string(p.Address))), &cancelled)
			Expect(cancelled.Cancelled).To(BeTrue())

			_, err = call(CloseProposal, f.Mallory, args("proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(403)))

			Expect(stub.KeysWithPrefix("proposal")).To(HaveLen(1))
			mustCall(CloseProposal, f.Bob, args("proposal", string(p.Address)))
			Expect(stub.KeysWithPrefix("proposal")).To(BeEmpty())
			_, err = call(ReadProposal, f.Bob, args("proposal", string(p.Address)))
			Expect(statusOf(err)).To(Equal(int32(404)))
		})
	})

	Describe("memo instructions", func() {
		It("carries the memo in the execution event", func() {
			p := propose("note", f.Alice, multisig.Instruction{
				Target: programs.MemoProgram,
				Data:   []byte("quarterly payout"),
			})
			mustCall(ApproveProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			mustCall(ExecuteProposal, f.Bob, args(
				"wallet", string(wallet.Address),
				"proposal", string(p.Address),
			))

			Expect(stub.Events).To(HaveKey("proposalExecuted"))
			var event struct {
				Logs []string `json:"logs"`
			}
			decode(stub.Events["proposalExecuted"], &event)
			Expect(event.Logs).To(ConsistOf(ContainSubstring("quarterly payout")))
		})
	})

	Describe("external chaincode instructions", func() {
		It("forwards the call with the vault as signer", func() {
			p := propose("release", f.Alice, multisig.Instruction{
				Target:   "chaincode:escrow@payments",
				Accounts: []multisig.AccountMeta{{Address: wallet.Vault, IsSigner: true}},
				Data:     programs.Encode(programs.ChaincodeCall{Args: []string{"release", "parcel-1"}}),
			})
			mustCall(ApproveProposal, f.Bob, args("wallet", string(wallet.Address), "proposal", string(p.Address)))
			mustCall(ExecuteProposal, f.Bob, args(
				"wallet", string(wallet.Address),
				"proposal", string(p.Address),
				"accounts", accountsArg(wallet.Vault),
			))

			Expect(stub.ChaincodeCalls).To(HaveLen(1))
			Expect(stub.ChaincodeCalls[0]).To(Equal(testutils.ChaincodeCall{
				Name:    "escrow",
				Channel: "payments",
				Args:    []string{"release", "parcel-1", string(wallet.Vault)},
			}))
		})
	})

	Describe("balances", func() {
		It("defaults to the invoker", func() {
			mustCall(MintBalance, testutils.DefaultIdentity(), args("address", string(f.Bob.Address), "amount", float64(7)))
			var b balanceResponse
			decode(mustCall(GetBalance, f.Bob, args()), &b)
			Expect(b).To(Equal(balanceResponse{Address: f.Bob.Address, Balance: 7}))
		})

		It("keeps amounts beyond float precision", func() {
			mustCall(MintBalance, testutils.DefaultIdentity(), args("address", string(f.Bob.Address), "amount", "9007199254740993"))
			Expect(balanceOf(f.Bob.Address)).To(Equal(uint64(9007199254740993)))

			_, err := call(MintBalance, testutils.DefaultIdentity(), args("address", string(f.Bob.Address), "amount", float64(1<<53)))
			Expect(statusOf(err)).To(Equal(int32(400)))
			Expect(balanceOf(f.Bob.Address)).To(Equal(uint64(9007199254740993)))
		})

		It("refuses to overdraw", func() {
			_, err := call(TransferBalance, f.Carol, args("to", string(f.Bob.Address), "amount", float64(1)))
			Expect(statusOf(err)).To(Equal(int32(400)))
		})
	})
})
