package transactions

import (
	"github.com/hyperledger-labs/cc-tools/events"
	"github.com/hyperledger-labs/cc-tools/transactions"
)

// TxList is registered with the cc-tools router at start up.
var TxList = []transactions.Transaction{
	CreateWallet,
	ReadWallet,
	CreateProposal,
	ApproveProposal,
	RevokeApproval,
	CancelProposal,
	ReadProposal,
	ExecuteProposal,
	CloseProposal,
	GetBalance,
	MintBalance,
	TransferBalance,
}

// EventList holds the events emitted by TxList.
var EventList = []events.Event{
	logEvent("walletCreated", "Wallet Created", "New multisig wallet"),
	logEvent("proposalCreated", "Proposal Created", "New proposal"),
	logEvent("proposalApproved", "Proposal Approved", "Proposal approved"),
	logEvent("proposalCancelled", "Proposal Cancelled", "Proposal cancelled"),
	logEvent("proposalExecuted", "Proposal Executed", "Proposal executed"),
	logEvent("proposalClosed", "Proposal Closed", "Proposal closed"),
}

func logEvent(tag, label, baseLog string) events.Event {
	return events.Event{
		Tag:         tag,
		Label:       label,
		Description: label + " log",
		Type:        events.EventLog,
		BaseLog:     baseLog,
	}
}
