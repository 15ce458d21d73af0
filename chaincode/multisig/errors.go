package multisig

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wallet configuration errors.
var (
	ErrNoOwners              = errors.New("no owners provided")
	ErrDuplicateOwner        = errors.New("owners must be unique")
	ErrInvalidOwnerWeight    = errors.New("owner weight must be greater than 0")
	ErrThresholdZero         = errors.New("threshold must be greater than 0")
	ErrThresholdExceedsTotal = errors.New("threshold must be less than or equal to the total weight")
	ErrTooManyOwners         = errors.New("maximum number of owners exceeded")
	ErrOwnerNotFound         = errors.New("owner not found")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
)

// Authorization errors.
var (
	ErrNotOwner          = errors.New("not an owner")
	ErrNotProposer       = errors.New("only the proposer can cancel")
	ErrUnauthorizedClose = errors.New("only the proposer or a current owner can close")
)

// Proposal state errors.
var (
	ErrAlreadySigned      = errors.New("already signed")
	ErrNotSigned          = errors.New("owner has not signed this proposal")
	ErrAlreadyExecuted    = errors.New("proposal already executed")
	ErrNotExecuted        = errors.New("proposal not executed yet")
	ErrProposalCancelled  = errors.New("proposal cancelled")
	ErrAlreadyCancelled   = errors.New("proposal already cancelled")
	ErrProposalExpired    = errors.New("proposal has expired")
	ErrOwnerSetChanged    = errors.New("owner set has changed since proposal creation")
	ErrInsufficientWeight = errors.New("insufficient signers weight")
	ErrInvalidWallet      = errors.New("proposal belongs to another wallet")
)

// Execution errors.
var (
	ErrAccountMismatch     = errors.New("account list does not match the proposal")
	ErrInstructionFailed   = errors.New("instruction execution failed")
	ErrUnknownProgram      = errors.New("unknown program")
	ErrMissingSignature    = errors.New("missing required signature")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTooManyInstructions = errors.New("too many instructions")
	ErrTooManyAccounts     = errors.New("too many accounts in instruction")
	ErrDataTooLarge        = errors.New("instruction data too large")
)

// Record errors.
var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrWalletExists     = errors.New("wallet already exists")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrProposalExists   = errors.New("proposal already exists")
)

// InstructionError reports which sub-operation of a batch failed. It matches
// ErrInstructionFailed and unwraps to the program's error.
type InstructionError struct {
	Index  int
	Target Address
	Err    error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d (%s) failed: %v", e.Index, e.Target, e.Err)
}

func (e *InstructionError) Unwrap() error { return e.Err }

func (e *InstructionError) Is(target error) bool { return target == ErrInstructionFailed }
