package multisig

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

//go:generate counterfeiter -o multisigfakes/fake_program.go . Program

// Program is the target of a sub-operation.
type Program interface {
	Invoke(inv *Invocation) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(inv *Invocation) error

// Invoke calls f(inv).
func (f ProgramFunc) Invoke(inv *Invocation) error { return f(inv) }

// AccountInfo is an account handed to a program. IsSigner is true only when
// the invocation actually carries the account's authorization.
type AccountInfo struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Invocation is one sub-operation call.
type Invocation struct {
	// State is the staged ledger of the running execution.
	State    State
	Target   Address
	Accounts []AccountInfo
	Payload  []byte
	Now      time.Time

	logs []string
}

// Account returns the i-th account or an AccountMismatch error.
func (inv *Invocation) Account(i int) (AccountInfo, error) {
	if i < 0 || i >= len(inv.Accounts) {
		return AccountInfo{}, errors.Wrapf(ErrAccountMismatch, "program %s expects account #%d, got %d accounts", inv.Target, i, len(inv.Accounts))
	}
	return inv.Accounts[i], nil
}

// RequireSigner fails unless the i-th account signed the invocation.
func (inv *Invocation) RequireSigner(i int) (AccountInfo, error) {
	acc, err := inv.Account(i)
	if err != nil {
		return acc, err
	}
	if !acc.IsSigner {
		return acc, errors.Wrapf(ErrMissingSignature, "account %s", acc.Address)
	}
	return acc, nil
}

// RequireWritable fails unless the i-th account was passed writable.
func (inv *Invocation) RequireWritable(i int) (AccountInfo, error) {
	acc, err := inv.Account(i)
	if err != nil {
		return acc, err
	}
	if !acc.IsWritable {
		return acc, errors.Errorf("account %s is not writable", acc.Address)
	}
	return acc, nil
}

// Logf appends a program log line reported with the execution result.
func (inv *Invocation) Logf(format string, args ...interface{}) {
	inv.logs = append(inv.logs, fmt.Sprintf(format, args...))
}

// Logs returns the lines logged so far.
func (inv *Invocation) Logs() []string { return inv.logs }

// Router maps program targets to implementations.
type Router struct {
	programs map[Address]Program
	fallback func(Address) (Program, bool)
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{programs: make(map[Address]Program)}
}

// Register binds target to p, replacing any previous binding.
func (r *Router) Register(target Address, p Program) {
	r.programs[target] = p
}

// Fallback sets the resolver used for targets without a binding.
func (r *Router) Fallback(f func(Address) (Program, bool)) {
	r.fallback = f
}

// Lookup resolves target.
func (r *Router) Lookup(target Address) (Program, bool) {
	if p, ok := r.programs[target]; ok {
		return p, true
	}
	if r.fallback != nil {
		return r.fallback(target)
	}
	return nil, false
}
