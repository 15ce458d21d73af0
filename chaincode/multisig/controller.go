package multisig

// Limits bound the size of wallets and proposals.
type Limits struct {
	MaxOwners                 int
	MaxInstructions           int
	MaxAccountsPerInstruction int
	MaxPayloadSize            int
	// DepositPerByte is charged to the proposer for every byte of the
	// stored proposal and returned on close.
	DepositPerByte uint64
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MaxOwners:                 32,
		MaxInstructions:           8,
		MaxAccountsPerInstruction: 32,
		MaxPayloadSize:            1024,
	}
}

// Controller runs the proposal lifecycle. It holds no ledger state of its
// own: every operation receives the ledger of the current invocation and
// reloads the records it touches.
type Controller struct {
	limits   Limits
	programs *Router
}

// NewController returns a controller dispatching sub-operations to programs.
func NewController(limits Limits, programs *Router) *Controller {
	if programs == nil {
		programs = NewRouter()
	}
	return &Controller{limits: limits, programs: programs}
}

// Limits returns the limits the controller enforces.
func (c *Controller) Limits() Limits { return c.limits }
