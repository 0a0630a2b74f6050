// Package step implements the Step Executor: the single-call entry point
// that assembles a context, invokes the VM Driver, and commits state back
// onto the callee account for successful, non-view calls.
package step

import (
	"fmt"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-contract-simulator/internal/account"
	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/internal/vmctx"
	"github.com/multiversx/mx-contract-simulator/internal/vmdriver"
)

var log = logger.GetOrCreate("step")

// Call is the fully-resolved description of one step, as assembled by the
// scheduler (or, for a bare view call, by the caller directly).
type Call struct {
	AccountID            string
	MethodName           string
	Input                string
	SignerAccountID      string
	PredecessorAccountID string
	PrepaidGas           uint64
	AttachedDeposit      uint64
	IsView               bool
	InputData            []vmctx.PromiseResult
	OutputDataReceivers  []string
}

// Result is the (Outcome, Receipts, post-state) triple the scheduler treats
// as immutable after return.
type Result struct {
	Context  *vmctx.VMContext
	Outcome  vmdriver.Outcome
	Receipts []vmdriver.Receipt
	State    account.State
}

// Executor runs individual steps against an account store via a VM Driver binary.
type Executor struct {
	Store      *account.Store
	Config     *simconfig.Config
	DriverPath string
	DecodeState func([]byte) (account.State, error)
	EncodeState func(account.State) ([]byte, error)
}

// NewExecutor builds a step executor that uses this package's JSON state
// codec (EncodeState/DecodeState) to convert between account.State and the
// driver's state blob.
func NewExecutor(store *account.Store, cfg *simconfig.Config, driverPath string) *Executor {
	return &Executor{
		Store:       store,
		Config:      cfg,
		DriverPath:  driverPath,
		DecodeState: DecodeState,
		EncodeState: EncodeState,
	}
}

// CallStep executes one contract method against one account, producing a Result.
func (e *Executor) CallStep(c Call) (*Result, error) {
	callee, err := e.Store.Get(c.AccountID)
	if err != nil {
		return nil, err
	}

	partial := vmctx.Partial{
		CurrentAccountID:     c.AccountID,
		SignerAccountID:      c.SignerAccountID,
		PredecessorAccountID: c.PredecessorAccountID,
		PrepaidGas:           c.PrepaidGas,
		AttachedDeposit:      c.AttachedDeposit,
		IsView:               c.IsView,
	}

	ctx, err := vmctx.Build(e.Store, partial, e.Config, c.InputData, c.OutputDataReceivers)
	if err != nil {
		return nil, err
	}

	req := &vmdriver.Request{
		Context:    ctx,
		Input:      c.Input,
		WasmFile:   callee.ContractImage,
		MethodName: c.MethodName,
		State:      callee.EncodedState,
	}

	driverResult, err := vmdriver.Invoke(e.DriverPath, req)
	if err != nil {
		return nil, err
	}

	decoded, err := e.DecodeState(driverResult.State)
	if err != nil {
		return nil, fmt.Errorf("decoding post-step state: %w", err)
	}

	if driverResult.Outcome.Err == nil && !c.IsView {
		if err := e.commit(callee, driverResult, decoded); err != nil {
			return nil, err
		}
	} else {
		log.Trace("skipping commit", "account", c.AccountID, "view", c.IsView, "failed", driverResult.Outcome.Err != nil)
	}

	return &Result{
		Context:  ctx,
		Outcome:  driverResult.Outcome,
		Receipts: driverResult.Receipts,
		State:    decoded,
	}, nil
}

// commit applies a successful mutating step's outcome to the callee account.
// EncodedState is re-derived from the decoded state rather than kept as the
// driver's raw bytes, so the stored blob is always e.EncodeState(callee.State)
// and a later e.DecodeState(callee.EncodedState) reproduces callee.State exactly.
func (e *Executor) commit(callee *account.Account, result *vmdriver.Result, decoded account.State) error {
	encoded, err := e.EncodeState(decoded)
	if err != nil {
		return fmt.Errorf("re-encoding post-step state: %w", err)
	}

	callee.Balance = result.Outcome.Balance
	callee.StorageUsage = result.Outcome.StorageUsage
	callee.State = decoded
	callee.EncodedState = encoded
	callee.Nonce++
	return nil
}
