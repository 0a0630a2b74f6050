// Package simulator is the public entry point to the contract simulator: a
// single synchronous session over an Account Store, a Step Executor and a
// Promise Scheduler.
package simulator

import (
	"encoding/json"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-contract-simulator/internal/account"
	"github.com/multiversx/mx-contract-simulator/internal/scheduler"
	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/internal/step"
)

var log = logger.GetOrCreate("simulator")

// Simulator owns one session: its own Account Store, its own simulator-wide
// Config, and the step executor/scheduler built over them. Multiple
// Simulators may coexist; none share state.
type Simulator struct {
	Store    *account.Store
	Config   *simconfig.Config
	executor *step.Executor
	sched    *scheduler.Scheduler
}

// New creates a simulator session backed by the VM Driver binary at driverPath.
func New(driverPath string, cfg *simconfig.Config) *Simulator {
	if cfg == nil {
		cfg = simconfig.Default()
	} else {
		simconfig.AssertPOSIX()
	}

	store := account.NewStore()
	executor := step.NewExecutor(store, cfg, driverPath)

	return &Simulator{
		Store:    store,
		Config:   cfg,
		executor: executor,
		sched:    scheduler.New(executor),
	}
}

// NewAccount explicitly creates an account, optionally backed by a contract
// image. It fails with account.ErrMissingContract if the image path does not
// resolve to an existing artifact.
func (s *Simulator) NewAccount(id string, contractImage string) (*account.Account, error) {
	return s.Store.NewAccount(id, contractImage)
}

// CallResult is the caller-facing outcome of a mutating call or a view call.
type CallResult struct {
	ReturnValue json.RawMessage
	Err         *string
	Calls       map[int]scheduler.Call
	Results     map[int]*step.Result
}

// Call drives the root invocation methodName on accountID, plus its full
// transitive receipt graph, to completion.
func (s *Simulator) Call(accountID, methodName, input string, signerAccountID string, gas, deposit uint64) (*CallResult, error) {
	log.Debug("call", "account", accountID, "method", methodName)

	res, err := s.sched.Call(scheduler.RootCall{
		AccountID:       accountID,
		MethodName:      methodName,
		Input:           input,
		SignerAccountID: signerAccountID,
		PrepaidGas:      gas,
		AttachedDeposit: deposit,
	})
	if err != nil {
		return nil, err
	}

	out := &CallResult{
		ReturnValue: res.ReturnValue,
		Calls:       res.Calls,
		Results:     res.Results,
	}
	if res.Err != nil {
		out.Err = &res.Err.Message
	}
	return out, nil
}

// View executes a single side-effect-free call: no scheduler loop, no
// account mutation regardless of what the driver would otherwise commit.
func (s *Simulator) View(accountID, methodName, input string) (*CallResult, error) {
	result, err := s.executor.CallStep(step.Call{
		AccountID:  accountID,
		MethodName: methodName,
		Input:      input,
		IsView:     true,
	})
	if err != nil {
		return nil, err
	}

	out := &CallResult{
		Calls: map[int]scheduler.Call{0: {AccountID: accountID, MethodName: methodName, Input: input}},
		Results: map[int]*step.Result{0: result},
	}
	if result.Outcome.Err != nil {
		out.Err = &result.Outcome.Err.Message
		return out, nil
	}
	if len(result.Outcome.ReturnData.Value) > 0 {
		out.ReturnValue = json.RawMessage(result.Outcome.ReturnData.Value)
	}
	return out, nil
}

// ResetAll restores every tracked account to simulator defaults, without
// removing it from the store.
func (s *Simulator) ResetAll() {
	s.Store.ResetAll()
}

// GetAccount looks up an account by id, failing with account.ErrUnknownAccount if absent.
func (s *Simulator) GetAccount(id string) (*account.Account, error) {
	return s.Store.Get(id)
}
