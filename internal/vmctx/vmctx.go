// Package vmctx assembles the complete VMContext handed to the VM Driver for
// a single step, merging caller overrides with simulator-wide defaults and
// per-account derived fields.
package vmctx

import (
	"github.com/multiversx/mx-contract-simulator/internal/account"
	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
)

// PromiseResult is one resolved (or failed) dependency delivered to a call.
type PromiseResult struct {
	Successful bool
	Value      []byte
}

// Partial is the caller-supplied, possibly-incomplete context for one call.
// Build fills in empty fields: SignerAccountID defaults to CurrentAccountID,
// PredecessorAccountID to the signer, and a zero PrepaidGas to the
// configured default gas.
type Partial struct {
	CurrentAccountID     string
	SignerAccountID      string
	PredecessorAccountID string
	PrepaidGas           uint64
	AttachedDeposit      uint64
	IsView               bool
}

// VMContext is the complete input bundle handed to the VM Driver for a step.
type VMContext struct {
	CurrentAccountID     string
	SignerAccountID      string
	SignerAccountPK      string
	PredecessorAccountID string
	Input                string
	InputData            []PromiseResult
	OutputDataReceivers  []string
	PrepaidGas           uint64
	AttachedDeposit      uint64
	AccountBalance       uint64
	AccountLockedBalance uint64
	StorageUsage         uint64
	IsView               bool
	BlockHeight          uint64
	BlockTimestamp       uint64
	RandomSeed           string
}

// Build produces a complete VMContext for one step, applying the Context
// Builder rules in order: signer defaults to current account, predecessor
// defaults to signer, the signer's public key is derived from its stored
// key, balances/storage are snapshotted from the callee, and the
// simulator-wide overlay (block height, timestamp, random seed) is applied
// last.
func Build(
	store *account.Store,
	partial Partial,
	cfg *simconfig.Config,
	inputData []PromiseResult,
	outputDataReceivers []string,
) (*VMContext, error) {
	signerID := partial.SignerAccountID
	if signerID == "" {
		signerID = partial.CurrentAccountID
	}

	predecessorID := partial.PredecessorAccountID
	if predecessorID == "" {
		predecessorID = signerID
	}

	signer, err := store.Get(signerID)
	if err != nil {
		signer = store.GetOrCreate(signerID)
	}

	callee, err := store.Get(partial.CurrentAccountID)
	if err != nil {
		callee = store.GetOrCreate(partial.CurrentAccountID)
	}

	ctx := &VMContext{
		CurrentAccountID:     partial.CurrentAccountID,
		SignerAccountID:      signerID,
		SignerAccountPK:      signer.SignerKey,
		PredecessorAccountID: predecessorID,
		InputData:            inputData,
		OutputDataReceivers:  outputDataReceivers,
		PrepaidGas:           partial.PrepaidGas,
		AttachedDeposit:      partial.AttachedDeposit,
		AccountBalance:       callee.Balance,
		AccountLockedBalance: callee.LockedBalance,
		StorageUsage:         callee.StorageUsage,
		IsView:               partial.IsView,
	}

	if cfg != nil {
		ctx.BlockHeight = cfg.BlockHeight
		ctx.BlockTimestamp = cfg.BlockTimestamp
		ctx.RandomSeed = cfg.RandomSeed
		if ctx.PrepaidGas == 0 {
			ctx.PrepaidGas = cfg.DefaultGas
		}
	}

	return ctx, nil
}
