package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/internal/account"
	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/testcommon"
)

func TestCallStep_MutatingSuccessCommitsState(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	store := account.NewStore()
	store.GetOrCreate("alice")
	executor := NewExecutor(store, simconfig.Default(), driverPath)

	result, err := executor.CallStep(Call{AccountID: "alice", MethodName: "inc"})
	require.NoError(t, err)
	require.Nil(t, result.Outcome.Err)

	acc, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), acc.Nonce)

	counter, ok := acc.State["counter"]
	require.True(t, ok)
	assert.Equal(t, "1", string(counter))

	reencoded, err := EncodeState(acc.State)
	require.NoError(t, err)
	assert.Equal(t, reencoded, acc.EncodedState)
}

func TestCallStep_ViewNeverCommits(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	store := account.NewStore()
	acc := store.GetOrCreate("alice")
	balanceBefore := acc.Balance
	storageBefore := acc.StorageUsage

	executor := NewExecutor(store, simconfig.Default(), driverPath)

	_, err := executor.CallStep(Call{AccountID: "alice", MethodName: "get", IsView: true})
	require.NoError(t, err)

	assert.Equal(t, balanceBefore, acc.Balance)
	assert.Equal(t, storageBefore, acc.StorageUsage)
	assert.Equal(t, uint64(0), acc.Nonce)
}

func TestCallStep_ContractErrorDoesNotCommit(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	store := account.NewStore()
	acc := store.GetOrCreate("alice")
	balanceBefore := acc.Balance

	executor := NewExecutor(store, simconfig.Default(), driverPath)

	result, err := executor.CallStep(Call{AccountID: "alice", MethodName: "abort_me"})
	require.NoError(t, err)
	require.NotNil(t, result.Outcome.Err)
	assert.Equal(t, balanceBefore, acc.Balance)
	assert.Equal(t, uint64(0), acc.Nonce)
}

func TestCallStep_UnknownAccountFailsBeforeInvokingDriver(t *testing.T) {
	store := account.NewStore()
	executor := NewExecutor(store, simconfig.Default(), "/no/such/driver")

	_, err := executor.CallStep(Call{AccountID: "ghost", MethodName: "anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, account.ErrUnknownAccount)
}
