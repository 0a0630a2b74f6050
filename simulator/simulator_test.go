package simulator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/simulator"
	"github.com/multiversx/mx-contract-simulator/testcommon"
)

// Scenario 1 (direct value return): a view call leaves state untouched and
// surfaces the driver's return value as parsed JSON.
func TestView_DirectValueReturnLeavesStateUnchanged(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	sim := simulator.New(driverPath, simconfig.Default())

	acc, err := sim.NewAccount("alice", "")
	require.NoError(t, err)
	balanceBefore := acc.Balance

	result, err := sim.View("alice", "echo", `{"x":7}`)
	testcommon.NewCallResultVerifier(t, result, err).Succeeded().ReturnValueJSON(`{"x":7}`)
	assert.Equal(t, balanceBefore, acc.Balance)
}

// Scenario 2 (simple mutation): inc, view get, inc again, view get again.
func TestCall_AndView_SimpleMutationSequence(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	sim := simulator.New(driverPath, simconfig.Default())

	_, err := sim.NewAccount("alice", "")
	require.NoError(t, err)

	_, err = sim.Call("alice", "inc", "{}", "", 0, 0)
	require.NoError(t, err)

	first, err := sim.View("alice", "get", "{}")
	testcommon.NewCallResultVerifier(t, first, err).Succeeded().ReturnValueJSON("1")

	_, err = sim.Call("alice", "inc", "{}", "", 0, 0)
	require.NoError(t, err)

	second, err := sim.View("alice", "get", "{}")
	testcommon.NewCallResultVerifier(t, second, err).Succeeded().ReturnValueJSON("2")
}

// Scenario 5 (contract error non-propagation): a failing call surfaces as a
// CallResult.Err, not a Go error, and the message is passed through verbatim.
func TestCall_ContractErrorIsReportedOnCallResult(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	sim := simulator.New(driverPath, simconfig.Default())

	_, err := sim.NewAccount("alice", "")
	require.NoError(t, err)

	result, err := sim.Call("alice", "abort_me", "{}", "", 0, 0)
	testcommon.NewCallResultVerifier(t, result, err).Failed().ErrorContains("aborted")
}

func TestResetAll_RestoresAccountDefaults(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	sim := simulator.New(driverPath, simconfig.Default())

	_, err := sim.NewAccount("alice", "")
	require.NoError(t, err)
	_, err = sim.Call("alice", "inc", "{}", "", 0, 0)
	require.NoError(t, err)

	sim.ResetAll()

	acc, err := sim.GetAccount("alice")
	require.NoError(t, err)
	assert.Empty(t, acc.State)
	assert.Equal(t, uint64(0), acc.Nonce)
}
