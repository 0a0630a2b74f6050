package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/simulator"
	"github.com/multiversx/mx-contract-simulator/testcommon"
)

const scenarioJSON = `
{
  "steps": [
    {"op": "new_account", "account_id": "alice"},
    {"op": "call", "account_id": "alice", "method": "inc"},
    {"op": "call", "account_id": "alice", "method": "inc"},
    {"op": "view", "account_id": "alice", "method": "get"},
    {"op": "call", "account_id": "alice", "method": "abort_me", "expect_error": true},
    {"op": "reset"}
  ]
}`

func TestParse_StructuresLooselyTypedJSON(t *testing.T) {
	scn, err := Parse([]byte(scenarioJSON))
	require.NoError(t, err)
	require.Len(t, scn.Steps, 6)
	assert.Equal(t, "new_account", scn.Steps[0].Op)
	assert.Equal(t, "alice", scn.Steps[0].AccountID)
	assert.True(t, scn.Steps[4].ExpectError)
}

func TestRun_ReplaysEveryStepAndStopsOnlyOnUnexpectedError(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	scn, err := Parse([]byte(scenarioJSON))
	require.NoError(t, err)

	sim := simulator.New(driverPath, simconfig.Default())

	outcomes, err := Run(sim, scn)
	require.NoError(t, err)
	require.Len(t, outcomes, 6)

	viewOutcome := outcomes[3]
	require.NoError(t, viewOutcome.Err)
	require.NotNil(t, viewOutcome.Result)
	assert.JSONEq(t, "2", string(viewOutcome.Result.ReturnValue))

	abortOutcome := outcomes[4]
	require.NoError(t, abortOutcome.Err) // reported as a contract error, not a fatal Go error
	require.NotNil(t, abortOutcome.Result.Err)
}

func TestRun_StopsEarlyOnUnexpectedFatalError(t *testing.T) {
	driverPath := testcommon.BuildFakeDriver(t)
	scn, err := Parse([]byte(`{"steps":[{"op":"call","account_id":"ghost","method":"inc"}]}`))
	require.NoError(t, err)

	sim := simulator.New(driverPath, simconfig.Default())

	outcomes, err := Run(sim, scn)
	require.Error(t, err)
	assert.Len(t, outcomes, 1)
}
