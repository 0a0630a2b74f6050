// Command contractsim is the CLI front end for the contract simulator: a
// thin wrapper that resolves a driver path and scenario arguments and
// drives one simulator session, reporting SUCCESS/ERROR.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli/v2"

	"github.com/multiversx/mx-contract-simulator/internal/scenario"
	"github.com/multiversx/mx-contract-simulator/internal/simconfig"
	"github.com/multiversx/mx-contract-simulator/simulator"
)

var log = logger.GetOrCreate("contractsim")

var (
	driverFlag = &cli.StringFlag{
		Name:     "driver",
		Usage:    "path to the VM Driver executable",
		Required: true,
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML simulator configuration file",
	}
)

func main() {
	app := &cli.App{
		Name:  "contractsim",
		Usage: "local simulator for a promise-oriented smart-contract execution environment",
		Commands: []*cli.Command{
			newAccountCommand,
			callCommand,
			viewCommand,
			replayCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("contractsim failed", "error", err)
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func newSimulator(c *cli.Context) (*simulator.Simulator, error) {
	cfg, err := simconfig.Load(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	return simulator.New(c.String(driverFlag.Name), cfg), nil
}

var newAccountCommand = &cli.Command{
	Name:  "new-account",
	Usage: "create an account, optionally backed by a contract image",
	Flags: []cli.Flag{
		driverFlag,
		configFlag,
		&cli.StringFlag{Name: "account", Required: true},
		&cli.StringFlag{Name: "contract-image"},
	},
	Action: func(c *cli.Context) error {
		sim, err := newSimulator(c)
		if err != nil {
			return err
		}

		_, err = sim.NewAccount(c.String("account"), c.String("contract-image"))
		if err != nil {
			return err
		}

		fmt.Println("SUCCESS")
		return nil
	},
}

var callCommand = &cli.Command{
	Name:  "call",
	Usage: "drive a mutating root call and its full receipt graph to completion",
	Flags: []cli.Flag{
		driverFlag,
		configFlag,
		&cli.StringFlag{Name: "account", Required: true},
		&cli.StringFlag{Name: "method", Required: true},
		&cli.StringFlag{Name: "input", Value: "{}"},
		&cli.StringFlag{Name: "signer"},
		&cli.Uint64Flag{Name: "gas"},
		&cli.Uint64Flag{Name: "deposit"},
	},
	Action: func(c *cli.Context) error {
		sim, err := newSimulator(c)
		if err != nil {
			return err
		}

		result, err := sim.Call(c.String("account"), c.String("method"), c.String("input"), c.String("signer"), c.Uint64("gas"), c.Uint64("deposit"))
		if err != nil {
			return err
		}

		return printResult(result)
	},
}

var viewCommand = &cli.Command{
	Name:  "view",
	Usage: "run a side-effect-free view call",
	Flags: []cli.Flag{
		driverFlag,
		configFlag,
		&cli.StringFlag{Name: "account", Required: true},
		&cli.StringFlag{Name: "method", Required: true},
		&cli.StringFlag{Name: "input", Value: "{}"},
	},
	Action: func(c *cli.Context) error {
		sim, err := newSimulator(c)
		if err != nil {
			return err
		}

		result, err := sim.View(c.String("account"), c.String("method"), c.String("input"))
		if err != nil {
			return err
		}

		return printResult(result)
	},
}

var replayCommand = &cli.Command{
	Name:  "replay",
	Usage: "replay a JSON scenario file against a fresh simulator session",
	Flags: []cli.Flag{
		driverFlag,
		configFlag,
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return fmt.Errorf("one argument expected - the path to the scenario JSON file")
		}

		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return err
		}

		scn, err := scenario.Parse(data)
		if err != nil {
			return err
		}

		sim, err := newSimulator(c)
		if err != nil {
			return err
		}

		outcomes, err := scenario.Run(sim, scn)
		if err != nil {
			return err
		}

		for _, o := range outcomes {
			fmt.Printf("%s %s: ", o.Step.Op, o.Step.AccountID)
			if o.Err != nil {
				fmt.Printf("ERROR: %s\n", o.Err.Error())
				continue
			}
			fmt.Println("ok")
		}

		return nil
	},
}

func printResult(result *simulator.CallResult) error {
	if result.Err != nil {
		fmt.Printf("ERROR: %s\n", *result.Err)
		return nil
	}

	if len(result.ReturnValue) > 0 {
		var pretty interface{}
		if err := json.Unmarshal(result.ReturnValue, &pretty); err == nil {
			encoded, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(encoded))
			return nil
		}
	}

	fmt.Println("SUCCESS")
	return nil
}
