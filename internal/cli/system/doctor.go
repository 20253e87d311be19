package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/keyring"
)

type DoctorCmd struct{}

type check struct {
	name    string
	warning bool
	run     func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Database reachable and schema current", run: func(ctx *cli.Context) error {
		return ctx.Connect()
	}},
	{name: "OS keyring", warning: true, run: func(ctx *cli.Context) error {
		if !keyring.IsAvailable() {
			return errors.New("not available; sessions will not survive between commands")
		}
		return nil
	}},
	{name: "Session", warning: true, run: func(ctx *cli.Context) error {
		_, err := ctx.RequireUser()
		return err
	}},
	{name: "Clock", run: func(ctx *cli.Context) error {
		if ctx.Clock().Year() < 2020 {
			return fmt.Errorf("system clock reads %s", ctx.Clock().Format(time.RFC3339))
		}
		return nil
	}},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := 0
	for _, c := range doctorChecks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			failed++
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("All checks passed")
	return nil
}
