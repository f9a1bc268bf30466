package commands

import (
	"context"
	"fmt"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	engine, _, err := root.newEngine(g)
	if err != nil {
		return err
	}
	res, err := engine.Check(context.Background())
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return err
	}
	fmt.Println("[OK] Documentation is up to date")
	return nil
}
