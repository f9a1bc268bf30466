package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsnap/internal/config"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	repoRoot, err := root.repositoryRoot()
	if err != nil {
		return err
	}
	return RunInit(root.configPath(repoRoot), i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Println("Initialization failed")
		return errors.ConfigError("failed to write configuration").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	fmt.Println("initialized successfully")
	return nil
}
