package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docsnap/internal/registry"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, repoRoot, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	path, err := registry.Find(filepath.Join(repoRoot, filepath.Dir(filepath.FromSlash(cfg.Descriptor))), filepath.Base(cfg.Descriptor))
	if err != nil {
		return err
	}
	reg, err := registry.Load(path)
	if err != nil {
		return err
	}

	problems := reg.Validate()
	for _, p := range problems {
		fmt.Printf("  ERROR: %s\n", p)
	}
	if err := registry.ValidationErr(problems); err != nil {
		return err
	}

	engine, _, err := root.newEngine(g)
	if err != nil {
		return err
	}
	sm, _, err := engine.Plan()
	if err != nil {
		return err
	}
	fmt.Printf("[OK] %d packages valid, %d documents mapped\n", len(reg.Packages()), sm.Len())
	return nil
}
