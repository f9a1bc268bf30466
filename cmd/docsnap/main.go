package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsnap/cmd/docsnap/commands"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/version"
)

func main() {
	cli := &commands.CLI{}
	globals := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("docsnap"),
		kong.Description("Sync repository markdown into a version-frozen MkDocs documentation tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Info()},
		kong.Bind(globals),
	)

	if err := parser.Run(globals, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
