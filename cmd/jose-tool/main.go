package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/effective-security/x/ctl"

	"github.com/axtl/jose/cmd/jose-tool/cli"
	"github.com/axtl/jose/internal/version"
)

type app struct {
	cli.Cli

	Sign    cli.SignCmd    `cmd:"" help:"sign claims into a JWS"`
	Verify  cli.VerifyCmd  `cmd:"" help:"verify a JWS and print its claims"`
	Encrypt cli.EncryptCmd `cmd:"" help:"encrypt claims into a JWE"`
	Decrypt cli.DecryptCmd `cmd:"" help:"decrypt a JWE and print its claims"`
}

func main() {
	realMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out)

	parser, err := kong.New(&cl,
		kong.Name("jose-tool"),
		kong.Description("CLI tool for JOSE tokens"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.Current().String(),
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		if cl.Debug {
			// in DEBUG mode print command line
			_, _ = fmt.Fprintf(ctx.Stdout, "#\n# %s\n#\n", strings.Join(args, " "))
		}
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
