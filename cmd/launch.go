package cmd

import (
	"errors"
	"os/exec"

	"github.com/gohome-dev/warden/config"
	"github.com/gohome-dev/warden/internal/launch"
	"github.com/gohome-dev/warden/internal/shell"
	"github.com/gohome-dev/warden/util/conf"
	"github.com/gohome-dev/warden/util/logging"
	"github.com/urfave/cli/v2"
)

var (
	launchCmdDescription = `The launch command runs the gohome container image with the
working directory mounted into the container home, the http
port published, and the application flags set. It is meant
as a convenience for local development.

With --build, a snapshot release is built first. The build
toolchain is verified before the build is attempted, and a
missing tool aborts the launch with an install hint.`
	launchCmd = &cli.Command{
		Name:        "launch",
		Usage:       "Build and run the gohome container.",
		Description: launchCmdDescription,
		Action:      launchAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "build",
				Usage:    "run a snapshot release build before launching.",
				Aliases:  []string{"b"},
				Category: "launch",
			},
			&cli.StringFlag{
				Name:     "image",
				Usage:    "the container image to run.",
				Value:    launch.DefaultImage,
				Category: "launch",
			},
			&cli.StringFlag{
				Name:     "domain",
				Usage:    "the short-link domain served by gohome.",
				Value:    launch.DefaultDomain,
				Category: "launch",
			},
			&cli.StringFlag{
				Name:     "bind",
				Usage:    "the host:port gohome binds to inside the container.",
				Value:    launch.DefaultBind,
				Category: "launch",
			},
			&cli.IntFlag{
				Name:     "port",
				Usage:    "the container port published on the host.",
				Value:    launch.DefaultPort,
				Category: "launch",
			},
		},
	}

	// launchFlagMap maps launch command flags onto their keys in
	// the config tree.
	launchFlagMap = map[string]string{
		"image":  "launch.image",
		"domain": "launch.domain",
		"bind":   "launch.bind",
		"port":   "launch.port",
	}
)

func launchAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults: config.DefaultConfig,
		FileName: ctx.String("env-file"),
		Cli:      ctx,
		CliMap:   launchFlagMap,
		Log:      log,
	})
	if err != nil {
		return err
	}

	launcher := launch.New(cfg.Launch, log.Named("launch"))

	err = launcher.Launch(ctx.Context, launch.Options{
		Build: ctx.Bool("build"),
	})

	// a missing build tool has already been reported along with
	// its install hint, so exit without repeating the error.
	var missingErr *launch.MissingToolError
	if errors.As(err, &missingErr) {
		return shell.NewExitError(1)
	}

	// a subprocess failure becomes the launcher's own exit code
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return shell.NewExitError(exitErr.ExitCode())
	}

	return err
}

func init() {
	rootApp.Commands = append(rootApp.Commands, launchCmd)
}
