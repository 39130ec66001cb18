package cmd

import (
	"time"

	"github.com/gohome-dev/warden/app"
	"github.com/gohome-dev/warden/config"
	"github.com/gohome-dev/warden/internal/supervisor"
	"github.com/gohome-dev/warden/util/conf"
	"github.com/gohome-dev/warden/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	runCmdDescription = `The run command starts the gohome binary as a child process
and supervises it. Any arguments after the command name are
forwarded to the binary verbatim. This command is intended
to be used as the entrypoint of the gohome container image.

On SIGINT or SIGTERM, the supervisor asks the child process
to shut down cooperatively by sending it SIGINT, waits for
the configured grace period, and then exits. If the child
exits on its own, the supervisor exits with the child's
exit code.`
	runCmd = &cli.Command{
		Name:        "run",
		Usage:       "Launch and supervise the gohome binary.",
		Description: runCmdDescription,
		Action:      runAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "command",
				Usage:    "the path of the binary to supervise.",
				Aliases:  []string{"c"},
				Value:    config.DefaultBinary,
				Category: "supervisor",
				EnvVars:  []string{"GOHOME_BINARY"},
			},
		},
	}
)

func runAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	supervisorCfg := supervisor.Config{
		Cmd:         ctx.String("command"),
		Args:        ctx.Args().Slice(),
		GracePeriod: cfg.GracePeriod(),
		ChildLog:    cfg.RustLog,
	}

	log.Info("starting supervisor",
		zap.String("command", supervisorCfg.Cmd),
		zap.Strings("args", supervisorCfg.Args),
		zap.Duration("grace_period", supervisorCfg.GracePeriod),
	)

	// the graceful shutdown sequence sleeps for the full grace
	// period, so give the stop hooks room to finish it.
	stopTimeout := supervisorCfg.GracePeriod + 10*time.Second

	return app.Run(ctx.Context,
		supervisor.Module(supervisorCfg),
		fx.StopTimeout(stopTimeout),
	)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, runCmd)
}
