// Package cmd holds the caerus command tree.
package cmd

import (
	"context"

	"github.com/kav/caerus/internal/config"
	"github.com/kav/caerus/internal/timelapse"
	"github.com/kav/caerus/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cameraFactory builds the camera used by capture and snapshot.
type cameraFactory func(cfg config.TimelapseConfig, log logging.Logger) timelapse.Camera

// app is the state shared by every command of one invocation.
type app struct {
	log       *logging.Service
	v         *viper.Viper
	cfg       *config.Config
	cfgFile   string
	newCamera cameraFactory
}

func stillCamera(cfg config.TimelapseConfig, log logging.Logger) timelapse.Camera {
	cam := timelapse.NewStillCamera(cfg.Command, log)
	cam.Width = cfg.Width
	cam.Height = cfg.Height
	cam.WarmUp = cfg.WarmUp
	return cam
}

// Execute runs the caerus command line against log.
func Execute(ctx context.Context, log *logging.Service) error {
	return NewRootCmd(log).ExecuteContext(ctx)
}

// NewRootCmd returns the caerus root command. Configuration is loaded before
// any subcommand runs; the file sink is attached to log when enabled.
func NewRootCmd(log *logging.Service) *cobra.Command {
	return newRootCmd(&app{log: log, v: viper.New(), newCamera: stillCamera})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "caerus",
		Short: "Raspberry Pi timelapse capture",
		Long: `Caerus drives the Raspberry Pi camera to capture timelapse sequences.

Images of a project are numbered and a new run continues the sequence where
the previous one stopped.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Global flags
	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/caerus/config.yaml)")
	flags.String("log-file", "", "log file path (default is <tmp>/<executable>.log)")
	flags.String("console-level", "", "console log level (debug/info/warn/error/critical/off)")
	flags.String("file-level", "", "log file level (debug/info/warn/error/critical/off)")
	_ = a.v.BindPFlag("logging.file.path", flags.Lookup("log-file"))
	_ = a.v.BindPFlag("logging.console_level", flags.Lookup("console-level"))
	_ = a.v.BindPFlag("logging.file.level", flags.Lookup("file-level"))

	root.AddCommand(
		newCaptureCmd(a),
		newSnapshotCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and applies its logging section.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Setup(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.Logging.Console()
	if err != nil {
		return err
	}
	a.log.SetConsoleLevel(level)

	if !cfg.Logging.File.Enabled {
		return nil
	}
	fileCfg, err := cfg.Logging.File.FileSink()
	if err != nil {
		return err
	}
	if err := a.log.AttachFile(fileCfg); err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("configuration read from", used)
	}
	a.log.Debug("running", cmd.CommandPath())
	return nil
}
