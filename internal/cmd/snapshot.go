package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/kav/caerus/logging"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [dest]",
		Short: "Capture a single image",
		Long: `Capture a single image to dest, or to <root>/picture_<timestamp>.jpg
when dest is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Join(a.cfg.Timelapse.Root, "picture_"+time.Now().Format("20060102T150405")+".jpg")
			if len(args) == 1 {
				dest = args[0]
			}
			return a.runSnapshot(cmd, dest)
		},
	}
}

func (a *app) runSnapshot(cmd *cobra.Command, dest string) error {
	const op errors.Op = "cmd.snapshot"
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		a.log.Exception("Unable to make directory for", dest, err)
		return errors.New(op).Err(err).Msg("Unable to create destination directory.")
	}

	cam := a.newCamera(a.cfg.Timelapse, a.log)
	err := logging.Time(a.log, "snapshot", []any{dest}, func() error {
		return cam.Capture(cmd.Context(), dest)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dest)
	return nil
}
