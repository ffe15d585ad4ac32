package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/kav/caerus/internal/timelapse"
	"github.com/spf13/cobra"
)

type captureOptions struct {
	interval float64
	duration float64
}

func newCaptureCmd(a *app) *cobra.Command {
	opts := &captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture <project>",
		Short: "Capture a timelapse into a project directory",
		Long: `Capture one image every interval until the duration has elapsed.

Images are written to <root>/<project>/<prefix>NNNNN.jpg. When the project
already holds images the numbering continues after the highest one.

Examples:
  # One image every 30 seconds for an hour
  caerus capture garden -i 30 -d 3600`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCapture(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.interval, "interval", "i", 0, "interval [float] in seconds between successive image captures")
	cmd.Flags().Float64VarP(&opts.duration, "duration", "d", 0, "duration [float] in seconds of the total timelapse duration")
	_ = cmd.MarkFlagRequired("interval")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func validProject(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (a *app) runCapture(cmd *cobra.Command, project string, opts *captureOptions) error {
	const op errors.Op = "cmd.capture"
	if !validProject(project) {
		return errors.New(op).Msgf("Invalid project name %q.", project)
	}
	a.log.Debug(fmt.Sprintf("capture project=%s interval=%gs duration=%gs", project, opts.interval, opts.duration))
	a.log.Dump(a.cfg)

	tl := a.cfg.Timelapse
	seq, err := timelapse.OpenSequence(filepath.Join(tl.Root, project), tl.Prefix)
	if err != nil {
		a.log.Exception("Unable to open project", project, err)
		return err
	}

	s := &timelapse.Scheduler{
		Camera:   a.newCamera(tl, a.log),
		Sequence: seq,
		Log:      a.log,
		Interval: seconds(opts.interval),
		Duration: seconds(opts.duration),
	}
	res, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	if res.Captured == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no images captured")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "captured %d images in %s (%d to %d)\n",
		res.Captured, seq.Dir, res.First, res.Last)
	return nil
}
