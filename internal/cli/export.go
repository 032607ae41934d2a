package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/tui"
)

var errBinaryToTerminal = errors.New("refusing to write binary output to a terminal; use --file")

// NewExportCmd creates the export command, which writes the loaded dataset in
// one of the supported formats.
func NewExportCmd() *cobra.Command {
	var (
		format  string
		file    string
		country string
	)

	formats := make([]string, 0, len(dataset.Formats()))
	for _, f := range dataset.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the life expectancy dataset",
		Example: `  healthtrack export --format csv > life_expectancy.csv
  healthtrack export --format parquet --file life_expectancy.parquet
  healthtrack export --format json --country France`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := dataset.ParseFormat(format)
			if err != nil {
				return err
			}
			if file == "" && f.IsBinary() && tui.IsTerminal(os.Stdout) && cmd.OutOrStdout() == os.Stdout {
				return errBinaryToTerminal
			}

			p, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}
			res := p.session.Get(cmd.Context())
			log := logger.With().Str("operation", "export").Str("format", string(f)).Logger()

			ds := res.Dataset
			if strings.TrimSpace(country) != "" {
				label, ok := ds.LookupCountry(country)
				if !ok {
					return errUnknownCountry(country)
				}
				ds = ds.ForCountry(label)
			}
			if res.Status != loader.StatusLive {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderStatusBanner(res.Status, false))
			}

			write := func(w io.Writer) error { return dataset.Export(w, ds, f) }
			if file == "" {
				err = write(cmd.OutOrStdout())
			} else {
				err = writeExportFile(file, write)
			}
			if err != nil {
				return fmt.Errorf("exporting %s: %w", f, err)
			}
			log.Info().Ctx(cmd.Context()).Int("rows", ds.Len()).Str("file", file).Msg("dataset exported")
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(dataset.FormatCSV),
		"Export format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&country, "country", "", "Export only this country")
	return cmd
}

// writeExportFile creates path and writes it with write. A failed close is
// reported, since the file may be truncated.
func writeExportFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	return writeAndClose(fh, write)
}

func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}
