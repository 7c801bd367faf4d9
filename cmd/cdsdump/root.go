package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/cds"
	"github.com/arloliu/cds/format"
)

// app holds the state shared by all subcommands.
type app struct {
	verbose     bool
	width       int
	compression string

	codec format.CompressionType
	log   *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:   "cdsdump",
		Short: "Inspect and convert scientific datasets.",
		Long: `cdsdump prints netCDF classic files (optionally zstd, s2 or lz4 compressed)
and YAML or TOML dataset schemas as CDL-like text, and converts schemas to netCDF.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.startup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.IntVar(&a.width, "width", 80, "maximum width of data lines, 0 disables wrapping")
	flags.StringVar(&a.compression, "compression", "", "compression of netCDF files: none, zstd, s2 or lz4 (default: from the file name)")

	root.AddCommand(
		newHeaderCmd(a),
		newDataCmd(a),
		newConvertCmd(a),
		newBinaryCmd(a),
		newVersionCmd(),
	)

	return root
}

// startup configures logging and validates the persistent flags.
func (a *app) startup(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.log.SetLevel(logrus.WarnLevel)
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}

	a.codec = 0
	if a.compression != "" {
		c, ok := format.ParseCompressionType(a.compression)
		if !ok {
			return fmt.Errorf("unknown compression %q", a.compression)
		}
		a.codec = c
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cdsdump",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cdsdump v%s\n", cds.Version)
		},
	}
}
