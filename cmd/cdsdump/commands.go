package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/endian"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/pool"
	"github.com/arloliu/cds/schema"
	"github.com/arloliu/cds/values"
)

func newHeaderCmd(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "header <file>",
		Short: "Print the structure of a dataset",
		Long: `Print the groups, dimensions, variables and attributes of a netCDF or schema
file. With --schema the structure is written as a YAML or TOML schema instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}

			if as == "" {
				return printCDL(cmd.OutOrStdout(), g, a.width, false, nil)
			}

			f, err := parseSchemaFormat(as)
			if err != nil {
				return err
			}

			return schema.Describe(g).Encode(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&as, "schema", "", "print the structure as a schema: yaml or toml")

	return cmd
}

func newDataCmd(a *app) *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "data <file>",
		Short: "Print the structure and data of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}

			only := make([]*dataset.Var, 0, len(names))
			for _, name := range names {
				v, err := lookupVar(g, name)
				if err != nil {
					return err
				}
				only = append(only, v)
			}

			return printCDL(cmd.OutOrStdout(), g, a.width, true, only)
		},
	}
	cmd.Flags().StringSliceVar(&names, "var", nil, "only print the data of these variables (name or group/name)")

	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output.nc>",
		Short: "Write a schema or netCDF file as netCDF",
		Long: `Build a dataset from a YAML or TOML schema, or read a netCDF file, and write it
as netCDF classic. The output is compressed with --compression, or according
to its suffix (.zst, .s2, .lz4).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}

			path, err := a.save(args[1], g)
			if err != nil {
				return err
			}
			a.log.WithField("path", path).Debug("dataset written")
			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

func newBinaryCmd(a *app) *cobra.Command {
	var (
		name    string
		order   string
		typName string
	)

	cmd := &cobra.Command{
		Use:   "binary <file>",
		Short: "Write the raw samples of one variable",
		Long: `Write every sample of a variable to standard output as packed binary values.
String elements are written as a uint32 byte length followed by their bytes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ok := endian.ParseEngine(order)
			if !ok {
				return fmt.Errorf("unknown byte order %q", order)
			}

			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			v, err := lookupVar(g, name)
			if err != nil {
				return err
			}

			t := v.Type()
			if typName != "" {
				if t, ok = format.ParseTypeID(typName); !ok {
					return fmt.Errorf("unknown type %q", typName)
				}
			}
			data, err := v.GetSamples(0, -1, t)
			if err != nil {
				return err
			}

			bb := pool.GetScratchBuffer()
			defer pool.PutScratchBuffer(bb)
			bb.B = values.AppendBinary(bb.B, data, engine)
			_, err = bb.WriteTo(cmd.OutOrStdout())

			return err
		},
	}
	cmd.Flags().StringVar(&name, "var", "", "variable to write (name or group/name)")
	cmd.Flags().StringVar(&order, "endian", "little", "byte order: little, big or native")
	cmd.Flags().StringVar(&typName, "type", "", "convert the samples to this type first")
	_ = cmd.MarkFlagRequired("var")

	return cmd
}

func parseSchemaFormat(name string) (schema.Format, error) {
	switch name {
	case "yaml", "yml":
		return schema.FormatYAML, nil
	case "toml":
		return schema.FormatTOML, nil
	default:
		return 0, fmt.Errorf("unknown schema format %q", name)
	}
}
