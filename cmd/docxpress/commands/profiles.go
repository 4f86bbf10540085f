package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/docxpress/internal/output"
	"github.com/jmylchreest/docxpress/pkg/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the site profiles",
	Long: `List the effective site profiles: the built-in table merged with the
file given by --profiles (or profiles_file in the config).`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().String("format", "text", "output format: text, json, yaml")
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	initLogger()

	table := profile.Builtin()
	if path := viper.GetString("profiles_file"); path != "" {
		loaded, err := profile.LoadFile(path)
		if err != nil {
			return err
		}
		table = loaded
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if format != output.FormatText {
		w, err := output.NewWriter(os.Stdout, format)
		if err != nil {
			return err
		}
		if err := w.Write(table.All()); err != nil {
			return err
		}
		return w.Close()
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tHOST\tALIASES\tTRAILING BLOCK")
	for _, p := range table.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Host, strings.Join(p.Aliases, ","), p.TrailingBlockRef)
	}
	return tw.Flush()
}
