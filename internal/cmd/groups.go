package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratacfg/strata/internal/errenvelope"
	"github.com/stratacfg/strata/internal/grouplist"
	ioutil "github.com/stratacfg/strata/internal/utils/io"
	"github.com/stratacfg/strata/internal/utils/output"
)

var (
	groupsFiles  bool
	groupsOutput string
)

var groupsCmd = &cobra.Command{
	Use:   "groups [group]",
	Short: "List the sub-groups or documents available under a group",
	Long: `groups enumerates the sub-directories (sub-groups) under the given
group across the whole search path. Pass --files to list the document
options within the group instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGroups,
}

func init() {
	groupsCmd.Flags().BoolVar(&groupsFiles, "files", false, "list document options instead of sub-groups")
	groupsCmd.Flags().StringVarP(&groupsOutput, "output", "o", "table", "output format: table, yaml or json")
}

func runGroups(cmd *cobra.Command, args []string) error {
	group := ""
	if len(args) == 1 {
		group = args[0]
	}

	sp := buildSearchPath()
	lister := grouplist.New(sp)

	kind := grouplist.KindDir
	label := "group"
	if groupsFiles {
		kind = grouplist.KindFile
		label = "file"
	}

	ioCfg := ioutil.NewIOConfig()
	ioCfg.OutputFormat = ioutil.ParseFormat(groupsOutput)
	ioCfg.OutputWriter = cmd.OutOrStdout()
	if ioCfg.OutputFormat == ioutil.FormatTable && !ioutil.IsOutputTerminal(cmd.OutOrStdout()) {
		ioCfg.OutputFormat = ioutil.FormatYAML
	}

	errHandler := ioutil.NewErrorHandler(ioCfg, cmd.ErrOrStderr())

	opts, err := lister.GetGroupOptions(group, kind)
	if err != nil {
		return errHandler.HandleError(errenvelope.Wrap(err))
	}

	if !ioCfg.OutputFormat.IsStructured() {
		table := output.NewTable(label)
		for _, o := range opts {
			table.AddRow(o)
		}
		table.Render(cmd.OutOrStdout())
		return nil
	}

	writer, err := ioutil.NewWriter(ioCfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.Write(opts)
}
