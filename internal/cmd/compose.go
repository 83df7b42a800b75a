package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stratacfg/strata/internal/composer"
	"github.com/stratacfg/strata/internal/errenvelope"
	"github.com/stratacfg/strata/internal/pkgresource"
	"github.com/stratacfg/strata/internal/searchpath"
	ioutil "github.com/stratacfg/strata/internal/utils/io"
)

var (
	composeConfigName string
	composeOverrides  []string
	composeStrict     bool
	composeOutput     string
	composeOutputFile string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a configuration document and print it",
	Long: `compose loads the mandatory framework document and, if given, a
primary config document, merges their defaults lists, applies any
--set overrides, and prints the resulting document.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVarP(&composeConfigName, "config-name", "c", "",
		"primary config document to compose (e.g. config.yaml)")
	composeCmd.Flags().StringArrayVarP(&composeOverrides, "set", "s", nil,
		"override in key=value form (repeatable); group keys rewrite the defaults list, others set a leaf")
	composeCmd.Flags().BoolVar(&composeStrict, "strict", false,
		"reject overrides that set a key the composed document doesn't already declare")
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "yaml",
		"output format: yaml or json")
	composeCmd.Flags().StringVar(&composeOutputFile, "output-file", "",
		"write the composed document to a file instead of stdout")
}

func runCompose(cmd *cobra.Command, args []string) error {
	format, err := composeFormat(composeOutput)
	if err != nil {
		return err
	}

	ioCfg := ioutil.NewIOConfig()
	ioCfg.OutputFormat = format
	ioCfg.OutputFile = composeOutputFile
	ioCfg.OutputWriter = cmd.OutOrStdout()

	errHandler := ioutil.NewErrorHandler(ioCfg, cmd.ErrOrStderr())

	sp := buildSearchPath()
	c := composer.New(sp, cfg != nil && cfg.Strict)

	var configFile *string
	if composeConfigName != "" {
		configFile = &composeConfigName
	}

	var strict *bool
	if cmd.Flags().Changed("strict") {
		strict = &composeStrict
	}

	doc, _, err := c.Load(context.Background(), configFile, composeOverrides, strict)
	if err != nil {
		return errHandler.HandleError(errenvelope.Wrap(err))
	}

	writer, err := ioutil.NewWriter(ioCfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.Write(doc.Root())
}

// composeFormat restricts --output to the two formats a composed document
// can actually be rendered in; an unstructured or invalid value is a usage
// error, not a silent fallback to table.
func composeFormat(raw string) (ioutil.Format, error) {
	switch ioutil.ParseFormat(raw) {
	case ioutil.FormatJSON:
		return ioutil.FormatJSON, nil
	case ioutil.FormatYAML:
		return ioutil.FormatYAML, nil
	default:
		return "", ioutil.NewValidationError("invalid --output " + raw + " (want yaml or json)")
	}
}

// buildSearchPath turns the effective config's directory list into an
// ordered SearchPath, rooted at the real filesystem, with the CLI's own
// embedded defaults appended last so user-supplied documents always win.
func buildSearchPath() searchpath.SearchPath {
	dirs := []string{"conf"}
	if cfg != nil && len(cfg.SearchPath) > 0 {
		dirs = cfg.SearchPath
	}

	fs := afero.NewOsFs()
	entries := make([]searchpath.Entry, 0, len(dirs)+1)
	for _, dir := range dirs {
		entries = append(entries, searchpath.Entry{
			Provider: "user",
			Location: searchpath.FilesystemLocation{Fs: fs, Dir: dir},
		})
	}

	sp := searchpath.New(entries...)
	sp = sp.Append(pkgresource.Entry())

	logrus.WithFields(logrus.Fields{"search_path": sp.Listing()}).Debug("built search path")
	return sp
}
