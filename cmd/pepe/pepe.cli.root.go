package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pepe "github.com/itsatony/go-pepe"
)

// rootOptions holds the parsed command line configuration.
type rootOptions struct {
	defines            []string
	includePaths       []string
	outputPath         string
	force              bool
	keepLines          bool
	substitute         bool
	defaultContentType string
	configFiles        []string
	printContentTypes  bool
	verbose            bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           cliUse,
		Short:         cliShort,
		Long:          cliLong,
		Args:          cobra.RangeArgs(0, 1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.defines, FlagDefine, FlagDefineShort, nil,
		"Define a variable as NAME[=VALUE] (repeatable)")
	flags.StringArrayVarP(&opts.includePaths, FlagInclude, FlagIncludeShort, nil,
		"Add a directory to the #include search path (repeatable)")
	flags.StringVarP(&opts.outputPath, FlagOutput, FlagOutputShort, "",
		"Write output to this file instead of stdout")
	flags.BoolVarP(&opts.force, FlagForce, FlagForceShort, false,
		"Overwrite the output file if it exists")
	flags.BoolVarP(&opts.keepLines, FlagKeepLines, FlagKeepLinesShort, false,
		"Emit blank lines for suppressed content and directive lines")
	flags.BoolVarP(&opts.substitute, FlagSubstitute, FlagSubstituteShort, false,
		"Substitute defined variables into emitted lines")
	flags.StringVar(&opts.defaultContentType, FlagDefaultContentType, "",
		"Content type to assume when none can be determined")
	flags.StringArrayVarP(&opts.configFiles, FlagContentTypesConfig, FlagContentTypesConfShort, nil,
		"Merge an additional content-types configuration file (repeatable)")
	flags.BoolVarP(&opts.printContentTypes, FlagPrintContentTypes, FlagPrintContentTypesShort, false,
		"Print the known content types and their comment delimiters, then exit")
	flags.BoolVar(&opts.verbose, FlagVerbose, false,
		"Enable debug logging to stderr")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	engine, err := newEngine(opts)
	if err != nil {
		return err
	}

	if opts.printContentTypes {
		cmd.Print(engine.ContentTypes().String())
		return nil
	}

	if len(args) == 0 {
		return errors.New(ErrMsgInputRequired)
	}
	inputPath := args[0]

	defines, err := pepe.ParseDefinitions(opts.defines)
	if err != nil {
		return err
	}

	if opts.outputPath != "" {
		_, err = engine.PreprocessFile(inputPath, opts.outputPath, defines, opts.force)
		return err
	}
	_, err = engine.Preprocess(inputPath, cmd.OutOrStdout(), defines)
	return err
}

func newEngine(opts *rootOptions) (*pepe.Engine, error) {
	engineOpts := []pepe.Option{
		pepe.WithKeepLines(opts.keepLines),
		pepe.WithSubstitution(opts.substitute),
	}
	if len(opts.includePaths) > 0 {
		engineOpts = append(engineOpts, pepe.WithIncludePaths(opts.includePaths...))
	}
	if opts.defaultContentType != "" {
		engineOpts = append(engineOpts, pepe.WithDefaultContentType(opts.defaultContentType))
	}
	for _, path := range opts.configFiles {
		engineOpts = append(engineOpts, pepe.WithContentTypesConfig(path))
	}
	if opts.verbose {
		logger, err := newVerboseLogger()
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, pepe.WithLogger(logger))
	}
	return pepe.New(engineOpts...)
}

// newVerboseLogger builds a debug-level logger writing to stderr, keeping
// stdout clean for preprocessed output.
func newVerboseLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}
