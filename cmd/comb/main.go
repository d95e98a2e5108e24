package main

import (
	"os"

	"github.com/dhamidi/comb/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("comb")

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    int
	logFile    string

	grammar string
	start   string
	skip    string

	cfg   *config.Config
	runID string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "comb",
		Short: "Compile EBNF grammars into parsers at run time and run them",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (YAML)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVarP(&opts.grammar, "grammar", "g", "", "EBNF grammar file")
	flags.StringVar(&opts.start, "start", "", "start production")
	flags.StringVar(&opts.skip, "skip", "", "production skipped before every terminal, e.g. whitespace")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the configuration, lets explicit flags override it and sets up
// logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfigWithEnvOverrides(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Logging.Verbosity = o.verbose
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = o.logFile
	}
	if flags.Changed("grammar") {
		cfg.Grammar.Path = o.grammar
	}
	if flags.Changed("start") {
		cfg.Grammar.Start = o.start
	}
	if flags.Changed("skip") {
		cfg.Grammar.Skip = o.skip
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var path *string
	if cfg.Logging.File != "" {
		path = &cfg.Logging.File
	}
	commonlog.Configure(cfg.Logging.Verbosity, path)

	o.cfg = cfg
	o.runID = uuid.NewString()
	log.Debugf("run %s: %s", o.runID, cmd.CommandPath())
	return nil
}
