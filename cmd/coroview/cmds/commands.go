// Package cmds implements the commandline interface of coroview.
package cmds

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coroview/coroview/pkg/config"
	"github.com/coroview/coroview/pkg/coro"
	"github.com/coroview/coroview/pkg/logflags"
	"github.com/coroview/coroview/pkg/remote"
	"github.com/coroview/coroview/pkg/terminal"
	"github.com/coroview/coroview/pkg/version"
	"github.com/coroview/coroview/service/session"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// backend is the name of the registered transport to connect through.
	backend string
	// addr is the target debug endpoint address.
	addr string

	conf *config.Config

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command
)

const coroviewCommandLongDesc = `Coroview inspects suspended coroutines in a halted remote target.

It reconstructs the logical call stack of each suspended coroutine from
the chain of continuation objects on the target's heap, or from the
target's instrumentation library when one is installed, and presents
the merged physical and logical frames.`

// New returns the root coroview command.
func New() *cobra.Command {
	conf = config.LoadConfig()

	rootCommand = &cobra.Command{
		Use:   "coroview",
		Short: "Coroview inspects suspended coroutines in a halted remote target.",
		Long:  coroviewCommandLongDesc,
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable debug logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", "Comma separated list of components that should produce debug output (chainwalk,probes,preflight,session,terminal,wire).")
	rootCommand.PersistentFlags().StringVar(&backend, "backend", "", "Transport backend to connect through (see 'coroview backends').")
	rootCommand.PersistentFlags().StringVar(&addr, "addr", "", "Target debug endpoint address.")

	// 'console' subcommand.
	consoleCommand := &cobra.Command{
		Use:   "console",
		Short: "Connect to a halted target and inspect its coroutines interactively.",
		Long: `Connect to a halted target through the selected transport backend and
start the interactive console. The target must already be suspended at
a breakpoint; coroview only reads, it never resumes or mutates the
target.`,
		RunE: consoleCmd,
	}
	rootCommand.AddCommand(consoleCommand)

	// 'backends' subcommand.
	backendsCommand := &cobra.Command{
		Use:   "backends",
		Short: "Print the registered transport backends.",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range remote.Connectors() {
				fmt.Println(name)
			}
		},
	}
	rootCommand.AddCommand(backendsCommand)

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Coroview Debugger\n%s\n%s\n", version.CoroviewVersion, version.BuildInfo())
		},
	}
	rootCommand.AddCommand(versionCommand)

	return rootCommand
}

func consoleCmd(cmd *cobra.Command, args []string) error {
	if err := logflags.Setup(log, logOutput); err != nil {
		return err
	}
	if backend == "" {
		return errors.New("no --backend selected (see 'coroview backends')")
	}
	if addr == "" {
		return errors.New("no --addr given")
	}

	ctx, threads, err := remote.Connect(backend, addr)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %v", addr, err)
	}

	markers := markersFromConfig(conf)
	sess := session.New(ctx, threads, &session.Config{
		Markers:       &markers,
		MaxChainDepth: conf.MaxChainDepth,
		ClassIndex:    remote.NewClassIndex(),
	})

	term := terminal.New(sess, conf)
	status, err := term.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(status)
	return nil
}

// markersFromConfig applies the config file's marker overrides on top
// of the Kotlin defaults.
func markersFromConfig(conf *config.Config) coro.Markers {
	m := coro.DefaultMarkers()
	if conf.BaseContinuationClass != "" {
		m.BaseContinuationClass = conf.BaseContinuationClass
	}
	if conf.ResumeMethod != "" {
		m.ResumeMethod = conf.ResumeMethod
	}
	if conf.PreflightMethod != "" {
		m.PreflightMethod = conf.PreflightMethod
	}
	if conf.CreationSeparator != "" {
		m.CreationSeparator = conf.CreationSeparator
	}
	return m
}
