// Package terminal implements the interactive console for inspecting
// suspended coroutines in a halted target, responding to user input
// and dispatching to the session layer.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-delve/liner"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/coroview/coroview/pkg/config"
	"github.com/coroview/coroview/pkg/logflags"
	"github.com/coroview/coroview/service/session"
)

const historyFile string = ".coroview_history"

// Term represents the terminal running coroview.
type Term struct {
	sess   *session.Session
	conf   *config.Config
	prompt string
	line   *liner.State
	cmds   *Commands
	stdout io.Writer
	dumb   bool

	quittingMutex sync.Mutex
	quitting      bool
}

// New returns a new Term. conf may be nil, in which case the config
// file is loaded.
func New(sess *session.Session, conf *config.Config) *Term {
	if conf == nil {
		conf = config.LoadConfig()
	}
	cmds := CoroCommands(sess)
	if conf.Aliases != nil {
		cmds.Merge(conf.Aliases)
	}

	var w io.Writer
	dumb := strings.ToLower(os.Getenv("TERM")) == "dumb"
	if dumb || !isatty.IsTerminal(os.Stdout.Fd()) {
		w = os.Stdout
		dumb = true
	} else {
		w = colorable.NewColorableStdout()
	}

	return &Term{
		sess:   sess,
		conf:   conf,
		prompt: "(coroview) ",
		line:   liner.NewLiner(),
		cmds:   cmds,
		stdout: w,
		dumb:   dumb,
	}
}

// Close returns the terminal to its previous mode.
func (t *Term) Close() {
	t.line.Close()
}

// Run begins running coroview in the terminal.
func (t *Term) Run() (int, error) {
	defer t.Close()

	logger := logflags.TerminalLogger()

	t.line.SetCompleter(func(line string) (c []string) {
		for _, cmd := range t.cmds.cmds {
			for _, alias := range cmd.aliases {
				if strings.HasPrefix(alias, strings.ToLower(line)) {
					c = append(c, alias)
				}
			}
		}
		return
	})

	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Printf("Unable to load history file: %v.", err)
	}
	f, err := os.Open(fullHistoryFile)
	if err != nil {
		f, err = os.Create(fullHistoryFile)
		if err != nil {
			fmt.Printf("Unable to open history file: %v. History will not be saved for this session.", err)
		}
	}
	if f != nil {
		t.line.ReadHistory(f)
		f.Close()
	}
	fmt.Println("Type 'help' for list of commands.")

	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Println("exit")
				return t.handleExit()
			}
			return 1, fmt.Errorf("prompt for input failed")
		}

		if err := t.cmds.Call(cmdstr, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			t.quittingMutex.Lock()
			quitting := t.quitting
			t.quittingMutex.Unlock()
			if quitting {
				return t.handleExit()
			}
			logger.WithError(err).Debug("command failed")
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}
	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}
	return l, nil
}

func (t *Term) handleExit() (int, error) {
	if fullHistoryFile, err := config.GetConfigFilePath(historyFile); err == nil {
		if f, err := os.Create(fullHistoryFile); err == nil {
			_, err = t.line.WriteHistory(f)
			if err != nil {
				fmt.Println("readline history not saved:", err)
			}
			f.Close()
		}
	}
	return 0, nil
}

// Println prints a line to the terminal.
func (t *Term) Println(prefix, str string) {
	fmt.Fprintf(t.stdout, "%s%s\n", prefix, str)
}

// ExitRequestError is returned from the exit command to signal the
// REPL loop to terminate.
type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return "exit"
}
