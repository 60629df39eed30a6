package terminal

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"

	"github.com/coroview/coroview/service/api"
	"github.com/coroview/coroview/service/session"
)

type cmdfunc func(t *Term, args string) error

type command struct {
	aliases []string
	helpMsg string
	cmdFn   cmdfunc
}

// Returns true if the command string matches one of the aliases for this command
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the commands for the coroview terminal.
type Commands struct {
	cmds []command
	sess *session.Session
}

// CoroCommands returns a Commands struct with default commands defined.
func CoroCommands(sess *session.Session) *Commands {
	c := &Commands{sess: sess}

	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"coroutines", "cos"}, cmdFn: c.coroutines, helpMsg: `List all coroutines tracked by the target's instrumentation library.

	coroutines`},
		{aliases: []string{"stack", "bt"}, cmdFn: c.stack, helpMsg: `Print the reconstructed stack of a coroutine.

	stack <id>

The id is the coroutine's sequence number as printed by "coroutines".
Restored frames are printed first, then the creation stack.`},
		{aliases: []string{"probes"}, cmdFn: c.probes, helpMsg: `Report whether the instrumentation library is installed in the target.

	probes`},
		{aliases: []string{"config"}, cmdFn: configureCmd, helpMsg: `Changes configuration parameters.

	config -list

Show all configuration parameters.

	config -save

Saves the configuration file to disk.

	config <parameter> <value>

Changes the value of a configuration parameter.`},
		{aliases: []string{"clear-cache"}, cmdFn: c.clearCache, helpMsg: `Drop handles cached against the current suspend point.

	clear-cache

Must be used after the target has been resumed and halted again.`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCommand, helpMsg: `Exit the console.`},
	}

	sort.Sort(byFirstAlias(c.cmds))
	return c
}

// byFirstAlias will sort by the first
// alias of a command.
type byFirstAlias []command

func (a byFirstAlias) Len() int           { return len(a) }
func (a byFirstAlias) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byFirstAlias) Less(i, j int) bool { return a[i].aliases[0] < a[j].aliases[0] }

// Merge adds aliases to the default aliases for a given command.
func (c *Commands) Merge(allAliases map[string][]string) {
	for i := range c.cmds {
		if aliases, ok := allAliases[c.cmds[i].aliases[0]]; ok {
			c.cmds[i].aliases = append(c.cmds[i].aliases, aliases...)
		}
	}
}

var errNoCmd = errors.New("command not available")

func (c *Commands) find(cmdstr string) (cmdfunc, error) {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v.cmdFn, nil
		}
	}
	return nil, errNoCmd
}

// Call takes a command and executes it.
func (c *Commands) Call(cmdstr string, t *Term) error {
	words, err := argv.Argv(cmdstr,
		func(s string) (string, error) {
			return "", fmt.Errorf("backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return err
	}
	if len(words) == 0 || len(words[0]) == 0 {
		return nil
	}
	cmdname := words[0][0]
	args := strings.TrimSpace(strings.TrimPrefix(cmdstr, cmdname))
	cmdfn, err := c.find(cmdname)
	if err != nil {
		return fmt.Errorf("unknown command %q, type 'help' for a list of commands", cmdname)
	}
	return cmdfn(t, args)
}

func (c *Commands) help(t *Term, args string) error {
	if args != "" {
		for _, cmd := range c.cmds {
			if cmd.match(args) {
				fmt.Fprintln(t.stdout, cmd.helpMsg)
				return nil
			}
		}
		return errNoCmd
	}
	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, '\t', 0)
	for _, cmd := range c.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, "Type help followed by a command for full documentation.")
	return nil
}

func (c *Commands) coroutines(t *Term, args string) error {
	coroutines := c.sess.DumpAllCoroutines()
	if len(coroutines) == 0 {
		fmt.Fprintln(t.stdout, "No tracked coroutines (is the instrumentation library installed?).")
		return nil
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, co := range coroutines {
		top := "<no frames>"
		if len(co.RestoredFrames) > 0 {
			top = formatLocation(co.RestoredFrames[0].Location)
		}
		fmt.Fprintf(w, "  %d\t[%s]\t%s\t%s\n", co.ID, co.State, co.Name, top)
	}
	return w.Flush()
}

func (c *Commands) stack(t *Term, args string) error {
	if args == "" {
		return errors.New("expected coroutine id, see 'coroutines'")
	}
	id, err := strconv.ParseInt(strings.Fields(args)[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid coroutine id %q", args)
	}
	for _, co := range c.sess.DumpAllCoroutines() {
		if co.ID != id {
			continue
		}
		fmt.Fprintf(t.stdout, "Coroutine %s#%d [%s]:\n", co.Name, co.ID, co.State)
		printFrames(t, co.RestoredFrames, c.showGenerated(t))
		if len(co.CreationFrames) > 0 {
			fmt.Fprintln(t.stdout, "Creation stack trace:")
			printFrames(t, co.CreationFrames, c.showGenerated(t))
		}
		return nil
	}
	return fmt.Errorf("no coroutine with id %d", id)
}

func (c *Commands) showGenerated(t *Term) bool {
	return t.conf != nil && t.conf.ShowGeneratedFrames
}

func (c *Commands) probes(t *Term, args string) error {
	if c.sess.InstrumentationInstalled() {
		fmt.Fprintln(t.stdout, "Instrumentation library installed.")
	} else {
		fmt.Fprintln(t.stdout, "Instrumentation library not installed; only direct continuation reconstruction is available.")
	}
	return nil
}

func (c *Commands) clearCache(t *Term, args string) error {
	c.sess.ClearCaches()
	fmt.Fprintln(t.stdout, "Caches cleared.")
	return nil
}

func exitCommand(t *Term, args string) error {
	return ExitRequestError{}
}

func printFrames(t *Term, frames []api.Frame, showGenerated bool) {
	for i, f := range frames {
		if f.Location.Generated && !showGenerated {
			fmt.Fprintf(t.stdout, "  %d  %s.%s (no debug info)\n", i, f.Location.DeclaringType, f.Location.Method)
			continue
		}
		fmt.Fprintf(t.stdout, "  %d  %s\n", i, formatLocation(f.Location))
		for _, v := range f.Variables {
			fmt.Fprintf(t.stdout, "         %s: %s\n", v.Name, v.TypeName)
		}
	}
}

func formatLocation(loc api.Location) string {
	s := fmt.Sprintf("%s.%s", loc.DeclaringType, loc.Method)
	if loc.Line >= 0 {
		s += fmt.Sprintf(":%d", loc.Line)
	}
	if loc.Generated {
		s += " (generated)"
	}
	return s
}
