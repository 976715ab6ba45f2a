// Command coreterm is the host CLI for the embedded interactive terminal
// core: it puts the real terminal into raw mode, pumps stdin bytes into
// the core's Input, and drives the Dispatcher's Tick loop, grounded on the
// reference corpus's cobra rootCmd wiring (llm.go's main) and its raw-mode
// session plumbing (session.go's runSession).
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coretermio/coreterm/audit"
	"github.com/coretermio/coreterm/builtins"
	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/config"
	"github.com/coretermio/coreterm/dispatch"
	"github.com/coretermio/coreterm/historytui"
	"github.com/coretermio/coreterm/lineedit"
	"github.com/coretermio/coreterm/ring"
	"github.com/coretermio/coreterm/sched"
)

func main() {
	var configPath, profileName, auditDBPath string

	rootCmd := &cobra.Command{
		Use:   "coreterm",
		Short: "Embedded interactive terminal, run on a real terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(configPath, profileName, auditDBPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML profiles file")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "profile name within --config")
	rootCmd.PersistentFlags().StringVar(&auditDBPath, "audit-db", "", "override the audit database path")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryBrowser(resolveAuditDBPath(configPath, profileName, auditDBPath))
		},
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the terminal (also the default without a subcommand)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(configPath, profileName, auditDBPath)
		},
	}
	rootCmd.AddCommand(runCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveAuditDBPath(configPath, profileName, override string) string {
	if override != "" {
		return override
	}
	if configPath != "" {
		if f, err := config.Load(configPath); err == nil {
			if r, err := config.Resolve(f, profileName); err == nil {
				return r.AuditDBPath
			}
		}
	}
	return config.Defaults.AuditDBPath
}

func loadProfile(configPath, profileName string) config.Resolved {
	if configPath == "" {
		return config.Defaults
	}
	f, err := config.Load(configPath)
	if err != nil {
		log.Printf("coreterm: config load failed, using defaults: %v", err)
		return config.Defaults
	}
	r, err := config.Resolve(f, profileName)
	if err != nil {
		log.Printf("coreterm: config resolve failed, using defaults: %v", err)
		return config.Defaults
	}
	return r
}

func runHistoryBrowser(dbPath string) error {
	m, err := audit.New(dbPath, dbPath+".jsonl")
	if err != nil {
		return fmt.Errorf("coreterm: history: %w", err)
	}
	defer m.Close()

	entries, err := m.Recent(200)
	if err != nil {
		return fmt.Errorf("coreterm: history: %w", err)
	}

	p := tea.NewProgram(historytui.New(entries))
	_, err = p.Run()
	return err
}

func runTerminal(configPath, profileName, auditOverride string) error {
	profile := loadProfile(configPath, profileName)
	auditDBPath := profile.AuditDBPath
	if auditOverride != "" {
		auditDBPath = auditOverride
	}

	mgr, err := audit.New(auditDBPath, auditDBPath+".jsonl")
	if err != nil {
		log.Printf("coreterm: audit log unavailable: %v", err)
		mgr = nil
	}
	if mgr != nil {
		defer mgr.Close()
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	var restore func()
	if interactive {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("coreterm: failed to enter raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }
		defer restore()
	}

	registry := &command.Registry{}
	scheduler := sched.NewCooperative()

	registry.Add(builtins.Clear())
	registry.Add(builtins.Help())
	registry.Add(builtins.Pkill(scheduler))
	registry.Add(builtins.Top(scheduler, int(profile.TickPeriod/time.Microsecond)))
	registry.Add(builtins.Man(registry))
	registry.Add(echoCommand())

	r := ring.New(profile.RingCapacity)
	editor := lineedit.New(r, profile.BufferCapacity, profile.HistoryCapacity, os.Stdout)

	var auditSink dispatch.AuditSink
	if mgr != nil {
		auditSink = func(ev dispatch.AuditEvent) {
			if err := mgr.Record(audit.Entry{
				Command: ev.Command,
				Args:    ev.Args,
				Result:  ev.Result.String(),
			}); err != nil {
				log.Printf("coreterm: audit record failed: %v", err)
			}
		}
	}

	d := dispatch.New(registry, editor, os.Stdout, auditSink)
	fmt.Fprint(os.Stdout, profile.Prompt)

	bytesCh := make(chan byte, 256)
	go pumpStdin(bufio.NewReader(os.Stdin), bytesCh, clipboard.ReadAll)

	ticker := time.NewTicker(profile.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case b, ok := <-bytesCh:
			if !ok {
				return nil
			}
			editor.Input(b)
			d.Tick()
		case now := <-ticker.C:
			scheduler.Tick(now)
		}
	}
}

// pasteByte is Ctrl-V, SPEC_FULL.md §4.1's paste addition: unlike every
// other byte, it never reaches the core verbatim.
const pasteByte = 0x16

// pumpStdin reads bytes from r and forwards them to out, one at a time. On
// pasteByte it does not forward the byte itself: it calls readClipboard and
// forwards the clipboard text instead, one byte at a time, so the core
// stays clipboard-agnostic and sees only ordinary Input bytes. out is
// closed when r returns an error (EOF on stdin close).
func pumpStdin(r *bufio.Reader, out chan<- byte, readClipboard func() (string, error)) {
	defer close(out)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		if b != pasteByte {
			out <- b
			continue
		}
		text, err := readClipboard()
		if err != nil {
			log.Printf("coreterm: clipboard read failed: %v", err)
			continue
		}
		for i := 0; i < len(text); i++ {
			out <- text[i]
		}
	}
}

// echoCommand is the demo built-in SPEC_FULL.md §6.2 calls for: a
// minimal one-shot command exercising the Command ABI end to end.
func echoCommand() command.Command {
	return command.Command{
		Name:        "echo",
		Description: "print back the given text",
		Run: func(t command.Term, args string) command.RetCode {
			t.Printf("%s\n", args)
			return command.Ok
		},
	}
}
