// Package cli wires configuration, the backend and the coordinator into
// the usergrip commands.
package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"usergrip/internal/eventbus"
	"usergrip/internal/ui"
)

// forwardedEvents are the bus events the TUI reacts to
var forwardedEvents = []eventbus.EventType{
	eventbus.EventStateChanged,
	eventbus.EventNotification,
	eventbus.EventFetchFailed,
	eventbus.EventUsersFetched,
	eventbus.EventPollScheduled,
	eventbus.EventUserSaved,
	eventbus.EventUsersDeleted,
}

// NewRootCmd returns the usergrip command. Without a subcommand it runs the TUI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&Options{})
}

func newRootCmd(opts *Options) *cobra.Command {
	var startAction string

	rootCmd := &cobra.Command{
		Use:           "usergrip",
		Short:         "Manage console users from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if startAction != "" && startAction != ui.StartActionCreate {
				return fmt.Errorf("unknown action %q", startAction)
			}
			return runTUI(cmd, opts, ui.Options{StartAction: startAction})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/usergrip/config.toml)")
	pf.BoolVar(&opts.Demo, "demo", false, "Use an in-memory server with generated users")
	pf.IntVar(&opts.DemoUsers, "demo-users", 45, "Number of users generated in demo mode")
	pf.BoolVar(&opts.Debug, "debug", false, "Log every HTTP request")
	pf.IntVarP(&opts.PageSize, "page-size", "s", 0, "Users per page (20, 30, 50 or 100)")
	pf.DurationVar(&opts.PollInterval, "poll-interval", 0, "Refresh interval while users are being deleted")
	pf.StringVar(&opts.LogFile, "log-file", "", "Log file, empty to disable logging")
	pf.BoolVarP(&RawOutput, "raw", "r", false, "Print plain JSON")

	rootCmd.Flags().StringVarP(&startAction, "action", "a", "", "Run an action on start (create)")

	rootCmd.AddCommand(
		newListCmd(opts),
		newDeleteCmd(opts),
		newRolesCmd(opts),
	)
	return rootCmd
}

func runTUI(cmd *cobra.Command, opts *Options, uiOpts ui.Options) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(a.coord, a.bus, uiOpts)

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	uiModel.SetProgram(p)

	stop := forwardEvents(a.bus, p)
	defer stop()

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("failed to run program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}

// forwardEvents sends bus events to the program until stop is called.
// Events are dropped rather than blocking the bus when the UI falls behind.
func forwardEvents(bus eventbus.EventBus, p *tea.Program) (stop func()) {
	eventChan := make(chan eventbus.DomainEvent, 100)
	done := make(chan struct{})

	forward := func(e eventbus.DomainEvent) {
		select {
		case <-done:
			return
		default:
		}
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}

	unsubscribe := make([]func(), 0, len(forwardedEvents))
	for _, t := range forwardedEvents {
		unsubscribe = append(unsubscribe, bus.Subscribe(t, forward))
	}

	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-done:
				return
			}
		}
	}()

	return func() {
		for _, u := range unsubscribe {
			u()
		}
		close(done)
	}
}
