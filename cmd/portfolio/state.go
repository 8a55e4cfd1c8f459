package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/notify"
	"github.com/jonathan/portfolio/internal/storage"
	"github.com/jonathan/portfolio/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|toggle|clear]",
	Short: "Show or change the stored theme preference",
	Long: `Without arguments, prints the stored theme preference. "light" or "dark"
stores that preference, "toggle" flips it and "clear" removes it so the next
render follows the configured color scheme.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle", "clear"},
	RunE:      runTheme,
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or end the visitor session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session and whether the visit was announced",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the current session so the next render announces a new visit",
	Args:  cobra.NoArgs,
	RunE:  runSessionEnd,
}

func init() {
	addDataFlag(themeCmd.Flags())
	addDataFlag(sessionShowCmd.Flags())
	addDataFlag(sessionEndCmd.Flags())

	sessionCmd.AddCommand(sessionShowCmd, sessionEndCmd)
	rootCmd.AddCommand(themeCmd, sessionCmd)
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	action := ""
	if len(args) == 1 {
		action = args[0]
	}
	return themeAction(os.Stdout, store.Local(), action)
}

// themeAction applies action to the stored preference and prints the result
func themeAction(out io.Writer, local *storage.Local, action string) error {
	current := func() (string, error) {
		v, ok, err := local.Get(theme.StorageKey)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		return v, nil
	}

	switch action {
	case "":
	case "clear":
		if err := local.Delete(theme.StorageKey); err != nil {
			return err
		}
	case "toggle":
		v, err := current()
		if err != nil {
			return err
		}
		t, err := theme.Parse(v)
		if err != nil {
			t = theme.Light
		}
		if err := local.Set(theme.StorageKey, string(theme.Next(t))); err != nil {
			return err
		}
	default:
		t, err := theme.Parse(action)
		if err != nil {
			return err
		}
		if err := local.Set(theme.StorageKey, string(t)); err != nil {
			return err
		}
	}

	v, err := current()
	if err != nil {
		return err
	}
	if v == "" {
		v = "(none)"
	}
	_, _ = fmt.Fprintf(out, "theme: %s\n", v)
	return nil
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := store.CurrentSession()
	if err != nil {
		return err
	}
	marker := notify.NewSessionMarker(session)
	_, _ = fmt.Fprintf(os.Stdout, "session: %s\nnotified: %t\n", session.ID(), marker.Notified())
	return nil
}

func runSessionEnd(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := store.CurrentSession()
	if err != nil {
		return err
	}
	if err := session.End(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "ended session %s\n", session.ID())
	return nil
}
