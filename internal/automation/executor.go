// Package automation holds the side-effecting executors the engine
// dispatches recognized intents to. The engine only sees the Execute
// contract; everything OS- or API-specific stays in here.
package automation

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// EchoExecutor acknowledges every action without touching the OS. Used by
// tests and as a dry-run mode.
type EchoExecutor struct{}

func (EchoExecutor) Execute(_ context.Context, action, parameter string) (string, error) {
	if parameter == "" {
		return fmt.Sprintf("Done: %s.", action), nil
	}
	return fmt.Sprintf("Done: %s (%s).", action, parameter), nil
}

// LocalExecutor performs actions on the local machine: process launches
// for apps, the default browser for web-backed actions, amixer for volume
// on Linux. Anything it cannot do locally falls back to a browser URL,
// the same way the original desktop assistant did.
type LocalExecutor struct {
	log zerolog.Logger
}

func NewLocalExecutor(log zerolog.Logger) *LocalExecutor {
	return &LocalExecutor{log: log.With().Str("component", "automation").Logger()}
}

func (l *LocalExecutor) Execute(ctx context.Context, action, parameter string) (string, error) {
	l.log.Info().Str("action", action).Str("parameter", parameter).Msg("executing")

	switch action {
	case "open_application":
		if err := openApp(ctx, parameter); err != nil {
			return "", fmt.Errorf("could not launch %q: %w", parameter, err)
		}
		return fmt.Sprintf("Opening %s.", parameter), nil

	case "close_application":
		if err := closeApp(ctx, parameter); err != nil {
			return "", fmt.Errorf("could not close %q: %w", parameter, err)
		}
		return fmt.Sprintf("Closed %s.", parameter), nil

	case "search_web":
		if err := openURL(ctx, "https://www.google.com/search?q="+url.QueryEscape(parameter)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Searching the web for %s.", parameter), nil

	case "search_youtube":
		if err := openURL(ctx, "https://www.youtube.com/results?search_query="+url.QueryEscape(parameter)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Searching YouTube for %s.", parameter), nil

	case "play_music":
		if err := openURL(ctx, "https://music.youtube.com/search?q="+url.QueryEscape(parameter)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Playing %s.", parameter), nil

	case "set_volume":
		if err := setVolume(ctx, parameter+"%"); err != nil {
			return "", err
		}
		return fmt.Sprintf("Volume set to %s.", parameter), nil

	case "volume_up":
		if err := setVolume(ctx, "10%+"); err != nil {
			return "", err
		}
		return "Volume turned up.", nil

	case "volume_down":
		if err := setVolume(ctx, "10%-"); err != nil {
			return "", err
		}
		return "Volume turned down.", nil

	case "mute":
		if err := muteVolume(ctx); err != nil {
			return "", err
		}
		return "Muted.", nil

	case "make_call":
		if err := openURL(ctx, telURL(parameter)); err != nil {
			return "", fmt.Errorf("could not start a call to %q: %w", parameter, err)
		}
		return fmt.Sprintf("Calling %s.", parameter), nil

	case "calendar_op":
		if err := openURL(ctx, calendarURL(parameter)); err != nil {
			return "", err
		}
		return "Opening your calendar.", nil

	case "create_document":
		path, err := createDocument(parameter)
		if err != nil {
			return "", fmt.Errorf("could not create document: %w", err)
		}
		return fmt.Sprintf("Created %s.", path), nil

	case "take_screenshot":
		if err := takeScreenshot(ctx); err != nil {
			return "", fmt.Errorf("could not capture screen: %w", err)
		}
		return "Screenshot saved.", nil

	default:
		return "", fmt.Errorf("action %q is not supported on this machine", action)
	}
}

// telURL builds a dialer link; the OS routes it to whatever telephony app
// registered the tel scheme.
func telURL(target string) string {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, target)
	if digits != "" {
		return "tel:" + digits
	}
	return "tel:" + url.QueryEscape(target)
}

func calendarURL(description string) string {
	if description == "" {
		return "https://calendar.google.com/calendar/r"
	}
	return "https://calendar.google.com/calendar/r/eventedit?text=" + url.QueryEscape(description)
}

func createDocument(title string) (string, error) {
	name := strings.ReplaceAll(strings.ToLower(title), " ", "_")
	if name == "" {
		name = "untitled"
	}
	path := name + ".txt"
	return path, os.WriteFile(path, []byte{}, 0644)
}

func takeScreenshot(ctx context.Context) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "screencapture", "screenshot.png").Run()
	case "linux":
		return exec.CommandContext(ctx, "scrot", "screenshot.png").Run()
	default:
		return fmt.Errorf("screen capture not implemented for %s", runtime.GOOS)
	}
}

func openApp(ctx context.Context, name string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-a", name).Start()
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "", name).Start()
	default:
		bin := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		return exec.CommandContext(ctx, bin).Start()
	}
}

func closeApp(ctx context.Context, name string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.CommandContext(ctx, "taskkill", "/IM", name+".exe", "/F").Run()
	default:
		return exec.CommandContext(ctx, "pkill", "-f", strings.ToLower(name)).Run()
	}
}

func openURL(ctx context.Context, target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", target).Start()
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.CommandContext(ctx, "xdg-open", target).Start()
	}
}

func setVolume(ctx context.Context, level string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("volume control not implemented for %s", runtime.GOOS)
	}
	return exec.CommandContext(ctx, "amixer", "-q", "set", "Master", level).Run()
}

func muteVolume(ctx context.Context) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("volume control not implemented for %s", runtime.GOOS)
	}
	return exec.CommandContext(ctx, "amixer", "-q", "set", "Master", "mute").Run()
}
