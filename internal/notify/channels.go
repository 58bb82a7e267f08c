package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/maildeck/maildeck/pkg/models"
)

// WebService makes notifications available to UI polling. The dispatcher
// already persisted the notification, so delivery is complete by the time
// this runs.
type WebService struct{}

func (WebService) Name() models.Channel { return models.ChannelWeb }

func (WebService) Deliver(ctx context.Context, n *models.Notification) error {
	return nil
}

// DesktopService raises a platform notification by shelling out to a
// notifier binary (notify-send by default). If the binary is missing the
// channel silently does nothing, mirroring an ungranted permission.
type DesktopService struct {
	cmd     string
	granted bool
	logger  *slog.Logger
}

// NewDesktopService creates the desktop channel. cmd may be empty to
// disable it.
func NewDesktopService(cmd string, logger *slog.Logger) *DesktopService {
	s := &DesktopService{cmd: cmd, logger: logger.With("channel", "desktop")}
	if cmd != "" {
		if _, err := exec.LookPath(cmd); err == nil {
			s.granted = true
		} else {
			s.logger.Info("desktop notifier not available", "cmd", cmd)
		}
	}
	return s
}

func (s *DesktopService) Name() models.Channel { return models.ChannelDesktop }

func (s *DesktopService) Deliver(ctx context.Context, n *models.Notification) error {
	if !s.granted {
		return nil
	}
	body := fmt.Sprintf("Subject: %s\nMatched keyword: %s", n.Subject, n.MatchedKeyword)
	return exec.CommandContext(ctx, s.cmd, "--app-name=maildeck", "New Email Received", body).Run()
}

// SoundService plays a fixed audio cue through an external player.
// Playback failures are reported to the dispatcher, which logs and
// swallows them.
type SoundService struct {
	cmd  string
	file string
}

// NewSoundService creates the sound channel
func NewSoundService(cmd, file string) *SoundService {
	return &SoundService{cmd: cmd, file: file}
}

func (s *SoundService) Name() models.Channel { return models.ChannelSound }

func (s *SoundService) Deliver(ctx context.Context, n *models.Notification) error {
	if s.cmd == "" || s.file == "" {
		return nil
	}
	return exec.CommandContext(ctx, s.cmd, s.file).Run()
}
