package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/team-balancer/app/event"
)

// Bot is a command to run discord bot.
type Bot struct {
	StoreOpts
	Token            string   `long:"token"            env:"TOKEN"            description:"Discord bot token" required:"true"`
	AdminIDs         []string `long:"admin-id"         env:"ADMIN_IDS"        description:"Admin discords IDs" env-delim:","`
	VoiceChannelID   string   `long:"voice-channel-id" env:"VOICE_CHANNEL_ID" description:"Common voice channel ID"`
	DefaultTeamCount int      `long:"teams"            env:"TEAMS"            description:"Teams to build when not given" default:"2"`

	CommonOpts
}

// Execute runs the command.
func (b *Bot) Execute([]string) error {
	svc, closeStore, err := b.service(nil)
	if err != nil {
		return err
	}
	defer closeStore()

	disc := &event.Discord{
		Token:            b.Token,
		AdminIDs:         b.AdminIDs,
		VoiceChannelID:   b.VoiceChannelID,
		DefaultTeamCount: b.DefaultTeamCount,
		Service:          svc,
	}

	ctx, cancel := signalContext()
	defer cancel(nil)

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		log.Printf("[INFO] starting bot %s", b.Version)
		return disc.Run(ctx)
	})
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping bot")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run bot: %w", err)
	}

	return nil
}
