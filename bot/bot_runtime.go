//go:build !test

/* bot_runtime.go
 * Runtime wiring between the Discord gateway and the testable handlers in
 * handlers.go.
 */

package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
)

// Run connects to the Discord gateway and blocks until SIGINT or SIGTERM.
func (b *Bot) Run() error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	// The handlers only read message content, so request exactly that.
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	discord.AddHandler(b.newMessage)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer discord.Close()

	log.Println("World Cup Pickems Bot started")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("World Cup Pickems Bot shutting down")
	return nil
}

// newMessage adapts the gateway callback to newMessageHandler, which accepts the
// DiscordSession interface instead of the concrete session.
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
