package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vincent-heng/viking-warband/bot/util"
	"github.com/vincent-heng/viking-warband/config"
	"github.com/vincent-heng/viking-warband/game"
)

const cmdTimeout = 10 * time.Second

// Bot is the discord front-end of the game
type Bot struct {
	config.Config

	game    *game.Service
	channel util.ChannelFile
	session *discordgo.Session
}

type _Message struct {
	Channel string
	Message string
}

func (m _Message) getChan(id string) string {
	if m.Channel == "" {
		return id
	}
	return m.Channel
}

type _Response struct {
	msgs []_Message
	err  error
}

func simpleErr(err error, msg string) _Response {
	if msg == "" && err != nil {
		msg = err.Error()
	}

	return _Response{
		err: err,
		msgs: []_Message{
			{Message: msg},
		},
	}
}

func simpleResponse(msg string) _Response {
	return _Response{
		msgs: []_Message{
			{Message: msg},
		},
	}
}

type _Handler func(*Bot, context.Context, *discordgo.MessageCreate, uint) _Response

// New creates the discord session and hooks the bot on the game service.
// Nothing is sent before Open.
func New(conf config.Config, svc *game.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + conf.DiscordToken)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := newBot(conf, svc, util.DefaultChannelFile)
	b.session = session
	session.AddHandler(b.Handler)
	svc.OnRaidCompleted(b.announce)
	return b, nil
}

func newBot(conf config.Config, svc *game.Service, channel util.ChannelFile) *Bot {
	return &Bot{
		Config:  conf,
		game:    svc,
		channel: channel,
	}
}

// Open connects to discord
func (b *Bot) Open() error {
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

var (
	// cmd router
	router = map[string]_Handler{ //nolint:gochecknoglobals
		"join":    (*Bot).joinCmd,
		"warband": (*Bot).warbandCmd,
		"recruit": (*Bot).recruitCmd,
		"heal":    (*Bot).healCmd,
		"rest":    (*Bot).restCmd,
		"raids":   (*Bot).raidsCmd,
		"raid":    (*Bot).raidCmd,
		"watch":   (*Bot).watchCmd,
		"history": (*Bot).historyCmd,
		"attack":  actionCmdFunctor(game.ActionAttack),
		"defend":  actionCmdFunctor(game.ActionDefend),
		"special": actionCmdFunctor(game.ActionSpecial),
		// game master cmd
		"start_raids": gameMasterCmdFunctor((*Bot).startRaidsCmd),
		"shout":       gameMasterCmdFunctor((*Bot).shoutCmd),
		"contract":    gameMasterCmdFunctor((*Bot).contractCmd),
	}
)

func gameMasterCmdFunctor(handler _Handler) _Handler {
	return func(b *Bot, ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
		// GM commands
		if authorID != b.Config.GameMaster {
			return simpleErr(errNotGameMaster, "Commande réservée au maître du jeu.")
		}
		return handler(b, ctx, m, authorID)
	}
}

func actionCmdFunctor(action game.Action) _Handler {
	return func(b *Bot, ctx context.Context, m *discordgo.MessageCreate, authorID uint) _Response {
		return b.handleAction(ctx, authorID, action)
	}
}

// Handler for discord events
func (b *Bot) Handler(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.Fields(m.Content)
	if len(content) < 1 || !strings.HasPrefix(content[0], "!") {
		return
	}

	handler, ok := router[content[0][1:]]
	if !ok {
		// not a cmd
		return
	}

	authorID64, err := strconv.ParseUint(strings.TrimSpace(m.Author.ID), 10, 64)
	if err != nil {
		log.Warn().Str("author", m.Author.ID).Msg("[Response] Unexpected error (authorID not an integer)")
		s.ChannelMessageSend(m.ChannelID, "Erreur inattendue :cry:") //nolint:errcheck
		return
	}
	authorID := uint(authorID64)

	cmdID := uuid.New().String()
	log.Debug().
		Str("cmd", content[0]).
		Uint("user", authorID).
		Strs("params", content[1:]).
		Str("cmdID", cmdID).
		Msg("calling handler for cmd")

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	resp := handler(b, ctx, m, authorID)

	for i := range resp.msgs {
		msg := &resp.msgs[i]

		if _, err := s.ChannelMessageSend(msg.getChan(m.ChannelID), msg.Message); err != nil {
			log.Error().Err(err).Msg("cannot push message")
		}
	}

	log.Debug().
		Str("cmdID", cmdID).
		Err(resp.err).
		Interface("message", resp.msgs).
		Msg("cmd done")
}

// announce posts the result of every completed raid on the raid channel
func (b *Bot) announce(st game.BattleState) {
	if b.session == nil {
		return
	}

	channelID, err := b.channel.Get()
	if err != nil {
		log.Error().Err(err).Msg("cannot read raid channel")
		return
	}
	if channelID == "" {
		return
	}

	if _, err := b.session.ChannelMessageSend(channelID, raidReport(st)); err != nil {
		log.Error().Err(err).Str("battle", st.ID).Msg("cannot announce raid")
	}
}
