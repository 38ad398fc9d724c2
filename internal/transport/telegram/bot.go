package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/chat"
	"github.com/sandevgo/mindful/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	chat    *chat.Service
	router  core.CmdRouter
	ownerID int64
	persona string

	mu    sync.Mutex
	chats map[int64]*core.ChatRef
}

// NewBot creates the owner-only bot. A non-empty persona gives the bot
// access to that demo calendar.
func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	chatSvc *chat.Service,
	router core.CmdRouter,
	persona string,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		chat:    chatSvc,
		router:  router,
		ownerID: cfg.GetTelegramOwnerID(),
		persona: persona,
		chats:   make(map[int64]*core.ChatRef),
	}

	// Handlers run with the service context so they share its logger.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// chatRef returns the conversation state of a Telegram chat. The session
// changes only through /new.
func (b *Bot) chatRef(chatID, senderID int64) *core.ChatRef {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref, ok := b.chats[chatID]
	if !ok {
		ref = &core.ChatRef{
			UserID:    fmt.Sprintf("telegram-%d", senderID),
			SessionID: fmt.Sprintf("telegram-%d", chatID),
		}
		b.chats[chatID] = ref
	}
	return ref
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	ref := b.chatRef(c.Chat().ID, c.Sender().ID)

	b.mu.Lock()
	result, isCmd := b.router.Execute(ctx, ref, c.Text())
	current := *ref
	b.mu.Unlock()

	if isCmd {
		return b.sender.sendMarkdown(ctx, c.Chat(), result, true)
	}

	typing := throttle(typingInterval, time.Now, func() { _ = c.Notify(tele.Typing) })
	typing()

	var reply strings.Builder
	res, err := b.chat.Reply(ctx, current.SessionID, b.meta(current.UserID, c.Sender()), c.Text(), &reply, typing)
	if err != nil {
		logger.Error().Err(err).Msg("chat turn failed")
		return c.Send(chat.Apology)
	}

	text := reply.String()
	if res.Failed && text == "" {
		text = chat.Apology
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), text, false)
}

func (b *Bot) meta(userID string, u *tele.User) core.SessionMeta {
	meta := core.SessionMeta{
		User: core.User{ID: userID, Name: strings.TrimSpace(u.FirstName + " " + u.LastName)},
	}
	if b.persona != "" {
		meta.Persona = b.persona
		meta.CalendarPermission = true
	}
	return meta
}

// Telegram shows a chat action for about five seconds.
const typingInterval = 4 * time.Second

// throttle returns a function that runs fn at most once per interval.
func throttle(interval time.Duration, now func() time.Time, fn func()) func() {
	var last time.Time
	return func() {
		t := now()
		if !last.IsZero() && t.Sub(last) < interval {
			return
		}
		last = t
		fn()
	}
}
