package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/model"
	pkgResponse "agenda-assistant/pkg/response"
	pkgTelegram "agenda-assistant/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine to avoid Telegram webhook timeout (Telegram expects a
// response within a few seconds, but the LLM + Calendar pipeline can take
// 5-10s).
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Snapshot the message before spawning goroutine to avoid data races on gin context
	msg := update.Message

	go func() {
		// Detach from HTTP request context (cancelled after the response)
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, "Si è verificato un errore durante l'elaborazione. Riprova tra poco.")
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Text == "" {
		return nil
	}

	// ---- Built-in commands ----
	switch msg.Text {
	case "/start":
		return h.bot.SendMessageWithMode(msg.Chat.ID,
			"👋 Ciao! Sono il tuo *assistente agenda*.\n\nScrivimi in italiano cosa vuoi fare con il calendario:\n• 📅 \"Crea una riunione con Mario domani alle 15\"\n• 🔄 \"Sposta la riunione di un'ora\"\n• 👀 \"Che impegni ho questa settimana?\"\n• 🗑 \"Cancella l'appuntamento dal dentista\"",
			"Markdown",
		)
	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID,
			"*Come si usa:*\n\nScrivi il comando come lo diresti a voce, ad esempio:\n`Organizza una call con Anna venerdì alle 10 e poi mostrami gli impegni di domani`\n\nPosso creare, spostare, elencare ed eliminare eventi. Se dici solo \"posticipala di due ore\" capisco che intendi l'ultimo evento di cui abbiamo parlato.",
			"Markdown",
		)
	}

	// Scope from the Telegram chat: each chat is its own conversation.
	sc := model.NewScope(
		fmt.Sprintf("telegram_%d", msg.Chat.ID),
		fmt.Sprintf("telegram_%d", msg.From.ID),
		msg.From.Username,
	)

	if err := h.bot.SendMessage(msg.Chat.ID, "⏳ Un attimo..."); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	output, err := h.uc.Process(ctx, sc, command.ProcessInput{RawCommand: msg.Text})
	if err != nil {
		if err == command.ErrEmptyCommand {
			return h.bot.SendMessage(msg.Chat.ID, "Non ho ricevuto nessun comando. Scrivimi cosa vuoi fare.")
		}
		h.l.Errorf(ctx, "telegram handler: Process failed: %v", err)
		return h.bot.SendMessage(msg.Chat.ID, fmt.Sprintf("Non sono riuscito a elaborare la richiesta: %v", err))
	}

	reply := formatReply(output)
	if reply == "" {
		reply = "Fatto."
	}
	return h.bot.SendMessageWithMode(msg.Chat.ID, reply, "Markdown")
}

// formatReply renders the action results as a single Italian message.
func formatReply(out command.ProcessOutput) string {
	var b strings.Builder
	for i, res := range out.Results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(formatResult(res))
	}
	return strings.TrimSpace(b.String())
}

func formatResult(res command.ActionResult) string {
	var b strings.Builder

	switch {
	case res.AuthExpired:
		b.WriteString("🔑 ")
	case !res.Success:
		b.WriteString("⚠️ ")
	}
	b.WriteString(res.Message)

	if res.EventLink != "" {
		b.WriteString(fmt.Sprintf("\n📅 [Apri nel calendario](%s)", res.EventLink))
	}

	for _, ev := range res.Events {
		b.WriteString(fmt.Sprintf("\n• *%s* — %s", ev.Title, ev.Start.Format("02/01 15:04")))
		if ev.Link != "" {
			b.WriteString(fmt.Sprintf(" ([apri](%s))", ev.Link))
		}
	}

	return b.String()
}
