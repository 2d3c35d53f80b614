package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pastelrecipes/internal/models"
)

// Notifier tells the admins about noteworthy events. Failures are logged and
// never fail the request that triggered them.
type Notifier interface {
	RecipeSubmitted(recipe *models.Recipe, author *models.User)
}

type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier returns nil (no notifications) when no token is
// configured.
func NewTelegramNotifier(botToken string, adminChatID int64) Notifier {
	if botToken == "" || adminChatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg] bot init failed, notifications disabled: %v", err)
		return nil
	}
	return &telegramNotifier{bot: bot, chatID: adminChatID}
}

func (n *telegramNotifier) RecipeSubmitted(recipe *models.Recipe, author *models.User) {
	text := fmt.Sprintf("New recipe submitted: %q (%s, %s) by %s",
		recipe.Title, recipe.Category, recipe.Difficulty, author.DisplayName)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[tg] notify failed for recipe_id=%d: %v", recipe.ID, err)
	}
}
