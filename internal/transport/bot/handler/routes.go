package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"ltd_tracker/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnDeals, th.CommandEqual("deals"))
	adminGroup.HandleMessage(h.OnStats, th.CommandEqual("stats"))
	adminGroup.HandleMessage(h.OnUpcoming, th.CommandEqual("upcoming"))
	adminGroup.HandleMessage(h.OnFavorite, th.CommandEqual("fav"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnDealsPage, th.CallbackDataPrefix(dealsPagePrefix))
}
