// Package telegram sends school meal digests to a Telegram chat.
//
// Messages go through the Bot API's sendMessage method using plain HTTP
// requests with HTML formatting. Authentication requires a bot token (from
// @BotFather) and a chat ID.
package telegram
