package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ExchangeLedger/internal/ledger"
)

// Transport is the part of the Telegram client the router calls directly.
type Transport interface {
	SendDocument(chatID int64, path, caption string) error
	IsChatAdmin(chatID, userID int64) (bool, error)
}

// Router translates inbound chat messages into ledger operations and
// renders the results back to text. Authorization happens here; the ledger
// service trusts its callers.
type Router struct {
	Ledger    *ledger.Service
	Transport Transport
	Fiat      string
	Crypto    string
	AdminOnly bool
}

// NewRouter creates a Router.
func NewRouter(svc *ledger.Service, tr Transport, fiat, crypto string, adminOnly bool) *Router {
	return &Router{
		Ledger:    svc,
		Transport: tr,
		Fiat:      fiat,
		Crypto:    crypto,
		AdminOnly: adminOnly,
	}
}

// HandleUpdate implements notifier.UpdateHandler. Plain chatter that isn't
// a command or a signed amount is ignored.
func (r *Router) HandleUpdate(chatID, userID int64, text string) string {
	text = strings.TrimSpace(text)
	switch {
	case command(text) == "/start":
		return fmt.Sprintf("Welcome to the %s ↔ %s exchange ledger. Use /set <rate> to begin.", r.Fiat, r.Crypto)
	case command(text) == "/set":
		return r.handleSetRate(chatID, userID, argOf(text))
	case command(text) == "/add":
		return r.handleCryptoSent(chatID, argOf(text))
	case command(text) == "/balance":
		return FormatSummary(r.Ledger.Summary(chatID), r.Fiat, r.Crypto)
	case command(text) == "/reset":
		return r.handleReset(chatID, userID)
	case command(text) == "/export":
		return r.handleExport(chatID, userID, argOf(text))
	case strings.HasPrefix(text, "/"):
		return "Commands:\n/set <rate>\n/add <amount>[u]\n/balance\n/reset\n/export [yyyy-mm-dd]\nSend +N or -N to record a payment."
	case strings.HasPrefix(text, "+"), strings.HasPrefix(text, "-"):
		return r.handleFiatDelta(chatID, text)
	}
	return ""
}

func (r *Router) handleSetRate(chatID, userID int64, arg string) string {
	if !r.authorized(chatID, userID) {
		return "❌ Only group admins can set the rate."
	}
	rate, err := r.Ledger.SetRate(chatID, arg)
	switch {
	case errors.Is(err, ledger.ErrMissingArgument):
		return "❌ Please provide a rate. Use: /set 91.5"
	case errors.Is(err, ledger.ErrInvalidRateFormat):
		return "❌ Invalid rate format. Use: /set 91.5"
	case err != nil:
		log.Printf("[ERROR] set rate chat %d: %v", chatID, err)
		return "❌ Could not save the rate, please retry."
	}
	return fmt.Sprintf("✅ %s rate set to %s", r.Crypto, rate.String())
}

func (r *Router) handleFiatDelta(chatID int64, text string) string {
	sum, err := r.Ledger.ApplyFiatDelta(chatID, text)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmountFormat):
		return "❌ Invalid amount format."
	case errors.Is(err, ledger.ErrPersistence):
		log.Printf("[ERROR] fiat delta chat %d: %v", chatID, err)
		return "❌ Could not record the transaction, nothing was applied. Please retry."
	case err != nil:
		log.Printf("[ERROR] fiat delta chat %d: %v", chatID, err)
		return "❌ Something went wrong, please retry."
	}
	return FormatSummary(sum, r.Fiat, r.Crypto)
}

func (r *Router) handleCryptoSent(chatID int64, arg string) string {
	sum, err := r.Ledger.ApplyCryptoSent(chatID, arg)
	switch {
	case errors.Is(err, ledger.ErrMissingArgument), errors.Is(err, ledger.ErrInvalidAmountFormat):
		return "❌ Use format: /add 1000 or /add 1000u"
	case errors.Is(err, ledger.ErrPersistence):
		log.Printf("[ERROR] crypto sent chat %d: %v", chatID, err)
		return "❌ Could not record the transaction, nothing was applied. Please retry."
	case err != nil:
		log.Printf("[ERROR] crypto sent chat %d: %v", chatID, err)
		return "❌ Something went wrong, please retry."
	}
	return FormatSummary(sum, r.Fiat, r.Crypto)
}

func (r *Router) handleReset(chatID, userID int64) string {
	if !r.authorized(chatID, userID) {
		return "❌ Only group admins can reset the ledger."
	}
	if err := r.Ledger.Reset(chatID); err != nil {
		log.Printf("[ERROR] reset chat %d: %v", chatID, err)
		return "❌ Reset failed, please retry."
	}
	return "✅ Ledger reset. Rate preserved, all amounts cleared."
}

func (r *Router) handleExport(chatID, userID int64, arg string) string {
	if !r.authorized(chatID, userID) {
		return "❌ Only group admins can export the ledger."
	}
	day := r.Ledger.Now()
	if arg != "" {
		parsed, err := time.ParseInLocation("2006-01-02", arg, day.Location())
		if err != nil {
			return "❌ Invalid date. Use: /export 2026-08-28"
		}
		day = parsed
	}
	path, err := r.Ledger.ExportPath(chatID, day)
	if errors.Is(err, ledger.ErrNotFound) {
		return fmt.Sprintf("❌ No ledger log for %s.", day.Format("2006-01-02"))
	}
	caption := fmt.Sprintf("Ledger log %s", day.Format("2006-01-02"))
	if err := r.Transport.SendDocument(chatID, path, caption); err != nil {
		log.Printf("[ERROR] export chat %d: %v", chatID, err)
		return "❌ Could not deliver the log file, please retry."
	}
	return ""
}

func (r *Router) authorized(chatID, userID int64) bool {
	if !r.AdminOnly {
		return true
	}
	ok, err := r.Transport.IsChatAdmin(chatID, userID)
	if err != nil {
		log.Printf("[WARN] admin check failed for chat %d user %d: %v", chatID, userID, err)
		return false
	}
	return ok
}

// command extracts the leading /command token, dropping a @BotName suffix.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

// argOf returns everything after the command token.
func argOf(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}
