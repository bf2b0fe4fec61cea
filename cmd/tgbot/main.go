package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"Floe/internal/calc/lindqvist"
	"Floe/internal/config"
	"Floe/internal/observability"
)

const apiBase = "https://api.telegram.org"

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

const usage = "Usage: /ice L B T v phi psi alpha h_cm\n" +
	"L, B, T in m; v ship speed; phi trim, psi keel-motion and alpha side-waterline angles in degrees; h_cm ice thickness in cm.\n" +
	"Example: /ice 100 20 8 5 10 20 30 50"

type bot struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)
	if cfg.BotToken == "" {
		logger.Error("TOKEN_BOT missing")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := &bot{
		token:   cfg.BotToken,
		baseURL: apiBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
	b.run(ctx)
	logger.Info("bot stopped")
}

func (b *bot) run(ctx context.Context) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("getUpdates error", "error", err)
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil {
				continue
			}
			text, ok := reply(u.Message.Text)
			if !ok {
				continue
			}
			if err := b.sendMessage(ctx, u.Message.Chat.ID, text); err != nil {
				b.logger.Warn("sendMessage error", "chat", u.Message.Chat.ID, "error", err)
			}
		}
	}
}

// reply maps an incoming message to the bot's answer. The second value is
// false for messages the bot ignores.
func reply(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	cmd := strings.SplitN(fields[0], "@", 2)[0]
	switch cmd {
	case "/start", "/help":
		return usage, true
	case "/ice":
	default:
		return "", false
	}

	args := fields[1:]
	if len(args) != 8 {
		return usage, true
	}
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.ReplaceAll(a, ",", "."), 64)
		if err != nil || v < 0 {
			return "Invalid input. Please enter valid non-negative numeric values.\n" + usage, true
		}
		vals[i] = v
	}
	res, err := lindqvist.Calculate(lindqvist.Input{
		LengthM:        vals[0],
		BreadthM:       vals[1],
		DraftM:         vals[2],
		Speed:          vals[3],
		TrimDeg:        vals[4],
		KeelDeg:        vals[5],
		SideDeg:        vals[6],
		IceThicknessCM: vals[7],
	})
	if err != nil {
		return err.Error(), true
	}
	return lindqvist.FormatKN(res), true
}

func (b *bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?timeout=20&offset=%d", b.baseURL, b.token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("getUpdates: status %d", res.StatusCode)
	}
	return out.Result, nil
}

func (b *bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", b.baseURL, b.token)
	payload, err := json.Marshal(map[string]any{"chat_id": chatID, "text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: status %d", res.StatusCode)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
