package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchsage/searchsage/internal/chat"
	"github.com/searchsage/searchsage/internal/config"
	"github.com/searchsage/searchsage/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("SSG_DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Load()
	if !cfg.HasSearch() {
		log.Warn().Msg("SERPAPI_KEY missing: live web search disabled; arxiv and wikipedia only")
	}

	prior, err := session.Load(cfg.HistoryPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("failed to load persisted conversation")
	}
	sess := session.New(prior)
	assistant := chat.New(cfg)

	// Graceful shutdown on Ctrl-C / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	fmt.Println("SearchSage: ask a question; follow-ups are understood in context (Ctrl-C to quit)")
	for _, t := range sess.Turns() {
		renderTurn(t)
	}

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			input string
			ok    bool
		)
		select {
		case <-ctx.Done():
			break outer
		case input, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if input == "" {
			continue
		}

		reply := assistant.Turn(ctx, sess, input, consoleEvents{})
		renderTurn(reply)

		if err := session.Save(cfg.HistoryPath, sess.Turns()); err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("failed to save conversation")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("stdin read error")
	}
}

func renderTurn(t session.Turn) {
	if t.Role == session.RoleUser {
		fmt.Printf("\u001b[94mYou\u001b[0m: %s\n", t.Content)
		return
	}
	fmt.Printf("\u001b[93mSage\u001b[0m: %s\n", t.Content)
}

// consoleEvents streams intermediate reasoning to the terminal as faint
// lines. Display only; it has no effect on the turn's outcome.
type consoleEvents struct{}

func (consoleEvents) Reformulated(standalone string) {
	fmt.Printf("\u001b[2m(searching for: %s)\u001b[0m\n", standalone)
}

func (consoleEvents) Thought(text string) {
	fmt.Printf("\u001b[2m%s\u001b[0m\n", text)
}

func (consoleEvents) ToolCall(name, input string) {
	fmt.Printf("\u001b[2m[%s] %s\u001b[0m\n", name, input)
}

func (consoleEvents) ToolResult(name, output string, isError bool) {
	if isError {
		fmt.Printf("\u001b[2m[%s] error: %s\u001b[0m\n", name, output)
		return
	}
	fmt.Printf("\u001b[2m[%s] %s\u001b[0m\n", name, output)
}
