// One-shot batch runner: collects from every registered source with criteria
// taken from flags, prints the event stream to stdout, and delivers unseen
// matches to Telegram when configured.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"go-jobdb-automation/internal/auth"
	"go-jobdb-automation/internal/browser"
	"go-jobdb-automation/internal/config"
	"go-jobdb-automation/internal/dedup"
	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/notify"
	"go-jobdb-automation/internal/orchestrator"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"
)

func main() {
	query := flag.String("query", "", "keyword query (AND semantics, space or comma separated)")
	location := flag.String("location", "", "location constraint")
	jobCategory := flag.String("category", "", "job category")
	minSalary := flag.String("min-salary", "", "minimum salary in 万円")
	databases := flag.String("databases", strings.Join(sites.Keys(), ","), "comma-separated source keys")
	flag.Parse()

	cfg := config.Load()
	log.Printf("🔧 Config loaded. Query: %q", *query)

	sessions := browser.NewSessionManager(cfg.UserDataDir)
	defer sessions.Close()

	mailbox := auth.NewCaptchaMailbox()
	orch := orchestrator.New(sessions, auth.NewController(mailbox), cfg.Headless)

	var bot *notify.TelegramBot
	if cfg.TelegramToken != "" {
		var err error
		bot, err = notify.NewTelegramBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram delivery disabled: %v", err)
			bot = nil
		}
	}

	jobCache := dedup.NewJobCache(cfg.CachePath)

	req := orchestrator.Request{
		FilterCriteria: models.FilterCriteria{
			Query:       *query,
			Location:    *location,
			JobCategory: *jobCategory,
			MinSalary:   *minSalary,
		},
		Databases: strings.Split(*databases, ","),
	}

	log.Println("🚀 Starting collection run...")

	var delivered []string
	emit := func(ev stream.Event) {
		line, err := json.Marshal(ev)
		if err != nil {
			log.Printf("⚠️ Failed to marshal event: %v", err)
			return
		}
		fmt.Println(string(line))

		if ev.Type != "job" || ev.Job == nil {
			return
		}
		if jobCache.IsSeen(ev.Job.URL) {
			log.Printf("ℹ️ Already delivered, skipping: %s", ev.Job.Title)
			return
		}
		if bot != nil {
			if err := bot.SendJob(*ev.Job); err != nil {
				log.Printf("⚠️ Failed to send job to Telegram: %v", err)
				return
			}
		}
		delivered = append(delivered, ev.Job.URL)
	}

	orch.Run(req, emit)

	jobCache.Add(delivered)
	log.Printf("💾 Marked %d jobs as delivered", len(delivered))

	if bot != nil && len(delivered) > 0 {
		if err := bot.SendStatus(fmt.Sprintf("✅ Delivered %d new matching jobs.", len(delivered))); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
}
