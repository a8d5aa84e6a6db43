package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobdb-automation/internal/auth"
	"go-jobdb-automation/internal/browser"
	"go-jobdb-automation/internal/config"
	"go-jobdb-automation/internal/export"
	"go-jobdb-automation/internal/notify"
	"go-jobdb-automation/internal/orchestrator"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playwright-community/playwright-go"
)

// newRouter wires the HTTP boundary. The UI is served from another origin,
// so every route allows cross-origin calls.
func newRouter(sessions *browser.SessionManager, mailbox *auth.CaptchaMailbox, orch *orchestrator.Orchestrator, exporter *export.Exporter) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Job DB automation engine is running!",
			"status":  "healthy",
		})
	})

	// opens a headed window on a source's entry page for manual use
	r.GET("/api/open-browser", func(c *gin.Context) {
		site, ok := sites.Lookup(c.Query("db"))
		if !ok {
			c.String(http.StatusBadRequest, "Invalid DB")
			return
		}
		ctx, err := sessions.Context(false)
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		page, err := ctx.NewPage()
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		page.Goto(site.URL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
		})
		c.String(http.StatusOK, "Browser opened")
	})

	// hands a CAPTCHA answer to whichever source is currently blocked
	r.POST("/api/input", func(c *gin.Context) {
		var body struct {
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mailbox.Put(body.Value)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// runs one batch, streaming NDJSON events until complete
	r.POST("/api/collect", func(c *gin.Context) {
		var req orchestrator.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "application/json")
		c.Header("Transfer-Encoding", "chunked")

		writer := stream.NewNDJSONWriter(c.Writer)
		orch.Run(req, writer.Emit)
	})

	r.POST("/api/download-pdf", func(c *gin.Context) {
		var body struct {
			URL    string `json:"url"`
			Source string `json:"source"`
			Title  string `json:"title"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doc, err := exporter.Export(body.Source, body.URL, body.Title)
		if err != nil {
			log.Printf("PDF Download Error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
		c.Data(http.StatusOK, doc.ContentType, doc.Data)
	})

	return r
}

func main() {
	cfg := config.Load()

	sessions := browser.NewSessionManager(cfg.UserDataDir)
	mailbox := auth.NewCaptchaMailbox()
	authController := auth.NewController(mailbox)
	exporter := export.NewExporter(sessions)

	orch := orchestrator.New(sessions, authController, cfg.Headless)
	if cfg.TelegramToken != "" {
		bot, err := notify.NewTelegramBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram delivery disabled: %v", err)
		} else {
			orch.WithNotifier(bot)
			log.Println("🤖 Telegram delivery enabled.")
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(sessions, mailbox, orch, exporter),
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// close the browser context on termination so the OS-level process
	// is not leaked
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}
	if err := sessions.Close(); err != nil {
		log.Printf("⚠️ Browser shutdown error: %v", err)
	}
	log.Println("🏁 Shutdown complete.")
}
