package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"wordspy/internal/config"
	"wordspy/internal/telegram"
)

func main() {
	// Define subcommands
	setCmd := flag.NewFlagSet("set", flag.ExitOnError)
	setURL := setCmd.String("url", "", "Public webhook URL (default: WEBHOOK_URL from the environment)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is not configured")
	}

	bot, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	switch os.Args[1] {
	case "set":
		setCmd.Parse(os.Args[2:])
		url := *setURL
		if url == "" {
			url = cfg.WebhookURL
		}
		if url == "" {
			log.Fatal("No webhook URL given: pass -url or set WEBHOOK_URL")
		}
		if err := bot.SetWebhook(url, cfg.WebhookSecret); err != nil {
			log.Fatalf("Failed to set webhook: %v", err)
		}
		log.Printf("Webhook set to %s", url)

	case "delete":
		if err := bot.DeleteWebhook(); err != nil {
			log.Fatalf("Failed to delete webhook: %v", err)
		}
		log.Println("Webhook deleted")

	case "info":
		info, err := bot.WebhookInfo()
		if err != nil {
			log.Fatalf("Failed to get webhook info: %v", err)
		}
		log.Printf("URL: %s", info.URL)
		log.Printf("Pending updates: %d", info.PendingUpdateCount)
		if info.LastErrorMessage != "" {
			log.Printf("Last error: %s", info.LastErrorMessage)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: webhook <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  set [-url URL]   Register the webhook with Telegram")
	fmt.Println("  delete           Remove the registered webhook")
	fmt.Println("  info             Show the current webhook state")
}
