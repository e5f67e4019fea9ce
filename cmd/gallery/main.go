package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"portfolio-api/internal/client"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(args []string, out io.Writer) int {
	logger := log.New(out, "[Gallery] ", log.LstdFlags)

	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)
	apiURL := fs.String("api", "http://localhost:8080", "Base URL of the photo API")
	collection := fs.String("collection", "", "List the photos of this collection")
	covers := fs.String("covers", "", "Comma-separated collections to resolve covers for")
	refresh := fs.String("refresh", "", "Re-issue the URL of one photo id (collection/file)")
	watch := fs.Bool("watch", false, "Keep running and report when the newest listed URL expires")
	timeout := fs.Duration("timeout", 10*time.Second, "Request timeout")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *collection == "" && *covers == "" && *refresh == "" {
		fs.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(*apiURL, *timeout)
	failed := false

	if *collection != "" {
		state := client.NewPhotoFeed(c, *collection).Load(ctx)
		if state.Status == client.StatusError {
			logger.Printf("❌ %s: %s", *collection, state.Err)
			failed = true
		} else {
			logger.Printf("✅ %s: %d photos", *collection, len(state.Photos))
			for _, p := range state.Photos {
				date := ""
				if p.Metadata != nil {
					date = p.Metadata.Date
				}
				logger.Printf("   %-40s %-24s expires %s", p.ID, date, p.ExpiresAt.Format(time.RFC3339))
			}

			if *watch && len(state.Photos) > 0 {
				watchExpiry(ctx, logger, client.NewExpiryWatcher(state.Photos[0], client.DefaultExpiryInterval))
			}
		}
	}

	if *covers != "" {
		var names []string
		for _, name := range strings.Split(*covers, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}

		state := client.NewCoverFeed(c, names).Load(ctx)
		if state.Status == client.StatusError {
			logger.Printf("❌ covers: %s", state.Err)
			failed = true
		} else {
			keys := make([]string, 0, len(state.Covers))
			for k := range state.Covers {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				if url := state.Covers[k]; url != nil {
					logger.Printf("🖼️  %s -> %s", k, *url)
				} else {
					logger.Printf("⏭️  %s has no cover", k)
				}
			}
		}
	}

	if *refresh != "" {
		signed, err := c.RefreshPhoto(ctx, *refresh)
		if err != nil {
			logger.Printf("❌ refresh %s: %v", *refresh, err)
			failed = true
		} else {
			logger.Printf("🔄 %s valid until %s\n   %s", *refresh, signed.ExpiresAt.Format(time.RFC3339), signed.URL)
		}
	}

	if failed {
		return 1
	}
	return 0
}

func watchExpiry(ctx context.Context, logger *log.Logger, w *client.ExpiryWatcher) {
	logger.Println("Watching URL expiry (Ctrl+C to stop)...")
	go w.Run(ctx)

	ticker := time.NewTicker(client.DefaultExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.Expired() {
				logger.Println("⚠️  Signed URL expired; run again or use -refresh")
				return
			}
		}
	}
}
