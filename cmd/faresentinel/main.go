package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FareSentinel/internal/api"
	"FareSentinel/internal/calculator"
	"FareSentinel/internal/collector"
	"FareSentinel/internal/config"
	"FareSentinel/internal/notifier"
	"FareSentinel/internal/scheduler"
	"FareSentinel/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	cmd, args := "check", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "check":
		cmdCheck(args)
	case "watch":
		cmdWatch(args)
	case "serve":
		cmdServe(args)
	case "import":
		cmdImport(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  faresentinel [check] [-config configs/config.yaml]   print the two-month cheapest-fare report")
	fmt.Println("  faresentinel watch [-config ...]                     run the comparison on schedule.watch_cron")
	fmt.Println("  faresentinel serve [-config ...]                     serve comparisons over HTTP")
	fmt.Println("  faresentinel import -calendar calendar.yaml          store a captured calendar in the sqlite snapshot store")
}

func loadConfig(fs *flag.FlagSet, args []string) *config.Config {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	cfgPath := fs.String("config", def, "Path to YAML config")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	return cfg
}

// buildCollector wires the configured calendar source. The returned closer releases it.
func buildCollector(cfg *config.Config) (*collector.Collector, func()) {
	closer := func() {}
	var src collector.CalendarSource
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		src = collector.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.APIKey, cfg.Source.Origin, cfg.Source.Destination, cfg.Proxy)
	case config.SourceSQLite:
		st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] open snapshot store: %v", err)
		}
		src = st.Source()
		closer = func() { st.Close() }
	default:
		src = collector.NewFixtureSource(cfg.Source.FixturePath)
	}
	log.Printf("[INFO] calendar source: %s", src.Name())

	parser := calculator.NewPriceParser(cfg.Pricing.Strip...)
	return collector.NewCollector(src, parser, cfg.Source.WaitTimeout, cfg.Source.LabelTrimPrefix), closer
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func cmdCheck(args []string) {
	cfg := loadConfig(flag.NewFlagSet("check", flag.ExitOnError), args)
	col, closeSource := buildCollector(cfg)
	defer closeSource()

	ctx, cancel := signalContext()
	defer cancel()

	cmp, err := col.Collect(ctx)
	if err != nil {
		if errors.Is(err, collector.ErrInvalidMonthIndex) {
			log.Fatalf("[FATAL] %v", err)
		}
		log.Printf("[ERROR] automation error: %v", err)
		os.Exit(1)
	}
	fmt.Print(notifier.NewFormatter(cfg.Pricing.Currency).FormatReport(cmp))
}

func cmdWatch(args []string) {
	cfg := loadConfig(flag.NewFlagSet("watch", flag.ExitOnError), args)
	col, closeSource := buildCollector(cfg)
	defer closeSource()

	ctx, cancel := signalContext()
	defer cancel()

	var n notifier.Notifier = notifier.NewWriterNotifier(os.Stdout)
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, col, notifier.NewFormatter(cfg.Pricing.Currency), n)
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}
	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] run_on_start enabled, comparing now")
		go sched.RunNow()
	}

	log.Printf("[INFO] FareSentinel watching (%s). Press Ctrl+C to stop.", cfg.Schedule.WatchCron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
}

func cmdServe(args []string) {
	cfg := loadConfig(flag.NewFlagSet("serve", flag.ExitOnError), args)
	col, closeSource := buildCollector(cfg)
	defer closeSource()

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(col, col.Parser, notifier.NewFormatter(cfg.Pricing.Currency))
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.WithCORS(router, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] http server: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	calPath := fs.String("calendar", "", "Path to a captured calendar YAML")
	sourceName := fs.String("source", "fixture", "Name recorded with the snapshot")
	cfg := loadConfig(fs, args)
	if *calPath == "" {
		*calPath = cfg.Source.FixturePath
	}

	cal, err := collector.LoadCalendar(*calPath)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open snapshot store: %v", err)
	}
	defer st.Close()

	id, err := st.SaveSnapshot(context.Background(), *sourceName, cal)
	if err != nil {
		log.Printf("[ERROR] save snapshot: %v", err)
		return
	}
	fmt.Printf("Stored snapshot %d with %d months from %s\n", id, len(cal.Months), *calPath)
}
