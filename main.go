package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/internal/config"
	"fittrack/internal/database"
	"fittrack/internal/notify"
	"fittrack/internal/router"
	"fittrack/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	for _, dir := range []string{cfg.Data.Dir, cfg.Backup.Dir, cfg.Report.Dir} {
		if err := ensureDir(dir); err != nil {
			log.Fatalf("create dir %s: %v", dir, err)
		}
	}

	// flat-file aggregate store
	gw, err := store.NewGateway(cfg.Data.Dir, cfg.Backup.Dir, cfg.Security.EncryptionKey)
	if err != nil {
		log.Fatalf("init data store: %v", err)
	}
	st := store.New(gw)

	// audit log database
	auditDB, err := database.Init(cfg.Audit)
	if err != nil {
		log.Fatalf("init audit database: %v", err)
	}
	if err := database.AutoMigrate(auditDB); err != nil {
		log.Fatalf("migrate audit database: %v", err)
	}

	// notification center + reminder loop
	nm := notify.NewManager()
	interval := time.Duration(cfg.Notify.ReminderIntervalSec) * time.Second
	stopReminders := nm.StartReminderLoop(interval)
	defer stopReminders()

	// graceful shutdown hook for Ctrl-C
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		stopReminders()
		os.Exit(0)
	}()

	// setup router
	r := router.SetupRouter(cfg, st, nm, auditDB)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
