package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/api"
	"homedash/pkg/auth"
	"homedash/pkg/config"
	"homedash/pkg/db"
	"homedash/pkg/logging"
	"homedash/pkg/store"
	"homedash/pkg/version"
)

func main() {
	cfg, cfgErr := config.Load()

	addr := flag.String("addr", cfg.Addr, "listen address (env PORT or LISTEN_ADDR)")
	driver := flag.String("db", cfg.Database.Driver, "database backend: sqlite|mysql|postgres|memory (env DATABASE_DRIVER)")
	tlsCert := flag.String("tls-cert", cfg.TLSCert, "TLS cert path (enables HTTPS if set with --tls-key)")
	tlsKey := flag.String("tls-key", cfg.TLSKey, "TLS key path (enables HTTPS if set with --tls-cert)")
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("homedash version=%s", version.String())
		return
	}
	if cfgErr != nil {
		log.Fatalf("config: %v", cfgErr)
	}
	cfg.Database.Driver = *driver

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closer.Close()

	signer, err := auth.NewSigner(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	views, err := api.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	gdb, err := db.Open(cfg.Database, cfg.Development())
	if err != nil {
		log.Fatalf("unable to connect to the database: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()
	log.WithField("driver", cfg.Database.Driver).Info("database ready")

	st := store.NewGormStore(gdb)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := db.SeedAdmin(ctx, st, cfg.Admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	handler := api.NewHandler(st, signer, views, version.String()).Routes()
	srv, err := api.NewServer(*addr, handler, *tlsCert, *tlsKey)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	log.WithField("version", version.String()).Info("homedash starting")
	if err := srv.Run(ctx); err != nil {
		log.Errorf("server error: %v", err)
		stop()
		_ = db.Close(gdb)
		os.Exit(1)
	}
	log.Info("homedash stopped")
}
