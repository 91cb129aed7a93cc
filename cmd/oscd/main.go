// Command oscd runs the OSC dispatch server. It listens for OSC 1.0 datagrams
// over UDP and routes them to the built-in method set; /system/shutdown (or
// SIGINT/SIGTERM) stops it gracefully.
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/soundctl/oscd/internal/config"
	"github.com/soundctl/oscd/internal/handler"
	"github.com/soundctl/oscd/osc"
)

const version = "1.0.0"

func main() {
	log.SetPrefix("oscd: ")
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	d := &osc.Dispatcher{}
	srv := &osc.Server{
		Addr:        cfg.Addr(),
		Dispatcher:  d,
		ReadTimeout: cfg.ReadTimeout,
	}

	set := handler.New(handler.Config{
		Name:    cfg.Name,
		Version: version,
		Shutdown: func() {
			log.Println("shutdown requested via /system/shutdown")
			if err := srv.Shutdown(); err != nil {
				log.Printf("shutdown: %v", err)
			}
		},
	})
	if err := set.Register(d); err != nil {
		log.Fatalf("failed to register handlers: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Printf("shutdown requested via %v", s)
		if err := srv.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("%s %s listening on %s", cfg.Name, version, cfg.Addr())
	if err := srv.ListenAndServe(); !errors.Is(err, osc.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("stopped")
}
