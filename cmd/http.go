package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	commonJetstream "clubdesk/common/jetstream"
	"clubdesk/common/otel"
	inboundCron "clubdesk/inbound/cron"
	inboundHttp "clubdesk/inbound/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		mem, err := os.Create("http-mem.prof")
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer mem.Close()

		err = pprof.WriteHeapProfile(mem)
		if err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
		defer mem.Close()
	}

	if endpoint := cfg.GetString("otel.endpoint"); endpoint != "" {
		shutdown, err := otel.InitTracerProvider(ctx, endpoint)
		if err != nil {
			log.Fatalln("unable to init tracer provider", err)
		}
		defer shutdown(context.Background())
	}

	validate := validator.New()

	st, closeStore := newStore(cfg)
	defer closeStore()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	commonJetstream.CreateQueueStream(ctx, js)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)

	germanPrinter := message.NewPrinter(language.German)

	inboundHttp.RegisterTicketHttp(mux, st, cacheClient, js, validate)
	inboundHttp.RegisterTemplateHttp(mux, st, validate)
	inboundHttp.RegisterNotificationHttp(mux, st, cacheClient)
	inboundHttp.RegisterPortalHttp(mux, st, cacheClient, js, validate, germanPrinter)
	inboundHttp.RegisterComposeHttp(mux, validate)

	inboxCron := &inboundCron.InboxCron{
		Cfg:   cfg,
		Cache: cacheClient,
		Store: st,
	}

	err := inboxCron.InitUnreadCache(ctx)
	if err != nil {
		log.Fatalln("unable to init unread cache", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(inboundHttp.CorsMiddleware(mux)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started")

	go func() {
		inboxCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
