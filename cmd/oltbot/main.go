package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hsgq-olt-bot/api"
	"hsgq-olt-bot/bot"
	"hsgq-olt-bot/config"
	"hsgq-olt-bot/family"
	"hsgq-olt-bot/model"
	"hsgq-olt-bot/onu"
	"hsgq-olt-bot/version"
)

var (
	sc  config.SafeConfig
	log *zap.Logger
)

func main() {
	// parse command line args
	configFile := flag.String("config.file", "oltbot.yml", "")
	debug := flag.Bool("debug", false, "")
	flag.Parse()

	level := zap.InfoLevel
	if *debug {
		level = zap.DebugLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, _ = zapConfig.Build()
	defer log.Sync()
	log.Info("starting oltbot", zap.String("version", version.Version), zap.String("revision", version.Revision))

	// inital config load
	sc = config.New(*configFile)
	err := sc.LoadConfig()
	if err != nil {
		log.Fatal("error loading config", zap.Any("err", err))
	}

	cfg := sc.Get()
	if cfg.Bot.Token == "" {
		log.Fatal("bot.token missing from config")
	}
	if cfg.OLT.Address == "" {
		log.Fatal("olt.address missing from config")
	}

	fam, err := model.ParseFamily(cfg.OLT.Family)
	if err != nil {
		log.Fatal("invalid olt.family", zap.Any("err", err))
	}
	adapter, err := family.New(fam)
	if err != nil {
		log.Fatal("error selecting device family", zap.Any("err", err))
	}

	// setup config reload; credentials and TTL take effect on the next call
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			log.Debug("config reload triggerd by SIGHUP")
			if err := sc.LoadConfig(); err != nil {
				log.Error("error reloading config", zap.Any("err", err))
			} else {
				log.Info("reloaded config file")
			}
		}
	}()

	httpClient := api.NewHTTPClient(cfg)
	session := api.NewSession(&sc, httpClient, log)
	client := api.New(&sc, httpClient, session, log)
	svc := onu.NewService(client, adapter, log)

	b, err := bot.New(cfg.Bot, svc, adapter, log)
	if err != nil {
		log.Fatal("error starting telegram bot", zap.Any("err", err))
	}

	if cfg.Listen != "" {
		go func() {
			http.Handle(cfg.MetricsPath, promhttp.Handler())
			log.Info("starting http server", zap.String("metrics_path", cfg.MetricsPath), zap.String("listen", cfg.Listen))
			if err := http.ListenAndServe(cfg.Listen, nil); err != nil {
				log.Error("error starting http server", zap.Any("err", err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("bot running", zap.String("family", string(fam)), zap.String("olt", cfg.OLT.Address))
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("bot stopped", zap.Any("err", err))
	}
	log.Info("shutting down")
}
