package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/doron007/realtechee-forms/internal/config"
	"github.com/doron007/realtechee-forms/internal/server"
	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load configuration")
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submissions, disconnect, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("connect to mongodb")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := disconnect(shutdownCtx); err != nil {
			log.WithError(err).Warn("mongodb disconnect")
		}
	}()

	uploader, err := newUploader(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("configure uploads")
	}

	forms, err := registry.Default()
	if err != nil {
		log.WithError(err).Fatal("load form definitions")
	}

	srv, err := server.New(server.Deps{
		Config:   cfg,
		Registry: forms,
		Store:    submissions,
		Uploader: uploader,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Fatal("build server")
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	if err := srv.Listen(); err != nil {
		log.WithError(err).Fatal("serve")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogBackups,
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}
	return log
}

// newUploader builds the S3-backed uploader. Without a bucket the server
// still runs; the upload endpoint reports itself unavailable.
func newUploader(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*upload.Uploader, error) {
	if cfg.S3Bucket == "" {
		log.Warn("S3_BUCKET not set, uploads disabled")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, err
	}

	storage, err := upload.NewS3Storage(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		return nil, err
	}
	return upload.New(storage,
		upload.WithMaxFileSizeMB(cfg.MaxFileSizeMB),
		upload.WithLogger(log))
}
