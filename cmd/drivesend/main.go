package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/joho/godotenv"

	"drivesend/internal/config"
	"drivesend/internal/core/domain"
	"drivesend/internal/device"
	"drivesend/internal/encryption/service"
	"drivesend/internal/keys"
	"drivesend/internal/monitor"
	cryptoaes "drivesend/internal/pkg/crypto/aes"
	"drivesend/internal/queue"
	s3store "drivesend/internal/storage/s3"
	"drivesend/internal/uploader"
)

func main() {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	if err := os.MkdirAll(cfg.WatchDir, 0o755); err != nil {
		return err
	}

	var key []byte
	if cfg.EnableEncryption {
		provider := keys.NewProvider(keys.WithExplicitKey(cfg.EncryptionKey))
		resolved, err := provider.Resolve(ctx)
		if err != nil {
			return err
		}
		key = resolved
	}

	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.Profile != "" {
		awsOpts = append(awsOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return err
	}

	// Log who we are uploading as; useful when several profiles are around.
	if identity, err := sts.NewFromConfig(awsCfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{}); err != nil {
		logger.Warn("unable to get caller identity", "error", err)
	} else {
		logger.Info("aws identity", "account", *identity.Account, "arn", *identity.Arn)
	}

	store, err := s3store.NewClient(ctx, awsCfg, cfg.Bucket)
	if err != nil {
		return err
	}

	cipher := service.NewService(cryptoaes.NewGCMEncryptor())
	metadata := device.Current().Metadata()

	m := monitor.New(monitor.Params{
		WatchDir:     cfg.WatchDir,
		Recursive:    cfg.Recursive,
		PollInterval: cfg.PollInterval,
		Options: domain.UploadOptions{
			Encrypt:           cfg.EnableEncryption,
			DeleteAfterUpload: cfg.DeleteAfterUpload,
			FolderID:          cfg.FolderID,
		},
		NewPool: func(q *queue.Queue) *uploader.Pool {
			return uploader.NewPool(q, store, cipher, uploader.Config{
				Workers:  cfg.Workers,
				Key:      key,
				Metadata: metadata,
			}, logger)
		},
		Logger: logger,
	})

	if err := m.Start(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down, letting in-flight uploads finish")
	m.Stop()
	return nil
}
