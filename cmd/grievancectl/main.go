package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grievance-portal/internal/config"
	"grievance-portal/internal/dataservice"
	"grievance-portal/internal/session"
	"grievance-portal/pkg/logger"
)

// exitErr carries a non-success result through cobra.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &cliApp{out: os.Stdout, open: openFromEnv}
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	a.shutdown()
	if err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openFromEnv builds the data client and the session store from the environment.
func openFromEnv(ctx context.Context, verbose bool) (dataservice.Client, *session.Store, func(), error) {
	log := logger.CLI(verbose)
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client, closeClient, err := dataservice.New(ctx, cfg, log)
	if err != nil {
		_ = kv.Close()
		return nil, nil, nil, err
	}
	sess := session.NewStore(kv, log)
	return client, sess, func() {
		closeClient()
		_ = sess.Close()
	}, nil
}

func openKV(ctx context.Context, cfg config.Config) (session.KV, error) {
	if cfg.RedisAddr != "" {
		return session.OpenRedis(ctx, cfg.RedisAddr, "grievancectl:")
	}
	return session.OpenSQLite(cfg.SessionPath)
}
