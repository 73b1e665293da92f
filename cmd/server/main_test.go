package main

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"authrel-demo/internal/config"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func directoryConfig(directory, dsn string, inactive ...string) config.Config {
	var cfg config.Config
	cfg.Auth.Directory = directory
	cfg.Auth.InactiveUsers = inactive
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = dsn
	cfg.Database.MaxOpenConns = 1
	return cfg
}

func TestBuildDirectory_InactiveUsers(t *testing.T) {
	ctx := context.Background()

	for _, directory := range []string{"memory", "sqlite"} {
		t.Run(directory, func(t *testing.T) {
			cfg := directoryConfig(directory, "file:server_dir_"+directory+"?mode=memory&cache=shared", "Ivan")
			users, closeDirectory, err := buildDirectory(ctx, cfg, quietLogger())
			if err != nil {
				t.Fatalf("build directory: %v", err)
			}
			t.Cleanup(closeDirectory)

			ivan, err := users.GetByUsername(ctx, "Ivan")
			if err != nil {
				t.Fatalf("get Ivan: %v", err)
			}
			if ivan.Active {
				t.Fatalf("Ivan should be inactive")
			}
			join, err := users.GetByUsername(ctx, "Join")
			if err != nil {
				t.Fatalf("get Join: %v", err)
			}
			if !join.Active {
				t.Fatalf("Join should be active")
			}
		})
	}
}

func TestBuildDirectory_SqliteReactivatesOnRestart(t *testing.T) {
	ctx := context.Background()
	dsn := "file:server_dir_restart?mode=memory&cache=shared"

	first, closeFirst, err := buildDirectory(ctx, directoryConfig("sqlite", dsn, "Join"), quietLogger())
	if err != nil {
		t.Fatalf("first boot: %v", err)
	}
	// keep the shared in-memory database alive across both boots
	t.Cleanup(closeFirst)
	if u, err := first.GetByUsername(ctx, "Join"); err != nil || u.Active {
		t.Fatalf("Join should start inactive: %+v %v", u, err)
	}

	second, closeSecond, err := buildDirectory(ctx, directoryConfig("sqlite", dsn), quietLogger())
	if err != nil {
		t.Fatalf("second boot: %v", err)
	}
	t.Cleanup(closeSecond)
	if u, err := second.GetByUsername(ctx, "Join"); err != nil || !u.Active {
		t.Fatalf("Join should be active again: %+v %v", u, err)
	}
}
