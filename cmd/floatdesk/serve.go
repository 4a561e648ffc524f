package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/floatdesk/internal/arrangement"
	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/daemon"
	"github.com/1broseidon/floatdesk/internal/desk"
	"github.com/1broseidon/floatdesk/internal/ipc"
	"github.com/1broseidon/floatdesk/internal/runtimepath"
	"github.com/1broseidon/floatdesk/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the floatdesk daemon (foreground)",
		Long: `Start the host server and control socket in the foreground.

The session is checkpointed every --autosave interval under the
"last-session" arrangement; --restore reopens it on startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			autosave, _ := cmd.Flags().GetDuration("autosave")
			restore, _ := cmd.Flags().GetBool("restore")
			return runServe(cmd.Context(), autosave, restore)
		},
	}
	cmd.Flags().String("listen", "", "host server address (overrides listen in config)")
	cmd.Flags().Duration("autosave", 30*time.Second, "session checkpoint interval, 0 disables")
	cmd.Flags().Bool("restore", false, "restore the last session on startup")
	_ = settings.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}

func runServe(parent context.Context, autosave time.Duration, restore bool) error {
	log.Println("Starting floatdesk daemon...")

	path, err := configPath()
	if err != nil {
		return err
	}
	res, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if res.File != "" {
		log.Printf("Configuration loaded from %s (listen: %s, default layout: %s)", res.File, cfg.Listen, cfg.DefaultLayout)
	} else {
		log.Printf("No config file at %s, using defaults (listen: %s)", path, cfg.Listen)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)

	store, err := arrangement.NewStore(cfg.ArrangementsDir)
	if err != nil {
		log.Fatalf("Failed to open arrangement store: %v", err)
	}

	d, err := desk.New(desk.Options{
		Config: cfg,
		Logger: logger,
		Store:  store,
	})
	if err != nil {
		log.Fatalf("Failed to create desk: %v", err)
	}
	host := web.NewServer(d, logger.With("component", "web"))

	if restore {
		if _, err := d.RestoreArrangement(daemon.SessionName); err != nil && !errors.Is(err, arrangement.ErrNotFound) {
			log.Printf("Warning: failed to restore last session: %v", err)
		}
	}

	reload := func() (*config.Config, error) {
		res, err := loadConfig()
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	ipcServer, err := ipc.NewServer(d, ipc.ServerOptions{ConfigPath: path, Reload: reload})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			log.Printf("Warning: failed to write pid file: %v", err)
		} else {
			defer os.Remove(pidPath)
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	saverDone := make(chan struct{})
	if autosave > 0 {
		saver := daemon.NewAutosaver(daemon.AutosaverConfig{
			Interval: autosave,
			Logger:   logger.With("component", "autosave"),
		}, d)
		go func() {
			saver.Run(ctx)
			close(saverDone)
		}()
	} else {
		close(saverDone)
	}

	// SIGHUP reloads the config in place.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := reload()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				if err := d.SetConfig(newCfg); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")
			}
		}
	}()

	log.Printf("floatdesk daemon started; open http://%s", cfg.Listen)
	if err := host.ListenAndServe(ctx, cfg.Listen); err != nil {
		stop()
		<-saverDone
		return fmt.Errorf("host server: %w", err)
	}
	log.Println("Shutting down floatdesk daemon...")
	<-saverDone
	return nil
}
