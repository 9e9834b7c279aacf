package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/learngl/learngl/lib/api"
	"github.com/learngl/learngl/lib/app"
	"github.com/learngl/learngl/lib/config"
	lglog "github.com/learngl/learngl/lib/log"
	"github.com/learngl/learngl/lib/rendering"
	"github.com/learngl/learngl/lib/shaderwatch"
	"github.com/learngl/learngl/lib/window"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

// @title			learngl API
// @version		1.0
// @description	Inspect and close a running learngl window.
// @BasePath		/
func main() {
	configPath := flag.String("config", "", "YAML config file, built-in defaults are used without one")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Parse(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config invalid: %s\n", err)
			os.Exit(1)
		}
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(lglog.NewHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	logger := lglog.Module("main")

	win, err := window.New(cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create GLFW window: %s", err))
		return -1
	}

	err = rendering.Init()
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to initialize OpenGL: %s", err))
		win.Close()
		return -1
	}

	application, err := app.New(cfg, win, rendering.GLDevice{})
	if err != nil {
		logger.Error(fmt.Sprintf("could not set up renderer: %s", err))
		win.Close()
		return 1
	}
	defer application.Close()

	stopSignals := application.CloseOnSignals()
	defer stopSignals()

	if cfg.WatchShaders {
		watcher, err := shaderwatch.New(string(cfg.ShaderDir))
		if err != nil {
			logger.Warn(fmt.Sprintf("shaders will not be reloaded: %s", err))
		} else {
			defer watcher.Close()
			go watcher.Run()
			application.WatchShaders(watcher.Reloads)
		}
	}

	server := api.ServeInBackground(application, cfg.Api)
	if server != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.Warn(fmt.Sprintf("could not stop web server: %s", err))
			}
		}()
	}

	application.Run()
	return 0
}
