package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"modelviewer/internal/config"
	"modelviewer/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "yaml settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.Apply(settings)

	if err := logger.Init(config.LogLevel()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(); err != nil {
		logger.Log.Error("viewer stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(config.Window())
	if err != nil {
		return err
	}
	defer window.Destroy()

	v, err := setupViewer(window)
	if err != nil {
		return err
	}
	defer v.Release()

	NewViewLoop(window, v).Run()
	return nil
}
