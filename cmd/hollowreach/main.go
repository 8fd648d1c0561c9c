// Command hollowreach runs the game. Settings are read from config.toml in
// the working directory, which is created with defaults on first run.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/phanxgames/hollowreach"
)

func main() {
	configPath := flag.String("config", "config.toml", "path of the configuration file")
	debug := flag.Bool("debug", false, "show the chunk overlay and log at debug level")
	script := flag.String("script", "", "replay a JSON input script instead of reading the keyboard")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	uc, err := hollowreach.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *debug {
		uc.Window.Debug = true
	}
	conf, err := uc.Config(logger)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	conf.Input = hollowreach.NewKeyboardInput()
	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatalf("read input script: %v", err)
		}
		if conf.Input, err = hollowreach.LoadInputScript(data); err != nil {
			log.Fatal(err)
		}
	}

	scene, err := hollowreach.NewScene(conf)
	if err != nil {
		log.Fatalf("create scene: %v", err)
	}
	if err := hollowreach.Run(scene, uc.RunConfig()); err != nil {
		log.Fatal(err)
	}
}
