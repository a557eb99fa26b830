package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fluentvox/internal/config"
	"fluentvox/internal/engine"
	"fluentvox/pkg/logger"
)

func main() {
	audioPath := flag.String("audio", "", "path to the recorded audio file")
	transcript := flag.String("transcript", "", "transcript of the recording")
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.Init(true); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	if *audioPath == "" || *transcript == "" {
		fmt.Fprintln(os.Stderr, "usage: score -audio <file> -transcript <text>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
		return
	}

	audio, err := os.ReadFile(*audioPath)
	if err != nil {
		logger.Fatal("Failed to read audio file", zap.Error(err))
		return
	}

	eng := engine.New(cfg.EngineConfig(), logger.Logger)

	result := eng.Evaluate(context.Background(), audio, *transcript)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to marshal result", zap.Error(err))
		return
	}

	fmt.Println("Fluency Evaluation:")
	fmt.Println(string(out))

	feedback := eng.Feedback(result)
	if len(feedback) > 0 {
		fmt.Println("\nFeedback:")
		for _, item := range feedback {
			fmt.Printf("- %s\n", item)
		}
	}
}
