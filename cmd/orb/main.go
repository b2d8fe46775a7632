package main

import (
	"os"

	"github.com/ZE-BOSS/mt5-rl-trading-bot/cmd/orb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
