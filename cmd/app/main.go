package main

import "greensteps/internal/logger"

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}
