package main

import (
	"mortgagebrief/cmd/cmd"
	"mortgagebrief/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
