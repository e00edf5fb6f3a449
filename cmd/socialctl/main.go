// Command socialctl is a terminal client for the social server: it resolves
// the navigation menu, shows the signed-in user and drives the post composer.
package main

import (
	"os"

	"github.com/isdelr/social-be/internal/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), true)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
