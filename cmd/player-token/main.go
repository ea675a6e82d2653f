// Package main mints player tokens and the key pair that verifies them.
package main

import (
	"os"

	"github.com/louisbranch/millionaire/internal/platform/config"
	"github.com/louisbranch/millionaire/internal/tools/playertoken"
)

func main() {
	if err := playertoken.Run(os.Args[1:], os.Stdout, nil, nil); err != nil {
		config.Exitf("player-token: %v", err)
	}
}
