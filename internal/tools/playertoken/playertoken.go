// Package playertoken implements the player-token command: key generation and
// token minting for local play.
package playertoken

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/millionaire/internal/platform/playertoken"
)

// Run dispatches the keygen and sign subcommands.
func Run(args []string, out io.Writer, reader io.Reader, now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	if len(args) == 0 {
		return errors.New("usage: player-token keygen | sign -user <id> [-name <name>] [-admin] [-ttl 24h]")
	}
	switch args[0] {
	case "keygen":
		return Keygen(out, reader)
	case "sign":
		return sign(args[1:], out, now)
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

// Keygen generates a player token key pair and writes exports.
func Keygen(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate player token key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export MILLIONAIRE_PLAYER_TOKEN_PRIVATE_KEY=%s\n", base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY=%s\n", base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

func sign(args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.String("user", "", "player id (sub claim)")
	name := fs.String("name", "", "player display name")
	admin := fs.Bool("admin", false, "allow question imports")
	ttl := fs.Duration("ttl", playertoken.DefaultTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := playertoken.LoadSignerConfigFromEnv(now)
	if err != nil {
		return err
	}
	token, err := playertoken.Sign(cfg, *userID, *name, *admin, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
