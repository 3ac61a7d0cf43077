// Command frost-ceremony runs a local key generation and signing ceremony
// and prints the resulting signature.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/moatus/frost/config"
	"github.com/moatus/frost/examples"
)

func main() {
	fs := pflag.NewFlagSet("frost-ceremony", pflag.ExitOnError)
	config.BindFlags(fs)
	configPath := fs.String("config", "", "path to a YAML, TOML or JSON config file")
	distributed := fs.Bool("dkg", false, "run distributed key generation instead of a trusted dealer")
	message := fs.String("message", "hello", "message to sign")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	sig, err := examples.Run(context.Background(), cfg, logger, *distributed, []byte(*message))
	if err != nil {
		logger.Sugar().Errorf("ceremony failed: %v", err)
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(sig.Bytes()))
}
