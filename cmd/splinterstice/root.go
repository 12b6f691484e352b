package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/splinterstice/clientapp/client"
	"github.com/splinterstice/clientapp/internal/config"
	"github.com/splinterstice/clientapp/internal/logger"
)

// rootOptions carries the persistent flags shared by every sub-command.
type rootOptions struct {
	cfg   config.Config
	debug bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	// Environment supplies flag defaults. Values are validated only after
	// flags are applied; an environment that fails to parse is always fatal
	// because the fields after the bad one were never read.
	envCfg, envErr := config.Load()
	if envCfg == nil {
		envCfg = &config.Config{BaseURL: client.DefaultBaseURL, HTTPTimeout: 30 * time.Second, LogLevel: "info"}
	}

	rootCmd := &cobra.Command{
		Use:           "splinterstice",
		Short:         "Command-line client for the Splinterstice chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(o.cfg.LogLevel)
			if err != nil {
				return err
			}
			if o.debug {
				level = zerolog.DebugLevel
				o.cfg.Debug = true
			}
			logger.InitConsole(level)
			log.Debug().Str("base_url", o.cfg.BaseURL).Msg("debug logging enabled")

			if envErr != nil {
				return envErr
			}
			return o.cfg.Validate()
		},
	}

	o.cfg = *envCfg
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.cfg.BaseURL, "base-url", envCfg.BaseURL, "API root of the chat server (env SPLINTERSTICE_BASE_URL)")
	pf.StringVar(&o.cfg.APIKey, "api-key", envCfg.APIKey, "Bearer token sent with every request (env SPLINTERSTICE_API_KEY)")
	pf.StringVar(&o.cfg.ProxyURL, "proxy-url", envCfg.ProxyURL, "HTTP or SOCKS5 proxy, e.g. socks5://127.0.0.1:9050 (env SPLINTERSTICE_PROXY_URL)")
	pf.DurationVar(&o.cfg.HTTPTimeout, "timeout", envCfg.HTTPTimeout, "Per-request timeout")
	pf.BoolVarP(&o.debug, "debug", "d", envCfg.Debug, "Dump HTTP traffic and enable debug logs")

	rootCmd.AddCommand(
		newSendMessageCmd(o),
		newGetMessagesCmd(o),
		newFriendRequestCmd(o),
		newRemoveFriendCmd(o),
		newUploadCmd(o),
		newJoinRoomCmd(o),
		newLeaveRoomCmd(o),
		newRoomMessageCmd(o),
		newInviteCmd(o),
		newPromoteCmd(o),
		newBanCmd(o),
		newEditUserCmd(o),
		newResetKeysCmd(o),
	)
	return rootCmd
}

// run builds a client, invokes call once, and prints the result as indented JSON.
func run(cmd *cobra.Command, o *rootOptions, op string, call func(context.Context, *client.Client) (any, error)) error {
	c, err := o.cfg.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	start := time.Now()
	out, err := call(cmd.Context(), c)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("operation", op).Int("status", client.StatusCode(err)).Dur("elapsed", elapsed).Msg("request failed")
		return err
	}
	log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("request completed")

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
