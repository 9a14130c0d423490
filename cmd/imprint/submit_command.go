package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"imprint/internal/api"
)

const submitTimeout = 10 * time.Second

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "submit <file|->",
		Short: "Submit a fingerprint payload and print the match result",
		Long: "Submit reads a JSON payload from a file (or stdin when the argument is \"-\"),\n" +
			"sends it to the daemon over the websocket endpoint, and prints the digest and\n" +
			"match confidence the daemon returns.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !json.Valid(payload) {
				return fmt.Errorf("payload is not valid JSON")
			}

			target := strings.TrimSpace(serverURL)
			if target == "" {
				target = defaultServerURL(ctx)
			}

			result, err := submitPayload(target, payload)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			matchKind := statusInfo
			matchMsg := "no exact match"
			if result.ExactMatchFound {
				matchKind = statusOK
				matchMsg = "exact match"
			}
			fmt.Fprintln(stdout, renderStatusLine("Hash", statusInfo, result.Hash, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Match", matchKind, matchMsg, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Confidence", statusInfo, fmt.Sprintf("%.2f", result.ClosestMatch), colorize))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Websocket URL of the daemon (defaults to the configured bind address)")
	return cmd
}

func readPayload(arg string, stdin io.Reader) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read payload from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	return data, nil
}

func defaultServerURL(ctx *commandContext) string {
	if cfg := ctx.configValue(); cfg != nil {
		return "ws://" + cfg.Server.Bind + "/ws"
	}
	return "ws://127.0.0.1:8000/ws"
}

func submitPayload(target string, payload []byte) (*api.MatchResult, error) {
	dialer := websocket.Dialer{HandshakeTimeout: submitTimeout}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", target, err)
	}
	defer conn.Close()

	envelope := api.Envelope{Type: api.TypeData, Data: payload}
	if err := conn.WriteJSON(envelope); err != nil {
		return nil, fmt.Errorf("send payload: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(submitTimeout)); err != nil {
		return nil, fmt.Errorf("arm read deadline: %w", err)
	}

	var reply api.Envelope
	if err := conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch reply.Type {
	case api.TypeFingerprint:
		var result api.MatchResult
		if err := json.Unmarshal(reply.Data, &result); err != nil {
			return nil, fmt.Errorf("decode match result: %w", err)
		}
		return &result, nil
	case api.TypeError:
		var message string
		if err := json.Unmarshal(reply.Data, &message); err != nil {
			return nil, fmt.Errorf("daemon rejected the payload")
		}
		return nil, fmt.Errorf("daemon rejected the payload: %s", message)
	default:
		return nil, fmt.Errorf("unexpected response type %q", reply.Type)
	}
}
