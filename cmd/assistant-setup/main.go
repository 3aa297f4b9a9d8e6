// Command assistant-setup configures and inspects the demo's voice-AI
// assistant.
//
//	assistant-setup setup [assistant-id]
//	assistant-setup check [assistant-id]
//	assistant-setup calls [-limit n] [assistant-id]
//	assistant-setup clear-functions [assistant-id]
//
// The assistant id defaults to VAPI_ASSISTANT_ID. setup without any id
// creates a new assistant.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/wolfman30/voice-booking-demo/internal/app/bootstrap"
	"github.com/wolfman30/voice-booking-demo/internal/assistant"
	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const usage = "usage: assistant-setup <setup|check|calls|clear-functions> [flags] [assistant-id]"

var errUsage = errors.New(usage)

type cli struct {
	cfg       *appconfig.Config
	platform  bootstrap.Platform
	publisher *assistant.Publisher
	out       io.Writer
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if _, err := cfg.RequireAPIKey(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := newCLI(cfg, bootstrap.BuildPlatform(cfg, nil, logger), logger, os.Stdout).run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func newCLI(cfg *appconfig.Config, platform bootstrap.Platform, logger *logging.Logger, out io.Writer) *cli {
	publisher := assistant.NewPublisher(platform, personas.DefaultCatalog(), assistant.Options{
		ToolID:            cfg.VapiToolID,
		BookingWebhookURL: cfg.ResolvedBookingWebhookURL(),
		ModelProvider:     cfg.VapiModelProvider,
		Model:             cfg.VapiModel,
		VoiceID:           cfg.VapiVoiceID,
		VoiceProvider:     cfg.VapiVoiceProvider,
	}, logger)
	return &cli{cfg: cfg, platform: platform, publisher: publisher, out: out}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("limit", 10, "number of calls to list")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	assistantID := c.cfg.VapiAssistantID
	if fs.NArg() > 0 {
		assistantID = strings.TrimSpace(fs.Arg(0))
	}

	switch cmd {
	case "setup":
		return c.setup(ctx, assistantID)
	case "check":
		return c.check(ctx, assistantID)
	case "calls":
		return c.calls(ctx, assistantID, *limit)
	case "clear-functions":
		return c.clearFunctions(ctx, assistantID)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (c *cli) setup(ctx context.Context, assistantID string) error {
	res, err := c.publisher.Setup(ctx, assistantID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, res.Message)
	return nil
}

func (c *cli) check(ctx context.Context, assistantID string) error {
	status, err := c.publisher.Check(ctx, assistantID)
	if err != nil {
		return err
	}
	doc, err := json.MarshalIndent(status.Assistant, "", "  ")
	if err != nil {
		return fmt.Errorf("encode assistant: %w", err)
	}
	fmt.Fprintln(c.out, string(doc))
	fmt.Fprintf(c.out, "toolIds: %s\n", joinOrNone(status.ToolIDs))
	fmt.Fprintf(c.out, "functions: %s\n", joinOrNone(status.FunctionNames))
	switch {
	case status.Conflict:
		fmt.Fprintln(c.out, "WARNING: both toolIds and inline functions are attached")
	case !status.BookingEnabled:
		fmt.Fprintln(c.out, "WARNING: no booking tool or function attached")
	}
	return nil
}

func (c *cli) calls(ctx context.Context, assistantID string, limit int) error {
	calls, err := c.platform.ListCalls(ctx, assistantID, limit)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		fmt.Fprintln(c.out, "no calls found")
		return nil
	}
	for _, call := range calls {
		marker := ""
		if call.UsedTools() {
			marker = "  [tool call]"
		}
		fmt.Fprintf(c.out, "%s  %-10s  %s%s\n", call.CreatedAt.UTC().Format(time.RFC3339), call.Status, call.ID, marker)
	}
	return nil
}

func (c *cli) clearFunctions(ctx context.Context, assistantID string) error {
	if assistantID == "" {
		_, err := c.cfg.RequireAssistantID()
		return err
	}
	if err := c.platform.ClearFunctions(ctx, assistantID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "cleared inline functions on %s\n", assistantID)
	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
