package transport

import (
	"context"
	"fmt"

	"github.com/protolab/erf-digest/internal/core"
	"go.uber.org/zap"
)

// ConsoleTransport prints each message instead of sending it. It is the
// default transport so a misconfigured run never reaches a real relay.
type ConsoleTransport struct {
	logger  *zap.Logger
	verbose bool
}

// NewConsoleTransport creates a console transport. When verbose is set it
// prints a body preview as well.
func NewConsoleTransport(logger *zap.Logger, verbose bool) *ConsoleTransport {
	return &ConsoleTransport{logger: logger, verbose: verbose}
}

// Send prints the message summary and always succeeds.
func (t *ConsoleTransport) Send(ctx context.Context, msg *core.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Printf("\n=== Outbound Message ===\n")
	fmt.Printf("To: %s\n", msg.To)
	if len(msg.Cc) > 0 {
		fmt.Printf("Cc: %v\n", msg.Cc)
	}
	fmt.Printf("Subject: %s\n", msg.Subject)
	fmt.Printf("Body length: %d bytes\n", len(msg.Body))

	if t.verbose {
		preview := msg.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	t.logger.Debug("Console transport delivered message", zap.String("to", msg.To))
	return nil
}
