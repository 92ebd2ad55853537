package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DispatchConfig holds the orchestrator's mode-specific settings.
type DispatchConfig struct {
	// TestAddresses receive all demo-mode traffic in place of the resolved
	// recipients. Demo mode refuses to run without at least one.
	TestAddresses []string
	// DemoGroupLimit caps how many groups demo mode sends for.
	DemoGroupLimit int
	// UnmappedAction is the suggested-action text written to the export.
	UnmappedAction string
}

// DigestService builds one digest per requester group, resolves its
// recipient and hands it to the transport, aggregating outcomes. A transport
// failure for one message never aborts the batch.
type DigestService struct {
	resolver  *Resolver
	renderer  DigestRenderer
	transport MailTransport
	exporter  UnmappedExporter
	cfg       DispatchConfig
	logger    *zap.Logger
}

// NewDigestService creates a new dispatch orchestrator.
func NewDigestService(
	resolver *Resolver,
	renderer DigestRenderer,
	transport MailTransport,
	exporter UnmappedExporter,
	cfg DispatchConfig,
	logger *zap.Logger,
) *DigestService {
	return &DigestService{
		resolver:  resolver,
		renderer:  renderer,
		transport: transport,
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger,
	}
}

type pendingDigest struct {
	group    RequesterGroup
	msg      *Message
	res      Resolution
	resolved bool
}

// Dispatch runs one batch in the given mode. Preview never invokes the
// transport; demo reroutes to the test addresses; live sends only to groups
// whose recipient resolved.
func (s *DigestService) Dispatch(ctx context.Context, groups []RequesterGroup, mode Mode) (*DispatchResult, error) {
	if mode == ModeDemo && len(s.cfg.TestAddresses) == 0 {
		return nil, fmt.Errorf("demo mode requires at least one test address")
	}

	s.resolver.ResetStats()
	result := &DispatchResult{Mode: mode}

	pending := make([]pendingDigest, 0, len(groups))
	for _, group := range groups {
		msg, err := s.renderer.Render(group)
		if err != nil {
			// A broken template is not recoverable per-group.
			return nil, fmt.Errorf("failed to render digest for %q: %w", group.Key, err)
		}

		res, ok := s.resolver.Resolve(ctx, group.Key)
		report := RecipientReport{
			GroupKey: group.Key,
			Items:    len(group.Rows),
		}
		if ok {
			result.Resolved++
			report.Address = res.Address
			report.Tier = res.Tier
		} else {
			result.Unresolved++
		}
		result.PerRecipient = append(result.PerRecipient, report)
		pending = append(pending, pendingDigest{group: group, msg: msg, res: res, resolved: ok})
	}

	switch mode {
	case ModePreview:
		s.logger.Info("Preview complete, no messages sent",
			zap.Int("groups", len(groups)),
			zap.Int("resolved", result.Resolved),
			zap.Int("unresolved", result.Unresolved))

	case ModeDemo:
		s.sendDemo(ctx, pending, result)
		s.exportUnmapped(mode, result)

	case ModeLive:
		s.sendLive(ctx, pending, result)
		s.exportUnmapped(mode, result)

	default:
		return nil, fmt.Errorf("unknown dispatch mode %q", mode)
	}

	result.Stats = s.resolver.Stats()
	s.logger.Info("Dispatch batch finished",
		zap.String("mode", string(mode)),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("mapped", result.Stats.Mapped),
		zap.Int("directory_resolved", result.Stats.DirectoryResolved),
		zap.Int("resolution_failed", result.Stats.Failed))
	return result, nil
}

// sendDemo routes the first DemoGroupLimit digests to every test address,
// tagging each message with its original intended recipient.
func (s *DigestService) sendDemo(ctx context.Context, pending []pendingDigest, result *DispatchResult) {
	limit := s.cfg.DemoGroupLimit
	if limit <= 0 || limit > len(pending) {
		limit = len(pending)
	}

	for _, p := range pending[:limit] {
		resolvedLabel := "not resolved"
		if p.resolved {
			resolvedLabel = p.res.Address
		}
		banner := fmt.Sprintf(
			"<p><strong>DEMO</strong> &mdash; intended recipient: %s (%s), %d items</p>\n",
			p.group.Key, resolvedLabel, len(p.group.Rows))

		for _, addr := range s.cfg.TestAddresses {
			msg := &OutboundMessage{
				To:      addr,
				Subject: fmt.Sprintf("[DEMO] %s (for %s)", p.msg.Subject, p.group.Key),
				Body:    banner + p.msg.Body,
			}
			s.deliver(ctx, msg, result)
		}
	}
}

// sendLive delivers each resolved digest to its resolved address. Groups
// with no resolved address never reach the transport.
func (s *DigestService) sendLive(ctx context.Context, pending []pendingDigest, result *DispatchResult) {
	for i, p := range pending {
		if !p.resolved {
			continue
		}
		msg := &OutboundMessage{
			To:      p.res.Address,
			Subject: p.msg.Subject,
			Body:    p.msg.Body,
		}
		if s.deliver(ctx, msg, result) {
			result.PerRecipient[i].Sent = true
		}
	}
}

func (s *DigestService) deliver(ctx context.Context, msg *OutboundMessage, result *DispatchResult) bool {
	if err := s.transport.Send(ctx, msg); err != nil {
		result.Failed++
		s.logger.Error("Failed to send digest",
			zap.String("to", msg.To),
			zap.Error(err))
		return false
	}
	result.Successful++
	return true
}

// exportUnmapped writes the unresolved identifiers as an artifact. An export
// failure is logged, never fatal.
func (s *DigestService) exportUnmapped(mode Mode, result *DispatchResult) {
	unmapped := s.resolver.Unmapped()
	if len(unmapped) == 0 || s.exporter == nil {
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	entries := make([]UnmappedEntry, 0, len(unmapped))
	for _, id := range unmapped {
		entries = append(entries, UnmappedEntry{
			Identifier: id,
			Status:     "Email Not Found",
			Mode:       string(mode),
			Timestamp:  now,
			Action:     s.cfg.UnmappedAction,
		})
	}

	path, err := s.exporter.Export(entries)
	if err != nil {
		s.logger.Error("Failed to export unmapped identifiers",
			zap.Int("count", len(entries)),
			zap.Error(err))
		return
	}
	result.UnmappedExport = path
	s.logger.Info("Exported unmapped identifiers",
		zap.Int("count", len(entries)),
		zap.String("file", path))
}
