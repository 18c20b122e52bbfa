// Package controller implements the conversation controller: the single
// mutator of session state. Every inbound event flows through Handle, which
// validates, mutates the draft, advances the step, renders the next prompt
// and persists the session, in that order.
package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleanbot/pkg/config"
	"cleanbot/pkg/flow"
	"cleanbot/pkg/i18n"
	"cleanbot/pkg/logx"
	"cleanbot/pkg/metrics"
	"cleanbot/pkg/order"
	"cleanbot/pkg/pricing"
	"cleanbot/pkg/prompt"
	"cleanbot/pkg/proto"
	"cleanbot/pkg/session"
)

// OrderStore is the subset of the order database the controller needs.
type OrderStore interface {
	Submit(ctx context.Context, snap order.Snapshot, chatID int64) (order.Record, error)
	ListUserOrders(ctx context.Context, userID int64) ([]order.Record, error)
	SaveFeedback(ctx context.Context, number int64, rating int, feedback string) error
}

// Notifier pushes order lifecycle events to staff. Implementations must be
// best effort: the controller never checks for delivery.
type Notifier interface {
	OrderSubmitted(ctx context.Context, rec order.Record)
	FeedbackReceived(ctx context.Context, orderNumber int64, rating int, feedback string)
}

// Controller drives the ordering wizard for all users. It is safe for
// concurrent use across users; per-user serialization is the dispatcher's
// responsibility.
type Controller struct {
	sessions session.Store
	prompts  *prompt.Manager
	pricer   *pricing.Engine
	orders   OrderStore
	notifier Notifier
	recorder *metrics.Recorder
	cfg      config.Config
	logger   *logx.Logger
}

// New creates a controller. notifier may be nil when staff notifications are
// not configured.
func New(
	sessions session.Store,
	prompts *prompt.Manager,
	orders OrderStore,
	notifier Notifier,
	recorder *metrics.Recorder,
	cfg config.Config,
) *Controller {
	return &Controller{
		sessions: sessions,
		prompts:  prompts,
		pricer:   pricing.NewEngine(cfg.Pricing),
		orders:   orders,
		notifier: notifier,
		recorder: recorder,
		cfg:      cfg,
		logger:   logx.NewLogger("controller"),
	}
}

// Handle processes one inbound event for its user.
func (c *Controller) Handle(ctx context.Context, event proto.Event) error {
	started := time.Now()

	s, ok, err := c.sessions.Get(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to load session for user %d: %w", event.UserID, err)
	}
	if !ok {
		s = session.New(event.UserID, event.ChatID, c.cfg.DefaultLanguage)
	}
	if event.ChatID != 0 {
		s.ChatID = event.ChatID
	}

	c.recorder.RecordEvent(string(event.Kind), s.Step.String())
	defer func() { c.recorder.RecordHandleDuration(s.Step.String(), time.Since(started)) }()

	if err := c.route(ctx, s, event); err != nil {
		return err
	}

	if err := c.sessions.Put(ctx, s); err != nil {
		return fmt.Errorf("failed to persist session for user %d: %w", event.UserID, err)
	}
	return nil
}

// route picks the handler for the event. Commands and the feedback tokens
// work from any step; everything else is routed by the current step.
func (c *Controller) route(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Kind == proto.EventText {
		if handled, err := c.handleCommand(ctx, s, event); handled {
			return err
		}
	}

	if event.Kind == proto.EventSelection {
		if handled, err := c.handleGlobalSelection(ctx, s, event); handled {
			return err
		}
		if rule, ok := flow.ResolveNav(event.Selection); ok {
			return c.navigate(ctx, s, rule)
		}
	}

	if !flow.Accepts(s.Step, event.Kind) {
		// Structural mismatch: ignore without disturbing the active prompt.
		c.logger.DebugDomain("flow", "Ignoring %s event at step %s (user %d)", event.Kind, s.Step, s.UserID)
		c.recorder.RecordRejection("kind_mismatch")
		return nil
	}

	return c.handleStep(ctx, s, event)
}

// handleCommand processes slash commands. Returns handled=false for plain
// text, which then flows to the step handler.
func (c *Controller) handleCommand(ctx context.Context, s *session.Session, event proto.Event) (bool, error) {
	cmd := strings.TrimSpace(event.Text)
	if !strings.HasPrefix(cmd, "/") {
		return false, nil
	}
	c.discardOrigin(ctx, event)

	switch strings.ToLower(strings.Fields(cmd)[0]) {
	case "/start":
		c.prompts.RetireSilently(s)
		s.Reset()
		return true, c.renderStep(ctx, s)

	case "/cancel":
		c.prompts.RetireSilently(s)
		had := s.Draft.Category.Valid()
		s.Reset()
		if had {
			c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
				Text: c.text(s, "order_cancelled", nil),
			})
			return true, nil
		}
		return true, c.renderStep(ctx, s)

	case "/help":
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text: c.text(s, "help_text", i18n.Params{
				"phone": c.cfg.Contact.Phone,
				"hours": c.cfg.Contact.Hours,
			}),
		})
		return true, nil

	case "/myorders":
		return true, c.showMyOrders(ctx, s)

	default:
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text: c.text(s, "unknown_command", nil),
		})
		return true, nil
	}
}

// handleGlobalSelection processes the tokens valid regardless of the current
// step: the rating and feedback protocol, which is keyed by order number and
// may arrive long after the order flow finished.
func (c *Controller) handleGlobalSelection(ctx context.Context, s *session.Session, event proto.Event) (bool, error) {
	token := event.Selection

	switch {
	case strings.HasPrefix(token, proto.SelRatePrefix):
		number, rating, ok := parseRating(token)
		if !ok {
			c.recorder.RecordRejection("bad_rating_token")
			return true, nil
		}
		return true, c.handleRating(ctx, s, number, rating)

	case strings.HasPrefix(token, proto.SelSkipCommentPrefix):
		s.PendingFeedback = nil
		if s.Step == flow.StepFeedbackComment {
			s.Step = flow.StepConfirmed
		}
		return true, c.present(ctx, s, proto.PromptContent{
			Text:    c.text(s, "feedback_skipped", nil),
			Buttons: c.afterOrderButtons(s),
		})

	case strings.HasPrefix(token, proto.SelSkipRatingPrefix):
		s.PendingFeedback = nil
		if s.Step == flow.StepFeedbackRating {
			s.Step = flow.StepConfirmed
		}
		return true, c.present(ctx, s, proto.PromptContent{
			Text:    c.text(s, "feedback_skipped", nil),
			Buttons: c.afterOrderButtons(s),
		})

	case token == proto.SelMyOrders:
		return true, c.showMyOrders(ctx, s)
	}

	return false, nil
}

// handleRating records a star rating and opens the optional comment prompt
// when the user is still in the post-order conversation.
func (c *Controller) handleRating(ctx context.Context, s *session.Session, number int64, rating int) error {
	if err := c.orders.SaveFeedback(ctx, number, rating, ""); err != nil {
		c.logger.Warn("Failed to save rating for order #%d: %v", number, err)
		return nil
	}
	if c.notifier != nil {
		c.notifier.FeedbackReceived(ctx, number, rating, "")
	}

	inPostOrder := s.Step == flow.StepConfirmed || s.Step == flow.StepFeedbackRating
	if !inPostOrder {
		// Rating arrived mid-conversation (e.g. prompted after completion);
		// record it without derailing the current flow.
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text: c.text(s, "rating_thanks", i18n.Params{"stars": i18n.Stars(rating)}),
		})
		return nil
	}

	s.PendingFeedback = &session.PendingFeedback{OrderNumber: number, Rating: rating}
	if s.Step == flow.StepConfirmed {
		s.Step = flow.StepFeedbackRating
	}
	s.Step = flow.StepFeedbackComment

	return c.present(ctx, s, proto.PromptContent{
		Text: c.text(s, "rating_thanks", i18n.Params{"stars": i18n.Stars(rating)}) +
			"\n\n" + c.text(s, "write_feedback_prompt", nil),
		Buttons: []proto.Button{
			{Label: c.text(s, "btn_skip", nil), Data: fmt.Sprintf("%s%d", proto.SelSkipCommentPrefix, number)},
		},
	})
}

// navigate applies a back-button or edit-menu jump: clear downstream draft
// data, re-enter the target step, re-prompt.
func (c *Controller) navigate(ctx context.Context, s *session.Session, rule flow.NavRule) error {
	if !flow.ValidTransition(s.Step, rule.Target) {
		// Stale button from an already superseded prompt.
		c.logger.DebugDomain("flow", "Ignoring navigation %s → %s (user %d)", s.Step, rule.Target, s.UserID)
		c.recorder.RecordRejection("stale_navigation")
		return nil
	}

	s.ItemCursor = rule.Clear(&s.Draft)
	s.ReturnToSummary = rule.Resumable
	s.Step = rule.Target
	return c.renderStep(ctx, s)
}

// advance moves the wizard to the next step, enforcing the transition table.
func (c *Controller) advance(s *session.Session, to flow.Step) error {
	if !flow.ValidTransition(s.Step, to) {
		return fmt.Errorf("%w: %s → %s", flow.ErrInvalidTransition, s.Step, to)
	}
	s.Step = to
	return nil
}

// present replaces the active prompt via the prompt manager.
func (c *Controller) present(ctx context.Context, s *session.Session, content proto.PromptContent) error {
	return c.prompts.Present(ctx, s, content)
}

// rejectInput re-prompts the current step with the validation error text
// prepended. The draft is untouched.
func (c *Controller) rejectInput(ctx context.Context, s *session.Session, key string, params map[string]any) error {
	c.recorder.RecordRejection(key)
	content := c.stepContent(s)
	content.Text = c.text(s, key, params) + "\n\n" + content.Text
	return c.present(ctx, s, content)
}

// discardOrigin removes the user-authored message behind an event, keeping
// the transcript to prompts only. Best effort.
func (c *Controller) discardOrigin(ctx context.Context, event proto.Event) {
	if !event.Origin.IsZero() {
		c.prompts.Discard(ctx, event.Origin)
	}
}

// text renders a catalog string in the session's language.
func (c *Controller) text(s *session.Session, key string, params i18n.Params) string {
	return i18n.Text(s.Language, key, params)
}

// parseRating parses "rate_<orderNumber>_<stars>".
func parseRating(token string) (number int64, rating int, ok bool) {
	rest := strings.TrimPrefix(token, proto.SelRatePrefix)
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &number); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &rating); err != nil {
		return 0, 0, false
	}
	if rating < 1 || rating > 5 {
		return 0, 0, false
	}
	return number, rating, true
}
