package controller

import (
	"context"
	"fmt"
	"strings"

	"cleanbot/pkg/config"
	"cleanbot/pkg/flow"
	"cleanbot/pkg/i18n"
	"cleanbot/pkg/metrics"
	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
	"cleanbot/pkg/session"
	"cleanbot/pkg/validate"
)

// handleStep routes an event to the handler for the session's current step.
func (c *Controller) handleStep(ctx context.Context, s *session.Session, event proto.Event) error {
	switch s.Step {
	case flow.StepLanguageSelect:
		return c.onLanguageSelect(ctx, s, event)
	case flow.StepServiceSelect:
		return c.onServiceSelect(ctx, s, event)
	case flow.StepServiceDescription:
		return c.onServiceDescription(ctx, s, event)
	case flow.StepQuantitySelect:
		return c.onQuantitySelect(ctx, s, event)
	case flow.StepCustomQuantityEntry:
		return c.onCustomQuantityEntry(ctx, s, event)
	case flow.StepItemSizeSelect:
		return c.onItemSizeSelect(ctx, s, event)
	case flow.StepCustomSizeEntry:
		return c.onCustomSizeEntry(ctx, s, event)
	case flow.StepAddressMethodSelect:
		return c.onAddressMethodSelect(ctx, s, event)
	case flow.StepManualAddressEntry:
		return c.onManualAddressEntry(ctx, s, event)
	case flow.StepLocationCapture:
		return c.onLocationCapture(ctx, s, event)
	case flow.StepNameEntry:
		return c.onNameEntry(ctx, s, event)
	case flow.StepPhoneEntry:
		return c.onPhoneEntry(ctx, s, event)
	case flow.StepOrderSummary:
		return c.onOrderSummary(ctx, s, event)
	case flow.StepCommentEntry:
		return c.onCommentEntry(ctx, s, event)
	case flow.StepConfirmed:
		return c.onConfirmed(ctx, s, event)
	case flow.StepFeedbackComment:
		return c.onFeedbackComment(ctx, s, event)
	default:
		c.logger.Warn("No handler for step %s (user %d)", s.Step, s.UserID)
		return nil
	}
}

func (c *Controller) onLanguageSelect(ctx context.Context, s *session.Session, event proto.Event) error {
	lang := strings.TrimPrefix(event.Selection, proto.SelLangPrefix)
	if lang != config.LangRussian && lang != config.LangUzbek {
		return nil
	}
	s.Language = lang
	if err := c.advance(s, flow.StepServiceSelect); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onServiceSelect(ctx context.Context, s *session.Session, event proto.Event) error {
	category := order.ServiceCategory(strings.TrimPrefix(event.Selection, proto.SelServicePrefix))
	if !category.Valid() {
		return nil
	}
	s.Draft.Category = category
	if err := c.advance(s, flow.StepServiceDescription); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onServiceDescription(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Selection != proto.SelOrderNow {
		return nil
	}
	if err := c.advance(s, flow.StepQuantitySelect); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onQuantitySelect(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Selection == proto.SelQtyMore {
		if err := c.advance(s, flow.StepCustomQuantityEntry); err != nil {
			return err
		}
		return c.renderStep(ctx, s)
	}

	token := strings.TrimPrefix(event.Selection, proto.SelQtyPrefix)
	count, verr := validate.Quantity(token, order.MinItemCount, order.QuickPickMax)
	if verr != nil {
		return nil // not a quantity token from our keyboard
	}
	return c.setQuantity(ctx, s, count)
}

func (c *Controller) onCustomQuantityEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	c.discardOrigin(ctx, event)

	count, verr := validate.Quantity(event.Text, order.MinItemCount, order.MaxItemCount)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}
	return c.setQuantity(ctx, s, count)
}

// setQuantity records the declared item count and enters the sizing loop.
// Items collected under a previous count are discarded: the loop restarts.
func (c *Controller) setQuantity(ctx context.Context, s *session.Session, count int) error {
	s.Draft.TargetItemCount = count
	s.Draft.Items = nil
	s.ItemCursor = 0
	if err := c.advance(s, flow.StepItemSizeSelect); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onItemSizeSelect(ctx context.Context, s *session.Session, event proto.Event) error {
	rest := strings.TrimPrefix(event.Selection, proto.SelSizePrefix)
	if rest == event.Selection {
		return nil
	}
	idxStr, token, found := strings.Cut(rest, "_")
	if !found {
		return nil
	}
	var idx int
	if _, err := fmt.Sscanf(idxStr, "%d", &idx); err != nil || idx != s.ItemCursor {
		// Press from a superseded size prompt.
		c.recorder.RecordRejection("stale_size_token")
		return nil
	}

	if token == "custom" {
		if err := c.advance(s, flow.StepCustomSizeEntry); err != nil {
			return err
		}
		return c.renderStep(ctx, s)
	}

	var item order.ItemSpec
	switch s.Draft.Category {
	case order.CategorySofa:
		item = order.ItemSpec{Index: s.ItemCursor + 1, Type: validate.SofaType(token)}
	default:
		area, normalized, verr := validate.CustomSize(token)
		if verr != nil {
			return nil
		}
		item = order.ItemSpec{Index: s.ItemCursor + 1, Size: normalized, AreaM2: area}
	}

	if err := s.Draft.SetItem(s.ItemCursor, item); err != nil {
		return fmt.Errorf("failed to record item: %w", err)
	}
	return c.afterItemSized(ctx, s)
}

func (c *Controller) onCustomSizeEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	c.discardOrigin(ctx, event)

	area, normalized, verr := validate.CustomSize(event.Text)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}

	item := order.ItemSpec{Index: s.ItemCursor + 1, Size: normalized, AreaM2: area}
	if err := s.Draft.SetItem(s.ItemCursor, item); err != nil {
		return fmt.Errorf("failed to record item: %w", err)
	}
	return c.afterItemSized(ctx, s)
}

// afterItemSized continues the sizing loop, or leaves it when every declared
// item is covered. A resumable edit with an otherwise complete draft returns
// straight to the summary.
func (c *Controller) afterItemSized(ctx context.Context, s *session.Session) error {
	next, cursor := flow.NextAfterItem(s.ItemCursor, s.Draft.TargetItemCount)
	if next == flow.StepAddressMethodSelect && s.ReturnToSummary {
		s.Draft.Pricing = c.pricer.Quote(&s.Draft)
		if s.Draft.Complete() {
			return c.returnToSummary(ctx, s)
		}
	}
	s.ItemCursor = cursor
	if err := c.advance(s, next); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onAddressMethodSelect(ctx context.Context, s *session.Session, event proto.Event) error {
	switch event.Selection {
	case proto.SelAddressManual:
		if err := c.advance(s, flow.StepManualAddressEntry); err != nil {
			return err
		}
		return c.renderStep(ctx, s)

	case proto.SelAddressLocation:
		if err := c.advance(s, flow.StepLocationCapture); err != nil {
			return err
		}
		return c.renderStep(ctx, s)
	}
	return nil
}

func (c *Controller) onManualAddressEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	c.discardOrigin(ctx, event)

	text, verr := validate.AddressText(event.Text)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}
	s.Draft.Address = &order.Address{Kind: order.AddressManual, Text: text}
	return c.afterAddress(ctx, s)
}

func (c *Controller) onLocationCapture(ctx context.Context, s *session.Session, event proto.Event) error {
	switch event.Kind {
	case proto.EventLocation:
		s.Draft.Address = &order.Address{
			Kind:      order.AddressLocation,
			Latitude:  event.Latitude,
			Longitude: event.Longitude,
		}
		c.prompts.RetireAux(ctx, s)
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text:     c.text(s, "location_received", nil),
			Keyboard: proto.KeyboardRemove,
		})
		return c.afterAddress(ctx, s)

	case proto.EventText:
		// Typed an address instead of sharing location.
		c.discardOrigin(ctx, event)
		text, verr := validate.AddressText(event.Text)
		if verr != nil {
			return c.rejectInput(ctx, s, verr.Key, verr.Params)
		}
		s.Draft.Address = &order.Address{Kind: order.AddressManual, Text: text}
		c.prompts.RetireAux(ctx, s)
		return c.afterAddress(ctx, s)
	}
	return nil
}

func (c *Controller) afterAddress(ctx context.Context, s *session.Session) error {
	if s.ReturnToSummary {
		s.Draft.Pricing = c.pricer.Quote(&s.Draft)
		if s.Draft.Complete() {
			return c.returnToSummary(ctx, s)
		}
	}
	if err := c.advance(s, flow.StepNameEntry); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onNameEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Kind != proto.EventText {
		return nil
	}
	c.discardOrigin(ctx, event)

	name, verr := validate.Name(event.Text)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}
	s.Draft.CustomerName = name

	if s.ReturnToSummary {
		s.Draft.Pricing = c.pricer.Quote(&s.Draft)
		if s.Draft.Complete() {
			return c.returnToSummary(ctx, s)
		}
	}
	if err := c.advance(s, flow.StepPhoneEntry); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onPhoneEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	raw := event.Text
	if event.Kind == proto.EventContact {
		raw = event.Phone
	} else {
		c.discardOrigin(ctx, event)
	}

	phone, verr := validate.Phone(raw)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}
	s.Draft.CustomerPhone = phone
	return c.returnToSummary(ctx, s)
}

// returnToSummary recomputes pricing and presents the order summary.
func (c *Controller) returnToSummary(ctx context.Context, s *session.Session) error {
	s.ReturnToSummary = false
	s.Draft.Pricing = c.pricer.Quote(&s.Draft)
	if err := c.advance(s, flow.StepOrderSummary); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onOrderSummary(ctx context.Context, s *session.Session, event proto.Event) error {
	switch event.Selection {
	case proto.SelConfirmOrder:
		return c.submitOrder(ctx, s)

	case proto.SelEditOrder:
		return c.present(ctx, s, proto.PromptContent{
			Text:    c.text(s, "edit_prompt", nil),
			Buttons: c.editMenuButtons(s),
		})

	case proto.SelAddComment:
		if err := c.advance(s, flow.StepCommentEntry); err != nil {
			return err
		}
		return c.renderStep(ctx, s)

	case proto.SelBackToSummary:
		return c.renderStep(ctx, s)
	}
	return nil
}

func (c *Controller) onCommentEntry(ctx context.Context, s *session.Session, event proto.Event) error {
	c.discardOrigin(ctx, event)

	comment, verr := validate.Comment(event.Text)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}
	s.Draft.Comment = comment
	return c.returnToSummary(ctx, s)
}

// submitOrder persists the confirmed draft. On failure the draft and summary
// survive untouched so the user can simply retry.
func (c *Controller) submitOrder(ctx context.Context, s *session.Session) error {
	s.Draft.Pricing = c.pricer.Quote(&s.Draft)
	if !s.Draft.Complete() {
		c.logger.Warn("Confirm pressed with incomplete draft (user %d)", s.UserID)
		return c.renderStep(ctx, s)
	}

	snap := order.Snapshot{
		UserID:    s.UserID,
		Language:  s.Language,
		Draft:     *s.Draft.Clone(),
		CreatedAt: nowUTC(),
	}

	rec, err := c.orders.Submit(ctx, snap, s.ChatID)
	if err != nil {
		c.logger.Error("Order submission failed (user %d): %v", s.UserID, err)
		c.recorder.RecordOrder(string(s.Draft.Category), metrics.OutcomeFailed)
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text: c.text(s, "order_submit_failed", nil),
		})
		return c.renderStep(ctx, s)
	}

	c.recorder.RecordOrder(string(s.Draft.Category), metrics.OutcomeSubmitted)
	if c.notifier != nil {
		c.notifier.OrderSubmitted(ctx, rec)
	}

	category := s.Draft.Category
	s.Draft = order.Draft{}
	s.ItemCursor = 0
	s.LastOrderNumber = rec.OrderNumber
	if err := c.advance(s, flow.StepConfirmed); err != nil {
		return err
	}
	c.logger.Info("✅ Order #%d confirmed (user %d, %s)", rec.OrderNumber, s.UserID, category)

	return c.present(ctx, s, proto.PromptContent{
		Text:    c.text(s, "order_confirmed", i18n.Params{"number": rec.OrderNumber}),
		Buttons: c.confirmedButtons(s, rec.OrderNumber),
	})
}

func (c *Controller) onConfirmed(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Selection != proto.SelNewOrder {
		return nil
	}
	s.Draft = order.Draft{}
	s.ItemCursor = 0
	s.ReturnToSummary = false
	if err := c.advance(s, flow.StepServiceSelect); err != nil {
		return err
	}
	return c.renderStep(ctx, s)
}

func (c *Controller) onFeedbackComment(ctx context.Context, s *session.Session, event proto.Event) error {
	if event.Kind != proto.EventText || s.PendingFeedback == nil {
		return nil
	}
	c.discardOrigin(ctx, event)

	comment, verr := validate.Comment(event.Text)
	if verr != nil {
		return c.rejectInput(ctx, s, verr.Key, verr.Params)
	}

	pf := *s.PendingFeedback
	if err := c.orders.SaveFeedback(ctx, pf.OrderNumber, pf.Rating, comment); err != nil {
		c.logger.Warn("Failed to save feedback for order #%d: %v", pf.OrderNumber, err)
	}
	if c.notifier != nil {
		c.notifier.FeedbackReceived(ctx, pf.OrderNumber, pf.Rating, comment)
	}

	s.PendingFeedback = nil
	s.Step = flow.StepConfirmed
	return c.present(ctx, s, proto.PromptContent{
		Text:    c.text(s, "feedback_thanks", nil),
		Buttons: c.afterOrderButtons(s),
	})
}

// showMyOrders sends the user's order history as a transient message, leaving
// the active prompt in place.
func (c *Controller) showMyOrders(ctx context.Context, s *session.Session) error {
	records, err := c.orders.ListUserOrders(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("failed to list orders for user %d: %w", s.UserID, err)
	}

	if len(records) == 0 {
		c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
			Text: c.text(s, "no_orders", nil),
		})
		return nil
	}

	lines := []string{c.text(s, "my_orders_title", nil)}
	for _, rec := range records {
		lines = append(lines, c.text(s, "my_orders_entry", i18n.Params{
			"number": rec.OrderNumber,
			"date":   rec.CreatedAt.Format("02.01.2006"),
			"status": c.text(s, "status_"+string(rec.Status), nil),
			"cost":   i18n.FormatPrice(rec.Snapshot.Draft.Pricing.FinalCost),
		}))
	}
	c.prompts.SendTransient(ctx, s.ChatID, proto.PromptContent{
		Text: strings.Join(lines, "\n"),
	})
	return nil
}
