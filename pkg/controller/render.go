package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleanbot/pkg/flow"
	"cleanbot/pkg/i18n"
	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
	"cleanbot/pkg/session"
)

// carpetQuickSizes are the one-tap size presets, in meters.
//
//nolint:gochecknoglobals // Shared immutable preset list
var carpetQuickSizes = []string{"1x2", "2x2", "2x3", "3x4", "4x5", "5x6"}

// sofaTypeTokens pair keyboard tokens with catalog keys, in display order.
//
//nolint:gochecknoglobals // Shared immutable preset list
var sofaTypeTokens = []struct {
	token string
	key   string
}{
	{"sofa_2", "sofa_2_seat"},
	{"sofa_3", "sofa_3_seat"},
	{"sofa_corner", "sofa_corner"},
	{"sofa_armchair", "sofa_armchair"},
}

// renderStep presents the prompt for the session's current step.
func (c *Controller) renderStep(ctx context.Context, s *session.Session) error {
	if s.Step == flow.StepLocationCapture {
		// The location request needs a reply keyboard, which lives outside
		// the single-prompt convention; the navigable prompt follows it.
		if err := c.prompts.PresentAux(ctx, s, proto.PromptContent{
			Text:     c.text(s, "send_location", nil),
			Keyboard: proto.KeyboardLocation,
		}); err != nil {
			return err
		}
	}
	return c.present(ctx, s, c.stepContent(s))
}

// stepContent builds the prompt content for the current step.
func (c *Controller) stepContent(s *session.Session) proto.PromptContent {
	switch s.Step {
	case flow.StepLanguageSelect:
		return proto.PromptContent{
			Text: i18n.Text(s.Language, "choose_language", nil),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_lang_ru", nil), Data: proto.SelLangPrefix + "ru"},
				{Label: c.text(s, "btn_lang_uz", nil), Data: proto.SelLangPrefix + "uz"},
			},
		}

	case flow.StepServiceSelect:
		return proto.PromptContent{
			Text: c.text(s, "choose_service", nil),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_carpet", nil), Data: proto.SelServicePrefix + string(order.CategoryCarpet)},
				{Label: c.text(s, "btn_sofa", nil), Data: proto.SelServicePrefix + string(order.CategorySofa)},
				c.backButton(s, proto.SelBackToLanguage),
			},
		}

	case flow.StepServiceDescription:
		return proto.PromptContent{
			Text: c.descriptionText(s),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_order_now", nil), Data: proto.SelOrderNow},
				c.backButton(s, proto.SelBackToService),
			},
		}

	case flow.StepQuantitySelect:
		key := "select_quantity"
		if s.Draft.Category == order.CategorySofa {
			key = "select_quantity_sofa"
		}
		buttons := make([]proto.Button, 0, order.QuickPickMax+2)
		for n := order.MinItemCount; n <= order.QuickPickMax; n++ {
			buttons = append(buttons, proto.Button{
				Label: fmt.Sprintf("%d", n),
				Data:  fmt.Sprintf("%s%d", proto.SelQtyPrefix, n),
			})
		}
		buttons = append(buttons,
			proto.Button{Label: c.text(s, "btn_qty_more", nil), Data: proto.SelQtyMore},
			c.backButton(s, proto.SelBackToDescription),
		)
		return proto.PromptContent{Text: c.text(s, key, nil), Buttons: buttons}

	case flow.StepCustomQuantityEntry:
		return proto.PromptContent{
			Text: c.text(s, "enter_custom_quantity", i18n.Params{
				"min": order.MinItemCount, "max": order.MaxItemCount,
			}),
			Buttons: []proto.Button{c.backButton(s, proto.SelBackToQuantity)},
		}

	case flow.StepItemSizeSelect:
		return c.itemPromptContent(s)

	case flow.StepCustomSizeEntry:
		return proto.PromptContent{Text: c.text(s, "enter_custom_size", nil)}

	case flow.StepAddressMethodSelect:
		return proto.PromptContent{
			Text: c.text(s, "choose_address_method", nil),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_address_manual", nil), Data: proto.SelAddressManual},
				{Label: c.text(s, "btn_address_location", nil), Data: proto.SelAddressLocation},
				c.backButton(s, proto.SelBackToSizes),
			},
		}

	case flow.StepManualAddressEntry:
		return proto.PromptContent{Text: c.text(s, "enter_address", nil)}

	case flow.StepLocationCapture:
		return proto.PromptContent{
			Text:    c.text(s, "enter_address", nil),
			Buttons: []proto.Button{c.backButton(s, proto.SelBackToAddress)},
		}

	case flow.StepNameEntry:
		return proto.PromptContent{
			Text:    c.text(s, "enter_name", nil),
			Buttons: []proto.Button{c.backButton(s, proto.SelBackToAddress)},
		}

	case flow.StepPhoneEntry:
		return proto.PromptContent{
			Text:     c.text(s, "enter_phone", nil),
			Keyboard: proto.KeyboardContact,
		}

	case flow.StepOrderSummary:
		return proto.PromptContent{
			Text: c.summaryText(s),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_confirm", nil), Data: proto.SelConfirmOrder},
				{Label: c.text(s, "btn_edit", nil), Data: proto.SelEditOrder},
				{Label: c.text(s, "btn_add_comment", nil), Data: proto.SelAddComment},
			},
		}

	case flow.StepCommentEntry:
		return proto.PromptContent{Text: c.text(s, "enter_comment", nil)}

	case flow.StepConfirmed:
		return proto.PromptContent{
			Text:    c.text(s, "order_confirmed", i18n.Params{"number": s.LastOrderNumber}),
			Buttons: c.confirmedButtons(s, s.LastOrderNumber),
		}

	case flow.StepFeedbackRating:
		return proto.PromptContent{
			Text:    c.text(s, "rate_order", i18n.Params{"number": s.LastOrderNumber}),
			Buttons: ratingButtons(s.LastOrderNumber, c.text(s, "btn_skip", nil)),
		}

	case flow.StepFeedbackComment:
		number := s.LastOrderNumber
		if s.PendingFeedback != nil {
			number = s.PendingFeedback.OrderNumber
		}
		return proto.PromptContent{
			Text: c.text(s, "write_feedback_prompt", nil),
			Buttons: []proto.Button{
				{Label: c.text(s, "btn_skip", nil), Data: fmt.Sprintf("%s%d", proto.SelSkipCommentPrefix, number)},
			},
		}
	}

	return proto.PromptContent{Text: c.text(s, "unknown_command", nil)}
}

// itemPromptContent builds the per-item prompt of the sizing loop.
func (c *Controller) itemPromptContent(s *session.Session) proto.PromptContent {
	params := i18n.Params{"current": s.ItemCursor + 1, "total": s.Draft.TargetItemCount}

	if s.Draft.Category == order.CategorySofa {
		buttons := make([]proto.Button, 0, len(sofaTypeTokens)+1)
		for _, st := range sofaTypeTokens {
			buttons = append(buttons, proto.Button{
				Label: c.text(s, st.key, nil),
				Data:  fmt.Sprintf("%s%d_%s", proto.SelSizePrefix, s.ItemCursor, st.token),
			})
		}
		buttons = append(buttons, c.backButton(s, proto.SelBackToQuantity))
		return proto.PromptContent{Text: c.text(s, "select_type_sofa", params), Buttons: buttons}
	}

	buttons := make([]proto.Button, 0, len(carpetQuickSizes)+2)
	for _, size := range carpetQuickSizes {
		buttons = append(buttons, proto.Button{
			Label: strings.ReplaceAll(size, "x", "×"),
			Data:  fmt.Sprintf("%s%d_%s", proto.SelSizePrefix, s.ItemCursor, size),
		})
	}
	buttons = append(buttons,
		proto.Button{
			Label: c.text(s, "btn_custom_size", nil),
			Data:  fmt.Sprintf("%s%d_custom", proto.SelSizePrefix, s.ItemCursor),
		},
		c.backButton(s, proto.SelBackToQuantity),
	)
	return proto.PromptContent{Text: c.text(s, "select_size_carpet", params), Buttons: buttons}
}

// descriptionText renders the service pitch with live pricing figures.
func (c *Controller) descriptionText(s *session.Session) string {
	if s.Draft.Category == order.CategorySofa {
		lines := []string{c.text(s, "sofa_description", nil), ""}
		for _, st := range sofaTypeTokens {
			tag := strings.TrimPrefix(st.key, "sofa_")
			price := c.cfg.Pricing.Sofa.BasePrices[tag]
			lines = append(lines, fmt.Sprintf("%s — %s", c.text(s, st.key, nil), i18n.FormatPrice(price)))
		}
		return strings.Join(lines, "\n")
	}
	return c.text(s, "carpet_description", i18n.Params{
		"price":     i18n.FormatPrice(c.cfg.Pricing.Carpet.PricePerM2),
		"threshold": c.cfg.Pricing.Carpet.DiscountThreshold,
		"discount":  c.cfg.Pricing.Carpet.DiscountPercent,
	})
}

// summaryText renders the full order card shown at the summary step. Pricing
// is assumed to be freshly recomputed by the caller.
func (c *Controller) summaryText(s *session.Session) string {
	d := &s.Draft
	lines := []string{c.text(s, "summary_header", nil), ""}

	serviceKey := "service_carpet"
	if d.Category == order.CategorySofa {
		serviceKey = "service_sofa"
	}
	lines = append(lines, c.text(s, "summary_service", i18n.Params{"service": c.text(s, serviceKey, nil)}))

	for _, item := range d.Items {
		if d.Category == order.CategorySofa {
			lines = append(lines, c.text(s, "summary_item_sofa", i18n.Params{
				"n": item.Index, "type": c.text(s, "sofa_"+string(item.Type), nil),
			}))
		} else {
			lines = append(lines, c.text(s, "summary_item_carpet", i18n.Params{
				"n": item.Index, "size": item.Size, "area": trimFloat(item.AreaM2),
			}))
		}
	}

	if d.Address != nil {
		switch d.Address.Kind {
		case order.AddressManual:
			lines = append(lines, c.text(s, "summary_address", i18n.Params{"address": d.Address.Text}))
		case order.AddressLocation:
			lines = append(lines, c.text(s, "summary_address_geo", i18n.Params{
				"lat": trimFloat(d.Address.Latitude), "lon": trimFloat(d.Address.Longitude),
			}))
		}
	}
	lines = append(lines,
		c.text(s, "summary_name", i18n.Params{"name": d.CustomerName}),
		c.text(s, "summary_phone", i18n.Params{"phone": d.CustomerPhone}),
	)
	if d.Comment != "" {
		lines = append(lines, c.text(s, "summary_comment", i18n.Params{"comment": d.Comment}))
	}

	lines = append(lines, "")
	if d.Pricing.TotalAreaM2 != nil {
		lines = append(lines, c.text(s, "summary_total_area", i18n.Params{"area": trimFloat(*d.Pricing.TotalAreaM2)}))
	}
	lines = append(lines, c.text(s, "summary_base_cost", i18n.Params{"cost": i18n.FormatPrice(d.Pricing.BaseCost)}))
	if d.Pricing.DiscountAmount > 0 {
		lines = append(lines, c.text(s, "summary_discount", i18n.Params{"amount": i18n.FormatPrice(d.Pricing.DiscountAmount)}))
	}
	lines = append(lines, c.text(s, "summary_final_cost", i18n.Params{"cost": i18n.FormatPrice(d.Pricing.FinalCost)}))

	return strings.Join(lines, "\n")
}

// editMenuButtons builds the summary edit menu.
func (c *Controller) editMenuButtons(s *session.Session) []proto.Button {
	return []proto.Button{
		{Label: c.text(s, "btn_edit_service", nil), Data: proto.SelEditService},
		{Label: c.text(s, "btn_edit_quantity", nil), Data: proto.SelEditQuantity},
		{Label: c.text(s, "btn_edit_sizes", nil), Data: proto.SelEditSizes},
		{Label: c.text(s, "btn_edit_address", nil), Data: proto.SelEditAddress},
		{Label: c.text(s, "btn_edit_name", nil), Data: proto.SelEditName},
		{Label: c.text(s, "btn_edit_phone", nil), Data: proto.SelEditPhone},
		{Label: c.text(s, "btn_back", nil), Data: proto.SelBackToSummary},
	}
}

// confirmedButtons follow a successful submission: rate now, start a new
// order, or look at history.
func (c *Controller) confirmedButtons(s *session.Session, orderNumber int64) []proto.Button {
	buttons := ratingButtons(orderNumber, "")
	return append(buttons,
		proto.Button{Label: c.text(s, "btn_new_order", nil), Data: proto.SelNewOrder},
		proto.Button{Label: c.text(s, "btn_my_orders", nil), Data: proto.SelMyOrders},
	)
}

// afterOrderButtons close out the feedback sub-flow.
func (c *Controller) afterOrderButtons(s *session.Session) []proto.Button {
	return []proto.Button{
		{Label: c.text(s, "btn_new_order", nil), Data: proto.SelNewOrder},
		{Label: c.text(s, "btn_my_orders", nil), Data: proto.SelMyOrders},
	}
}

// ratingButtons builds the star row for an order. skipLabel adds a trailing
// skip button when non-empty.
func ratingButtons(orderNumber int64, skipLabel string) []proto.Button {
	buttons := make([]proto.Button, 0, 6)
	for stars := 1; stars <= 5; stars++ {
		buttons = append(buttons, proto.Button{
			Label: i18n.Stars(stars),
			Data:  fmt.Sprintf("%s%d_%d", proto.SelRatePrefix, orderNumber, stars),
		})
	}
	if skipLabel != "" {
		buttons = append(buttons, proto.Button{
			Label: skipLabel,
			Data:  fmt.Sprintf("%s%d", proto.SelSkipRatingPrefix, orderNumber),
		})
	}
	return buttons
}

func (c *Controller) backButton(s *session.Session, token string) proto.Button {
	return proto.Button{Label: c.text(s, "btn_back", nil), Data: token}
}

// trimFloat renders a float without trailing zeros ("7.5", "4").
func trimFloat(v float64) string {
	out := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	if out == "" {
		return "0"
	}
	return out
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
