// Package notify pushes new-order and feedback notifications to staff chats.
// Delivery is best effort: a failed notification is logged, never propagated
// back into the customer's conversation.
package notify

import (
	"context"
	"fmt"
	"strings"

	"cleanbot/pkg/config"
	"cleanbot/pkg/i18n"
	"cleanbot/pkg/logx"
	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
)

// Notifier sends staff notifications over the same transport the bot uses
// for customers.
type Notifier struct {
	transport proto.Transport
	chatIDs   []int64
	logger    *logx.Logger
}

// NewNotifier creates a notifier for the configured staff chat IDs. An empty
// list turns every notification into a no-op.
func NewNotifier(transport proto.Transport, cfg config.Config) *Notifier {
	return &Notifier{
		transport: transport,
		chatIDs:   cfg.AdminChatIDs,
		logger:    logx.NewLogger("notify"),
	}
}

// OrderSubmitted announces a freshly submitted order to all staff chats.
func (n *Notifier) OrderSubmitted(ctx context.Context, rec order.Record) {
	n.broadcast(ctx, formatOrder(rec))
}

// FeedbackReceived announces a customer rating (and optional text) to all
// staff chats.
func (n *Notifier) FeedbackReceived(ctx context.Context, orderNumber int64, rating int, feedback string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Отзыв по заказу №%d: %s\n", orderNumber, i18n.Stars(rating))
	if feedback != "" {
		fmt.Fprintf(&b, "«%s»", feedback)
	}
	n.broadcast(ctx, b.String())
}

func (n *Notifier) broadcast(ctx context.Context, text string) {
	content := proto.PromptContent{Text: text}
	for _, chatID := range n.chatIDs {
		if _, err := n.transport.SendPrompt(ctx, chatID, content); err != nil {
			n.logger.Warn("Failed to notify staff chat %d: %v", chatID, err)
		}
	}
}

// formatOrder renders the staff-facing order card. Staff notifications are
// always Russian regardless of the customer's language.
func formatOrder(rec order.Record) string {
	d := rec.Snapshot.Draft

	var b strings.Builder
	fmt.Fprintf(&b, "🆕 Новый заказ №%d\n", rec.OrderNumber)

	switch d.Category {
	case order.CategoryCarpet:
		fmt.Fprintf(&b, "Услуга: химчистка ковров (%d шт.)\n", len(d.Items))
		for _, item := range d.Items {
			fmt.Fprintf(&b, "  %d. %s м (%.2f м²)\n", item.Index, item.Size, item.AreaM2)
		}
		if d.Pricing.TotalAreaM2 != nil {
			fmt.Fprintf(&b, "Площадь: %.2f м²\n", *d.Pricing.TotalAreaM2)
		}
	case order.CategorySofa:
		fmt.Fprintf(&b, "Услуга: химчистка мебели (%d шт.)\n", len(d.Items))
		for _, item := range d.Items {
			fmt.Fprintf(&b, "  %d. %s\n", item.Index,
				i18n.Text(config.LangRussian, "sofa_"+string(item.Type), nil))
		}
	}

	if d.Address != nil {
		switch d.Address.Kind {
		case order.AddressManual:
			fmt.Fprintf(&b, "Адрес: %s\n", d.Address.Text)
		case order.AddressLocation:
			fmt.Fprintf(&b, "Адрес: https://maps.google.com/?q=%f,%f\n",
				d.Address.Latitude, d.Address.Longitude)
		}
	}

	fmt.Fprintf(&b, "Клиент: %s, %s\n", d.CustomerName, d.CustomerPhone)
	if d.Comment != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", d.Comment)
	}

	if d.Pricing.DiscountAmount > 0 {
		fmt.Fprintf(&b, "Стоимость: %s сум (скидка %s сум)",
			i18n.FormatPrice(d.Pricing.FinalCost), i18n.FormatPrice(d.Pricing.DiscountAmount))
	} else {
		fmt.Fprintf(&b, "Стоимость: %s сум", i18n.FormatPrice(d.Pricing.FinalCost))
	}
	return b.String()
}
