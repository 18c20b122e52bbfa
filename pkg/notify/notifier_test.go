package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/config"
	"cleanbot/pkg/order"
	"cleanbot/pkg/testkit"
)

func testConfig(chatIDs ...int64) config.Config {
	cfg := config.DefaultConfig()
	cfg.AdminChatIDs = chatIDs
	return cfg
}

func carpetRecord() order.Record {
	area := 10.0
	return order.Record{
		OrderID:     "abc",
		OrderNumber: 7,
		Status:      order.StatusPending,
		Snapshot: order.Snapshot{
			UserID:   100,
			Language: "uz",
			Draft: order.Draft{
				Category:        order.CategoryCarpet,
				TargetItemCount: 2,
				Items: []order.ItemSpec{
					{Index: 1, Size: "2x2", AreaM2: 4},
					{Index: 2, Size: "2x3", AreaM2: 6},
				},
				Address:       &order.Address{Kind: order.AddressManual, Text: "Tashkent, Chilonzor 5"},
				CustomerName:  "Alisher Usmanov",
				CustomerPhone: "+998 90 123-45-67",
				Pricing:       order.Pricing{TotalAreaM2: &area, BaseCost: 150000, FinalCost: 150000},
			},
			CreatedAt: time.Now(),
		},
	}
}

func TestOrderSubmittedBroadcastsToAllStaffChats(t *testing.T) {
	transport := testkit.NewFakeTransport()
	n := NewNotifier(transport, testConfig(-100, -200))

	n.OrderSubmitted(context.Background(), carpetRecord())

	sent := transport.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, int64(-100), sent[0].Handle.ChatID)
	assert.Equal(t, int64(-200), sent[1].Handle.ChatID)
	assert.Contains(t, sent[0].Content.Text, "№7")
	assert.Contains(t, sent[0].Content.Text, "Tashkent, Chilonzor 5")
	assert.Contains(t, sent[0].Content.Text, "+998 90 123-45-67")
	assert.Contains(t, sent[0].Content.Text, "150 000")
}

func TestOrderSubmittedNoChatsConfigured(t *testing.T) {
	transport := testkit.NewFakeTransport()
	n := NewNotifier(transport, testConfig())

	n.OrderSubmitted(context.Background(), carpetRecord())
	assert.Empty(t, transport.Sent())
}

func TestSendFailureDoesNotPanicAndTriesRemainingChats(t *testing.T) {
	transport := testkit.NewFakeTransport()
	transport.FailSend = true
	n := NewNotifier(transport, testConfig(-100, -200))

	n.OrderSubmitted(context.Background(), carpetRecord())
	assert.Empty(t, transport.Sent())
}

func TestFeedbackReceived(t *testing.T) {
	transport := testkit.NewFakeTransport()
	n := NewNotifier(transport, testConfig(-100))

	n.FeedbackReceived(context.Background(), 7, 5, "Отличная работа")

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Content.Text, "№7")
	assert.Contains(t, sent[0].Content.Text, "⭐⭐⭐⭐⭐")
	assert.Contains(t, sent[0].Content.Text, "Отличная работа")
}
