package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/proto"
	"cleanbot/pkg/session"
	"cleanbot/pkg/testkit"
)

func TestPresentRetiresPreviousPrompt(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)
	s := session.New(1, 1, "ru")

	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "first"}))
	first := s.ActivePrompt
	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "second"}))

	assert.NotEqual(t, first, s.ActivePrompt)

	live := transport.Live()
	require.Len(t, live, 1, "only one live bot prompt at a time")
	assert.Equal(t, "second", live[0].Content.Text)
	assert.Equal(t, s.ActivePrompt, live[0].Handle)
}

func TestPresentSurvivesDeleteFailure(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)
	s := session.New(1, 1, "ru")

	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "first"}))

	// The previous prompt is already gone on the transport side; the
	// replacement must still go out.
	transport.FailDelete = true
	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "second"}))
	assert.False(t, s.ActivePrompt.IsZero())
}

func TestPresentReturnsSendFailure(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)
	s := session.New(1, 1, "ru")

	transport.FailSend = true
	err := mgr.Present(ctx, s, proto.PromptContent{Text: "first"})
	require.Error(t, err)
	assert.True(t, s.ActivePrompt.IsZero())
}

func TestPresentAuxTracksSeparately(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)
	s := session.New(1, 1, "ru")

	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "pick a method"}))
	require.NoError(t, mgr.PresentAux(ctx, s, proto.PromptContent{
		Text:     "share your location",
		Keyboard: proto.KeyboardLocation,
	}))

	assert.True(t, s.ActivePrompt.IsZero(), "active prompt retired on entering aux sub-flow")
	assert.False(t, s.AuxPrompt.IsZero())

	mgr.RetireAux(ctx, s)
	assert.True(t, s.AuxPrompt.IsZero())
	assert.Empty(t, transport.Live())
}

func TestRetireSilently(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)
	s := session.New(1, 1, "ru")

	require.NoError(t, mgr.Present(ctx, s, proto.PromptContent{Text: "prompt"}))
	mgr.RetireSilently(s)

	assert.True(t, s.ActivePrompt.IsZero())
	assert.Len(t, transport.Live(), 1, "silent retire must not delete the message")
}

func TestDiscardSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	transport := testkit.NewFakeTransport()
	mgr := NewManager(transport, nil)

	mgr.Discard(ctx, proto.MessageHandle{}) // zero handle is a no-op
	transport.FailDelete = true
	mgr.Discard(ctx, proto.MessageHandle{ChatID: 1, MessageID: 99}) // must not panic
}
