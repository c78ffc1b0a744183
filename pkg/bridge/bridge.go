package bridge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stillmatic/bobaline/pkg/agent"
	"github.com/stillmatic/bobaline/pkg/audio"
	"github.com/stillmatic/bobaline/pkg/events"
	"github.com/stillmatic/bobaline/pkg/logutil"
	"github.com/stillmatic/bobaline/pkg/notify"
	"github.com/stillmatic/bobaline/pkg/order"
	"github.com/stillmatic/bobaline/pkg/wsw"
)

// Config wires a Bridge to its two websocket peers and the per-call
// collaborators. Recorder is optional.
type Config struct {
	Telephony *websocket.Conn
	Agent     *websocket.Conn
	Session   *order.Session
	Store     *order.Store
	Notifier  notify.Notifier
	Bus       *events.Bus
	Settings  agent.Settings
	Recorder  *audio.Recorder
}

// Bridge relays audio and events between a telephony media stream and the
// voice agent for the duration of one call. Uplink audio is mu-law 8kHz
// upsampled to linear16 48kHz; downlink audio is linear16 24kHz downsampled
// to mu-law 8kHz and framed into 20ms chunks.
type Bridge struct {
	telephony *wsw.WSWrapper
	agent     *wsw.WSWrapper
	session   *order.Session
	notifier  notify.Notifier
	bus       *events.Bus
	settings  agent.Settings
	recorder  *audio.Recorder
	dispatch  *Dispatch

	up   *audio.Uplink
	down *audio.Downlink

	cancel   context.CancelFunc
	teardown sync.Once
}

func New(cfg Config) (*Bridge, error) {
	up, err := audio.NewUplink()
	if err != nil {
		return nil, err
	}
	down, err := audio.NewDownlink()
	if err != nil {
		return nil, err
	}
	return &Bridge{
		telephony: wsw.NewWSWrapper(cfg.Telephony),
		agent:     wsw.NewWSWrapper(cfg.Agent),
		session:   cfg.Session,
		notifier:  cfg.Notifier,
		bus:       cfg.Bus,
		settings:  cfg.Settings,
		recorder:  cfg.Recorder,
		dispatch:  NewDispatch(cfg.Session, cfg.Store),
		up:        up,
		down:      down,
	}, nil
}

// Run sends the agent settings, then relays in both directions until either
// peer disconnects or the telephony stream stops. It always settles the call
// exactly once before returning.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)
	defer b.shutdown(ctx)

	settings := b.settings
	settings.Agent.Think.Functions = Definitions()
	if err := b.agent.WriteJSONConcurrent(settings); err != nil {
		return err
	}

	go b.agentLoop(ctx)
	b.telephonyLoop(ctx)
	return nil
}

// shutdown settles the order and closes both peers. Safe to call from
// either relay goroutine; only the first call does anything.
func (b *Bridge) shutdown(ctx context.Context) {
	b.teardown.Do(func() {
		logger := logutil.LoggerFromContext(ctx)
		settleCall(ctx, b.session, b.notifier, b.bus)
		if b.recorder != nil {
			if err := b.recorder.Close(); err != nil {
				logger.ErrorContext(ctx, "error closing recorder", "error", err)
			}
		}
		b.agent.Close()
		b.telephony.Close()
		if b.cancel != nil {
			b.cancel()
		}
		logger.InfoContext(ctx, "call ended", "stream_sid", b.session.StreamSID())
	})
}

func (b *Bridge) telephonyLoop(ctx context.Context) {
	logger := logutil.LoggerFromContext(ctx)
	for {
		_, data, err := b.telephony.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.InfoContext(ctx, "telephony read ended", "error", err)
			}
			return
		}
		var evt TelephonyEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			logger.WarnContext(ctx, "skipping malformed telephony event", "error", err)
			continue
		}
		switch evt.Event {
		case EventStart:
			sid := evt.StreamSid
			if evt.Start != nil && evt.Start.StreamSid != "" {
				sid = evt.Start.StreamSid
			}
			b.session.SetStreamSID(sid)
			logger.InfoContext(ctx, "media stream started", "stream_sid", sid)
		case EventMedia:
			if evt.Media == nil {
				continue
			}
			b.handleCallerAudio(ctx, evt.Media.Payload)
		case EventStop:
			logger.InfoContext(ctx, "media stream stopped", "stream_sid", b.session.StreamSID())
			return
		default:
			logger.DebugContext(ctx, "ignoring telephony event", "event", evt.Event)
		}
	}
}

func (b *Bridge) handleCallerAudio(ctx context.Context, payload string) {
	logger := logutil.LoggerFromContext(ctx)
	ulaw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logger.WarnContext(ctx, "skipping undecodable media payload", "error", err)
		return
	}
	pcm, err := b.up.Process(ulaw)
	if err != nil {
		logger.ErrorContext(ctx, "uplink resample failed", "error", err)
		return
	}
	if len(pcm) == 0 {
		return
	}
	if b.recorder != nil {
		if err := b.recorder.Write(pcm); err != nil {
			logger.DebugContext(ctx, "recorder write failed", "error", err)
		}
	}
	if err := b.agent.WriteMessageConcurrent(websocket.BinaryMessage, pcm); err != nil {
		logger.ErrorContext(ctx, "error forwarding caller audio", "error", err)
	}
}

func (b *Bridge) agentLoop(ctx context.Context) {
	logger := logutil.LoggerFromContext(ctx)
	for {
		mt, data, err := b.agent.ReadMessage()
		if err != nil {
			logger.InfoContext(ctx, "agent read ended", "error", err)
			b.shutdown(ctx)
			return
		}
		if mt == websocket.BinaryMessage {
			b.handleAgentAudio(ctx, data)
			continue
		}
		b.handleAgentEvent(ctx, data)
	}
}

func (b *Bridge) handleAgentAudio(ctx context.Context, pcm []byte) {
	logger := logutil.LoggerFromContext(ctx)
	sid := b.session.StreamSID()
	if sid == "" {
		return
	}
	ulaw, err := b.down.Process(pcm)
	if err != nil {
		logger.ErrorContext(ctx, "downlink resample failed", "error", err)
		return
	}
	for frame := range audio.Frames(ulaw, audio.FrameBytes) {
		out := OutEvent{
			Event:     EventMedia,
			StreamSid: sid,
			Media:     &OutMedia{Payload: base64.StdEncoding.EncodeToString(frame)},
		}
		if err := b.telephony.WriteJSONConcurrent(out); err != nil {
			logger.ErrorContext(ctx, "error writing agent audio", "error", err)
			return
		}
	}
}

func (b *Bridge) handleAgentEvent(ctx context.Context, data []byte) {
	logger := logutil.LoggerFromContext(ctx)
	var evt agent.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		logger.WarnContext(ctx, "skipping malformed agent event", "error", err)
		return
	}
	switch evt.Type {
	case agent.TypeUserStartedSpeaking:
		if sid := b.session.StreamSID(); sid != "" {
			if err := b.telephony.WriteJSONConcurrent(OutEvent{Event: EventClear, StreamSid: sid}); err != nil {
				logger.ErrorContext(ctx, "error sending clear", "error", err)
			}
		}
	case agent.TypeFunctionCallRequest:
		var req agent.FunctionCallRequest
		if err := json.Unmarshal(data, &req); err != nil {
			logger.WarnContext(ctx, "skipping malformed function call request", "error", err)
			return
		}
		b.handleFunctionCalls(ctx, req)
	case agent.TypeError:
		logger.ErrorContext(ctx, "agent reported error", "payload", string(data))
	default:
		logger.DebugContext(ctx, "agent event", "type", evt.Type)
	}
}

func (b *Bridge) handleFunctionCalls(ctx context.Context, req agent.FunctionCallRequest) {
	logger := logutil.LoggerFromContext(ctx)
	for _, fc := range req.Functions {
		// Server-side calls are executed by the agent provider itself.
		if !fc.ClientSide {
			continue
		}
		content := b.dispatch.Invoke(ctx, fc.Name, fc.Arguments)
		logger.InfoContext(ctx, "function call", "name", fc.Name, "result", content)
		resp := agent.FunctionCallResponse{
			Event:   agent.Event{Type: agent.TypeFunctionCallResponse},
			ID:      fc.ID,
			Name:    fc.Name,
			Content: content,
		}
		if err := b.agent.WriteJSONConcurrent(resp); err != nil {
			logger.ErrorContext(ctx, "error sending function result", "error", err)
		}
	}
}

// settleCall finalizes or discards the call's order. It is safe to run more
// than once: after a successful finalize the session's notified flag short
// circuits, and a finalized order number can no longer be finalized again.
func settleCall(ctx context.Context, s *order.Session, notifier notify.Notifier, bus *events.Bus) {
	logger := logutil.LoggerFromContext(ctx)
	if s.Notified() {
		return
	}
	num := s.OrderNumber()
	if !s.PhoneConfirmed() || s.Phone() == "" {
		if num != "" {
			s.Discard(num)
			logger.InfoContext(ctx, "discarded order without confirmed phone", "order_number", num)
		}
		return
	}
	phone := s.Phone()
	if num == "" {
		po, err := s.Checkout(ctx, phone)
		if err != nil {
			logger.InfoContext(ctx, "nothing to finalize", "error", err)
			return
		}
		num = po.Number
	}
	o, err := s.Finalize(ctx, num)
	if err != nil {
		logger.ErrorContext(ctx, "error finalizing order", "order_number", num, "error", err)
		return
	}
	s.MarkNotified()
	if bus != nil {
		bus.Publish(events.Event{Type: events.TypeOrderCreated, OrderNumber: o.Number, Status: o.Status})
	}
	if notifier != nil {
		if err := notifier.OrderReceived(ctx, o.Number, phone); err != nil {
			logger.ErrorContext(ctx, "error sending order confirmation", "order_number", o.Number, "error", err)
		}
	}
	logger.InfoContext(ctx, "order finalized", "order_number", o.Number, "total", o.Total)
}
