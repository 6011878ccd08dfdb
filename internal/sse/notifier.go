package sse

import "context"

// Notifier turns catalog lifecycle callbacks into SSE broadcasts. With a
// bus configured, messages go through it so every replica's hub sees them;
// otherwise they land on the local hub directly.
type Notifier struct {
	hub *Hub
	bus Bus
}

func NewNotifier(hub *Hub, bus Bus) *Notifier {
	return &Notifier{hub: hub, bus: bus}
}

func (n *Notifier) SaveState(kind, phase string) {
	n.emit(Message{
		Channel: ChannelFor(kind),
		Event:   EventSaveState,
		Data:    map[string]any{"kind": kind, "phase": phase},
	})
}

func (n *Notifier) UploadProgress(kind string, ratio float64) {
	n.emit(Message{
		Channel: ChannelFor(kind),
		Event:   EventUploadProgress,
		Data:    map[string]any{"kind": kind, "ratio": ratio},
	})
}

func (n *Notifier) Changed(kind string) {
	n.emit(Message{
		Channel: ChannelFor(kind),
		Event:   EventCatalogChanged,
		Data:    map[string]any{"kind": kind},
	})
}

func (n *Notifier) emit(msg Message) {
	if n.bus != nil {
		_ = n.bus.Publish(context.Background(), msg)
		return
	}
	n.hub.Broadcast(msg)
}
