package notify

import (
	"github.com/VictorCainj/doc-forge-audit/internal/app"
)

type EventBus interface {
	// Publish sends a message to the message bus.
	Publish(topic string, args ...any)
}

// BusNotifier delivers local notifications over the in-process message bus.
// The dashboard frontend subscribes to the notification topic and surfaces
// the message to the operator.
type BusNotifier struct {
	bus EventBus
}

func NewBusNotifier(bus EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Show(notification LocalNotification) {
	n.bus.Publish(app.TopicAlertNotification, notification)
}
