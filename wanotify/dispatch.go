package wanotify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dukaan/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const dispatchChannel = "order-confirmations"

// DispatchResult reports the outcome of a best-effort notification publish.
// Callers are free to ignore it; a failed dispatch never rolls anything back.
type DispatchResult struct {
	Published bool
	Err       error
}

type dispatchEvent struct {
	OrderID          string    `json:"orderId" bson:"orderId"`
	CustomerName     string    `json:"customerName" bson:"customerName"`
	TotalAmount      float64   `json:"totalAmount" bson:"totalAmount"`
	NotificationLink string    `json:"notificationLink" bson:"notificationLink"`
	DispatchedAt     time.Time `json:"dispatchedAt" bson:"dispatchedAt"`
}

// Dispatcher publishes order-confirmation events to redis. A single worker
// consumes the channel and records each dispatch for admin inspection.
type Dispatcher struct {
	conn *redis.Client
}

func NewDispatcher(conn *redis.Client) *Dispatcher {
	return &Dispatcher{conn: conn}
}

// Dispatch publishes one confirmation event. One attempt, no retry: the
// link stays on the order, so an operator can always resend from the admin
// panel if this publish is lost.
func (d *Dispatcher) Dispatch(ctx context.Context, o models.Order) DispatchResult {
	ev := dispatchEvent{
		OrderID:          o.OrderID,
		CustomerName:     o.CustomerInfo.Name,
		TotalAmount:      o.TotalAmount,
		NotificationLink: o.NotificationLink,
		DispatchedAt:     time.Now(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return DispatchResult{Err: err}
	}
	if err := d.conn.Publish(ctx, dispatchChannel, data).Err(); err != nil {
		log.Printf("[Dispatch] publish failed for %s: %v", ev.OrderID, err)
		return DispatchResult{Err: err}
	}
	return DispatchResult{Published: true}
}

// StartWorker consumes confirmation events and records them. Runs until the
// context is cancelled.
func (d *Dispatcher) StartWorker(ctx context.Context, records *mongo.Collection) {
	sub := d.conn.Subscribe(ctx, dispatchChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[DispatchWorker] listening for order confirmations...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev dispatchEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[DispatchWorker] bad payload: %v", err)
				continue
			}
			if _, err := records.InsertOne(ctx, ev); err != nil {
				log.Printf("[DispatchWorker] record insert failed for %s: %v", ev.OrderID, err)
				continue
			}
			log.Printf("[DispatchWorker] recorded confirmation for %s", ev.OrderID)
		}
	}
}
