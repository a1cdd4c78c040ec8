package messaging

import (
	"encoding/json"
	"log"
	"time"

	"grievance-service/internal/model"
	"grievance-service/internal/repository"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SSEClient is one tracking-page connection watching a single complaint.
type SSEClient struct {
	ComplaintID string
	Channel     chan *model.Update
}

// SSEHub fans updates out to the tracking pages watching each complaint.
type SSEHub struct {
	clients    map[string][]*SSEClient
	register   chan *SSEClient
	unregister chan *SSEClient
	broadcast  chan *model.Update
}

func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients:    make(map[string][]*SSEClient),
		register:   make(chan *SSEClient),
		unregister: make(chan *SSEClient),
		broadcast:  make(chan *model.Update, 100),
	}
}

func (h *SSEHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ComplaintID] = append(h.clients[client.ComplaintID], client)

		case client := <-h.unregister:
			watchers := h.clients[client.ComplaintID]
			for i, c := range watchers {
				if c == client {
					h.clients[client.ComplaintID] = append(watchers[:i], watchers[i+1:]...)
					break
				}
			}
			close(client.Channel)

		case update := <-h.broadcast:
			for _, client := range h.clients[update.ComplaintID] {
				select {
				case client.Channel <- update:
				default:
					// channel full, skip
				}
			}
		}
	}
}

func (h *SSEHub) RegisterClient(complaintID string) *SSEClient {
	client := &SSEClient{
		ComplaintID: complaintID,
		Channel:     make(chan *model.Update, 10),
	}
	h.register <- client
	return client
}

func (h *SSEHub) UnregisterClient(client *SSEClient) {
	h.unregister <- client
}

func (h *SSEHub) SendToWatchers(update *model.Update) {
	h.broadcast <- update
}

// UpdateConsumer turns complaint events from the broker into update-feed rows
// and live pushes to the tracking pages watching the complaint.
type UpdateConsumer struct {
	rmq        *RabbitMQ
	updateRepo *repository.UpdateRepository
	sseHub     *SSEHub
	done       chan struct{}
}

func NewUpdateConsumer(rmq *RabbitMQ, updateRepo *repository.UpdateRepository, sseHub *SSEHub) *UpdateConsumer {
	return &UpdateConsumer{
		rmq:        rmq,
		updateRepo: updateRepo,
		sseHub:     sseHub,
		done:       make(chan struct{}),
	}
}

func (c *UpdateConsumer) Start() {
	go c.consume()
}

func (c *UpdateConsumer) consume() {
	for {
		select {
		case <-c.done:
			return
		default:
			msgs, err := c.rmq.Consume()
			if err != nil {
				log.Printf("consume error: %v, retrying...", err)
				time.Sleep(5 * time.Second)
				continue
			}

			c.processMessages(msgs)
		}
	}
}

func (c *UpdateConsumer) processMessages(msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-c.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("channel closed, reconnecting...")
				return
			}

			c.handleMessage(msg)
		}
	}
}

func (c *UpdateConsumer) handleMessage(msg amqp.Delivery) {
	switch msg.RoutingKey {
	case repository.RoutingKeyStatusChanged:
		c.handleStatusChanged(msg)
	case repository.RoutingKeyUpdatePosted:
		c.handleUpdatePosted(msg)
	case repository.RoutingKeyComplaintCreated:
		// nothing to derive yet; acknowledged so the queue drains
		msg.Ack(false)
	default:
		msg.Nack(false, false)
	}
}

// handleStatusChanged records a system update describing the status change
// and pushes it to watchers. The update row is what the tracking page's
// "Recent Updates" section shows.
func (c *UpdateConsumer) handleStatusChanged(msg amqp.Delivery) {
	var event StatusChangedMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("unmarshal error: %v", err)
		msg.Nack(false, false)
		return
	}

	next := model.Status(event.Next)

	message := "Complaint \"" + event.Title + "\" status changed to: " + next.Label()
	from := "System"
	if next == model.StatusAssigned && event.AssignedTo != "" {
		message = "Your complaint has been assigned to the " + event.AssignedTo + " for immediate action."
	} else if event.AssignedTo != "" {
		from = event.AssignedTo
	}

	update := &model.Update{
		ID:          uuid.New(),
		ComplaintID: event.ComplaintID,
		Message:     message,
		From:        from,
		CreatedAt:   time.Now(),
	}

	if err := c.updateRepo.CreateSystem(update); err != nil {
		log.Printf("db error: %v", err)
		msg.Nack(false, true)
		return
	}

	c.sseHub.SendToWatchers(update)

	msg.Ack(false)
}

// handleUpdatePosted pushes a department-authored update to watchers. The row
// already exists; posting wrote it in the same transaction as the event.
func (c *UpdateConsumer) handleUpdatePosted(msg amqp.Delivery) {
	var event UpdatePostedMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("unmarshal error: %v", err)
		msg.Nack(false, false)
		return
	}

	updateID, err := uuid.Parse(event.UpdateID)
	if err != nil {
		msg.Nack(false, false)
		return
	}

	c.sseHub.SendToWatchers(&model.Update{
		ID:          updateID,
		ComplaintID: event.ComplaintID,
		Message:     event.Message,
		From:        event.From,
		CreatedAt:   time.Now(),
	})

	msg.Ack(false)
}

func (c *UpdateConsumer) Stop() {
	close(c.done)
}
