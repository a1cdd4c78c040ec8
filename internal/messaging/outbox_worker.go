package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"grievance-service/internal/repository"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	workerInterval     = 1 * time.Second
	batchSize          = 50
	cleanupInterval    = 1 * time.Hour
	publishedRetention = 24 * time.Hour
)

// OutboxStore is the slice of the outbox repository the worker drives.
type OutboxStore interface {
	ProcessPending(limit int, publish func(repository.OutboxMessage) error) (int, error)
	DeletePublished(olderThan time.Duration) (int64, error)
	GetStats() (map[string]int, error)
}

// OutboxWorker drains the outbox table to RabbitMQ. Complaint state changes
// write their events to the outbox in the same transaction; this worker is
// the only path from there to the broker.
type OutboxWorker struct {
	outbox OutboxStore
	rmq    *RabbitMQ
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewOutboxWorker(outbox OutboxStore, rmq *RabbitMQ) *OutboxWorker {
	return &OutboxWorker{
		outbox: outbox,
		rmq:    rmq,
		done:   make(chan struct{}),
	}
}

func (w *OutboxWorker) Start() {
	w.wg.Add(2)
	go w.processLoop()
	go w.cleanupLoop()
	log.Println("outbox: started")
}

func (w *OutboxWorker) processLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(workerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.processPendingMessages()
		}
	}
}

func (w *OutboxWorker) processPendingMessages() {
	published, err := w.outbox.ProcessPending(batchSize, func(msg repository.OutboxMessage) error {
		return w.publishMessage(msg.ID.String(), msg.RoutingKey, msg.Payload)
	})
	if err != nil {
		log.Printf("outbox: process pending: %v", err)
		return
	}
	if published > 0 {
		log.Printf("outbox: published %d messages", published)
	}
}

// publishMessage publishes with the outbox row ID as message ID so consumers
// can deduplicate redeliveries.
func (w *OutboxWorker) publishMessage(messageID, routingKey string, payload json.RawMessage) error {
	w.rmq.mu.RLock()
	defer w.rmq.mu.RUnlock()

	if w.rmq.channel == nil {
		return fmt.Errorf("channel not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := w.rmq.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Body:         payload,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

func (w *OutboxWorker) cleanupLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			deleted, err := w.outbox.DeletePublished(publishedRetention)
			if err != nil {
				log.Printf("outbox: cleanup: %v", err)
			} else if deleted > 0 {
				log.Printf("outbox: cleaned %d old messages", deleted)
			}
		}
	}
}

func (w *OutboxWorker) Stop() {
	close(w.done)
	w.wg.Wait()
	log.Println("outbox: stopped")
}

func (w *OutboxWorker) GetStats() (map[string]int, error) {
	return w.outbox.GetStats()
}
