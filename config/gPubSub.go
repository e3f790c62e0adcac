package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// QuoteRefreshMessage is the payload of vendor-adapter push events: a vendor
// integration fetched fresh cost/MSRP/MAP figures for one product. Monetary
// fields stay raw strings; the pricing engine owns normalization.
type QuoteRefreshMessage struct {
	BusinessId    string `json:"business_id"`
	ProductId     int    `json:"product_id"`
	VendorId      int    `json:"vendor_id"`
	Cost          string `json:"cost"`
	Msrp          string `json:"msrp"`
	Map           string `json:"map"`
	CorrelationId string `json:"correlation_id"`
}

// PricingEventMessage is published after a recompute so webhook/export
// consumers can pick up the new retail price without polling.
type PricingEventMessage struct {
	BusinessId    string              `json:"business_id"`
	ProductId     int                 `json:"product_id"`
	Price         decimal.NullDecimal `json:"price"`
	MarginPercent decimal.NullDecimal `json:"margin_percent"`
	Explanation   string              `json:"explanation"`
	ComputedAt    time.Time           `json:"computed_at"`
	CorrelationId string              `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

// GetPubSubClient returns a Pub/Sub client, initializing with retries if needed.
// It uses Application Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	if pubsubClient != nil {
		c := pubsubClient
		pubsubClientMu.Unlock()
		return c, nil
	}
	pubsubClientMu.Unlock()

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var attempt int
	for {
		attempt++

		var (
			c   *pubsub.Client
			err error
		)
		if credJSON != "" {
			c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// Uses Application Default Credentials (Cloud Run service account or GOOGLE_APPLICATION_CREDENTIALS).
			c, err = pubsub.NewClient(ctx, projectID)
		}
		if err == nil {
			pubsubClientMu.Lock()
			if pubsubClient == nil {
				pubsubClient = c
			} else {
				// Another goroutine won the race; close ours.
				_ = c.Close()
			}
			c2 := pubsubClient
			pubsubClientMu.Unlock()

			log.Printf("pubsub client ready (project_id=%s attempt=%d)", projectID, attempt)
			return c2, nil
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to init pubsub client (project_id=%s attempt=%d): %v; retrying in %s", projectID, attempt, err, sleep)
		time.Sleep(sleep)
	}
}

// PublishPricingEvent publishes msg to PRICING_EVENTS_TOPIC. Publishing is
// best-effort from the caller's point of view: the computed price is already
// cached/returned before this runs.
func PublishPricingEvent(ctx context.Context, msg PricingEventMessage) error {
	topicName := os.Getenv("PRICING_EVENTS_TOPIC")
	if topicName == "" {
		return errors.New("PRICING_EVENTS_TOPIC is not set")
	}

	client, err := GetPubSubClient(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := client.Topic(topicName)
	result := topic.Publish(ctx, &pubsub.Message{Data: payload})
	_, err = result.Get(ctx)
	return err
}
