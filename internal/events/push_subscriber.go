package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

// PushSubscriber consumes notification.created events and fans them out to the
// recipient's registered devices. Push failures are logged and dropped; they
// never affect the write that produced the event.
type PushSubscriber struct {
	natsConn   *nats.Conn
	apnsClient *apns2.Client
	userRepo   repository.UserRepository
}

func NewPushSubscriber(natsURL string, userRepo repository.UserRepository) (*PushSubscriber, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	s := &PushSubscriber{
		natsConn:   nc,
		apnsClient: newAPNSClient(),
		userRepo:   userRepo,
	}

	if _, err := nc.Subscribe(SubjectNotificationCreated, s.handleNotificationCreated); err != nil {
		return nil, err
	}
	log.Printf("Push subscriber listening on subject %q", SubjectNotificationCreated)

	return s, nil
}

func newAPNSClient() *apns2.Client {
	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")

	if authKeyPath == "" || keyID == "" || teamID == "" {
		log.Println("APNs credentials not found. Push subscriber will run in MOCK mode.")
		return nil
	}

	authKey, err := token.AuthKeyFromFile(authKeyPath)
	if err != nil {
		log.Printf("Failed to read APNs auth key: %v. Push subscriber will run in MOCK mode.", err)
		return nil
	}

	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}

	if os.Getenv("APNS_MODE") == "production" {
		return apns2.NewTokenClient(authToken).Production()
	}
	return apns2.NewTokenClient(authToken).Development()
}

func (s *PushSubscriber) handleNotificationCreated(msg *nats.Msg) {
	var event NotificationCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Failed to unmarshal notification event: %v", err)
		return
	}

	tokens, err := s.userRepo.GetDeviceTokens(context.Background(), event.UserID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %s: %v", event.UserID, err)
		return
	}

	if len(tokens) == 0 {
		return
	}

	payload := fmt.Sprintf(`{"aps":{"alert":%q,"sound":"default"}}`, pushAlert(event))

	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       os.Getenv("APNS_TOPIC"),
			Payload:     []byte(payload),
		}

		if s.apnsClient == nil {
			log.Printf("MOCK push delivered to device %s", deviceToken)
			continue
		}

		res, err := s.apnsClient.Push(notification)
		if err != nil {
			log.Printf("Failed to send push notification: %v", err)
		} else if !res.Sent() {
			log.Printf("Push notification not sent: %s", res.Reason)
		}
	}
}

func pushAlert(event NotificationCreatedEvent) string {
	switch event.Type {
	case "connection_request":
		return "You have a new connection request"
	default:
		return "You have a new message"
	}
}
