package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"errandgo/internal/auth"
)

const (
	sessionKeyPrefix   = "session:"
	eventChannelPrefix = "auth:events:"
)

// Store keeps session records in redis and relays signed-out notifications
// over redis pub/sub, so invalidation reaches every server instance holding
// a subscription for the identity.
type Store struct {
	client *redis.Client
	logger *log.Logger
}

func NewStore(client *redis.Client, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{client: client, logger: logger}
}

func (s *Store) Save(ctx context.Context, sess auth.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sess.ID, b, ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (auth.Session, error) {
	b, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return auth.Session{}, auth.ErrNoSession
		}
		return auth.Session{}, err
	}

	var sess auth.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return auth.Session{}, err
	}
	return sess, nil
}

func (s *Store) Touch(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, sessionKeyPrefix+id, ttl).Err()
}

// Delete is idempotent: removing a missing record succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *Store) PublishSignedOut(ctx context.Context, identityID uuid.UUID) error {
	ev := auth.Event{
		Type:       auth.EventSignedOut,
		IdentityID: identityID,
		At:         time.Now().UTC(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, eventChannelPrefix+identityID.String(), b).Err()
}

// Subscribe opens a pub/sub subscription scoped to one identity. The
// returned handle owns the underlying redis subscription; Close releases it
// and is safe to call any number of times.
func (s *Store) Subscribe(ctx context.Context, identityID uuid.UUID) (auth.Subscription, error) {
	ps := s.client.Subscribe(ctx, eventChannelPrefix+identityID.String())

	// Force the SUBSCRIBE round-trip so a broken connection surfaces here
	// instead of as a silently empty event stream.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	sub := &subscription{
		ps:     ps,
		events: make(chan auth.Event, 8),
		logger: s.logger,
	}
	go sub.pump()
	return sub, nil
}

type subscription struct {
	ps     *redis.PubSub
	events chan auth.Event
	logger *log.Logger

	closeOnce sync.Once
}

func (s *subscription) Events() <-chan auth.Event {
	return s.events
}

func (s *subscription) pump() {
	defer close(s.events)
	for msg := range s.ps.Channel() {
		var ev auth.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			s.logger.Printf("session event decode failed | err=%v", err)
			continue
		}
		select {
		case s.events <- ev:
		default:
			s.logger.Printf("session event dropped | identity=%s reason=buffer_full", ev.IdentityID)
		}
	}
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ps.Close()
	})
	return err
}
