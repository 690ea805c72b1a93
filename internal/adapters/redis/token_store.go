package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/panai/console/internal/ports"
	"github.com/redis/go-redis/v9"
)

// tokenKeyName is the fixed key name the API token lives under within a session.
const tokenKeyName = "authToken"

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	Client redis.UniversalClient
	// Prefix namespaces keys, e.g. "panai:".
	Prefix string
	// TTL bounds how long a token outlives its last write.
	TTL time.Duration
	// DB is the logical database used to build keyspace notification channels.
	DB     int
	Logger *slog.Logger
}

// TokenStore keeps one API token per browser session and broadcasts removals.
//
// Removals reach watchers two ways: Clear publishes on a per-session channel,
// and keyspace notifications (when enabled on the server) report del/expired
// for keys removed by anything else.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	db     int
	logger *slog.Logger
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(opts TokenStoreOptions) *TokenStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStore{
		client: opts.Client,
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		db:     opts.DB,
		logger: logger.With("component", "token_store"),
	}
}

// Key returns the Redis key holding the session's token.
func (s *TokenStore) Key(sessionID string) string {
	return s.prefix + sessionID + ":" + tokenKeyName
}

func (s *TokenStore) channel(sessionID string) string {
	return s.prefix + "events:" + sessionID
}

func (s *TokenStore) keyspaceChannel(sessionID string) string {
	return "__keyspace@" + strconv.Itoa(s.db) + "__:" + s.Key(sessionID)
}

func (s *TokenStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	tok, err := s.client.Get(ctx, s.Key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get token: %w", err)
	}
	return tok, tok != "", nil
}

func (s *TokenStore) Set(ctx context.Context, sessionID, token string) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if err := s.client.Set(ctx, s.Key(sessionID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.Key(sessionID))
	pipe.Publish(ctx, s.channel(sessionID), string(ports.TokenRemoved))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis clear token: %w", err)
	}
	return nil
}

// Watch subscribes to removal events for one session. The returned channel is
// closed when ctx is done or the subscription fails.
func (s *TokenStore) Watch(ctx context.Context, sessionID string) (<-chan ports.TokenEvent, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}
	subs, err := s.subscribe(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make(chan ports.TokenEvent, 1)
	go s.forward(ctx, sessionID, out, subs...)
	return out, nil
}

// subscribe opens the subscriptions for a session. Keyspace notifications are
// node-local on a cluster, so there the keyspace channel is subscribed on the
// master owning the key's slot.
func (s *TokenStore) subscribe(ctx context.Context, sessionID string) ([]*redis.PubSub, error) {
	cluster, ok := s.client.(*redis.ClusterClient)
	if !ok {
		sub := s.client.Subscribe(ctx, s.channel(sessionID), s.keyspaceChannel(sessionID))
		if err := confirmSubscription(ctx, sub); err != nil {
			return nil, err
		}
		return []*redis.PubSub{sub}, nil
	}

	node, err := cluster.MasterForKey(ctx, s.Key(sessionID))
	if err != nil {
		return nil, fmt.Errorf("locate token key master: %w", err)
	}
	direct := cluster.Subscribe(ctx, s.channel(sessionID))
	if err := confirmSubscription(ctx, direct); err != nil {
		return nil, err
	}
	keyspace := node.Subscribe(ctx, s.keyspaceChannel(sessionID))
	if err := confirmSubscription(ctx, keyspace); err != nil {
		_ = direct.Close()
		return nil, err
	}
	return []*redis.PubSub{direct, keyspace}, nil
}

// confirmSubscription waits for the server to acknowledge sub so no removal
// published afterwards is missed. sub is closed on failure.
func confirmSubscription(ctx context.Context, sub *redis.PubSub) error {
	if _, err := sub.Receive(ctx); err != nil {
		if cerr := sub.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close subscription: %w", cerr))
		}
		return fmt.Errorf("redis subscribe: %w", err)
	}
	return nil
}

// forward turns messages from up to two subscriptions into removal events.
func (s *TokenStore) forward(ctx context.Context, sessionID string, out chan<- ports.TokenEvent, subs ...*redis.PubSub) {
	defer close(out)
	defer func() {
		for _, sub := range subs {
			if err := sub.Close(); err != nil {
				s.logger.WarnContext(ctx, "close token subscription failed", "error", err)
			}
		}
	}()

	primary := subs[0].Channel()
	var secondary <-chan *redis.Message
	if len(subs) > 1 {
		secondary = subs[1].Channel()
	}
	for {
		var (
			msg  *redis.Message
			open bool
		)
		select {
		case <-ctx.Done():
			return
		case msg, open = <-primary:
		case msg, open = <-secondary:
		}
		if !open {
			return
		}
		if !isRemoval(msg.Payload) {
			continue
		}
		select {
		case out <- ports.TokenEvent{SessionID: sessionID, Kind: ports.TokenRemoved}:
		case <-ctx.Done():
			return
		}
	}
}

// isRemoval accepts our own publish payload and keyspace del/expired/evicted events.
func isRemoval(payload string) bool {
	switch payload {
	case string(ports.TokenRemoved), "del", "expired", "evicted":
		return true
	default:
		return false
	}
}

// EnableKeyspaceNotifications turns on generic and expiry keyspace events.
// Managed Redis offerings often reject CONFIG SET; callers should log and continue.
func (s *TokenStore) EnableKeyspaceNotifications(ctx context.Context) error {
	if err := s.client.ConfigSet(ctx, "notify-keyspace-events", "Kgxe").Err(); err != nil {
		return fmt.Errorf("enable keyspace notifications: %w", err)
	}
	return nil
}

// TTL returns the remaining lifetime of the session's token (negative when absent).
func (s *TokenStore) TTL(ctx context.Context, sessionID string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, s.Key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl token: %w", err)
	}
	return d, nil
}
