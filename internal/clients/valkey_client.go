package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
}

type ValkeyClient struct {
	Client valkey.Client
}

func NewValkeyClient(cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return &ValkeyClient{Client: client}, nil
}

func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

// GetInt reads an integer key. A missing key reads as zero with found=false.
func (vc *ValkeyClient) GetInt(ctx context.Context, key string) (value int64, found bool, err error) {
	res := vc.Client.Do(ctx, vc.Client.B().Get().Key(key).Build())
	value, err = res.AsInt64()
	if valkey.IsValkeyNil(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// IncrByWithTTL atomically adds n to key and refreshes its expiry in one
// round trip. It is not retried: a replayed INCRBY would double count.
func (vc *ValkeyClient) IncrByWithTTL(ctx context.Context, key string, n int64, ttl time.Duration) (int64, error) {
	completed := []valkey.Completed{
		vc.Client.B().Incrby().Key(key).Increment(n).Build(),
		vc.Client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build(),
	}

	responses := vc.Client.DoMulti(ctx, completed...)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return 0, err
		}
	}

	return responses[0].AsInt64()
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error()
}
