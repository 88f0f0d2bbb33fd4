package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"terminal-terrace/blog-service/internal/identity"
	"terminal-terrace/blog-service/internal/permission"
)

type tokenResolver map[string]*permission.Actor

func (r tokenResolver) Resolve(token string) (*permission.Actor, error) {
	if token == "" {
		return permission.Guest(permission.NewSet()), nil
	}
	if actor, ok := r[token]; ok {
		return actor, nil
	}
	return nil, identity.ErrInvalidToken
}

func startServer(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()
	resolver := tokenResolver{"good": {UserID: uuid.New(), State: permission.Active}}
	srv, err := NewServer(0, resolver, zap.NewNop(), Services{})
	require.NoError(t, err)
	go func() { _ = srv.Start() }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(srv.GetAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return srv, healthpb.NewHealthClient(conn)
}

func TestHealthStatus(t *testing.T) {
	srv, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	srv.SetServing(true)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer good")
	_, err = client.Check(authed, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)

	bad := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer forged")
	_, err = client.Check(bad, &healthpb.HealthCheckRequest{Service: ServiceName})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestProbe(t *testing.T) {
	srv, client := startServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var failing atomic.Bool
	go srv.Probe(ctx, 20*time.Millisecond, func(context.Context) error {
		if failing.Load() {
			return errors.New("db down")
		}
		return nil
	})

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.Status
	}
	assert.Eventually(t, func() bool { return check() == healthpb.HealthCheckResponse_SERVING }, 2*time.Second, 10*time.Millisecond)

	failing.Store(true)
	assert.Eventually(t, func() bool { return check() == healthpb.HealthCheckResponse_NOT_SERVING }, 2*time.Second, 10*time.Millisecond)
}
