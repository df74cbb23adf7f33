package client

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeDiary is an in-process server that checks the access token and
// expires "old" tokens.
type fakeDiary struct {
	api.UnimplementedDiaryServiceServer
	refreshCalls atomic.Int32
	lastAPIKey   atomic.Value
}

func tokenFrom(ctx context.Context, key string) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeDiary) check(ctx context.Context) error {
	f.lastAPIKey.Store(tokenFrom(ctx, common.APIKeyHeaderName))
	switch tokenFrom(ctx, common.AccessTokenHeaderName) {
	case "fresh":
		return nil
	case "old":
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	default:
		return status.Error(codes.Unauthenticated, "missing token")
	}
}

func (f *fakeDiary) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	f.lastAPIKey.Store(tokenFrom(ctx, common.APIKeyHeaderName))
	return &api.PingResponse{Status: "OK"}, nil
}

func (f *fakeDiary) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	if req.Password != "senha123" {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return &api.AuthResponse{AccessToken: "old", RefreshToken: "r1", User: domain.User{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeDiary) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	f.refreshCalls.Add(1)
	if req.RefreshToken != "r1" {
		return nil, status.Error(codes.Unauthenticated, "refresh token expired")
	}
	return &api.RefreshTokenResponse{AccessToken: "fresh", RefreshToken: "r2"}, nil
}

func (f *fakeDiary) Logout(ctx context.Context, req *api.LogoutRequest) (*api.Empty, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (f *fakeDiary) GetEntry(ctx context.Context, req *api.GetEntryRequest) (*api.EntryResponse, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	switch req.ID {
	case "missing":
		return nil, status.Error(codes.NotFound, "not found")
	case "bad":
		return nil, status.Error(codes.InvalidArgument, "title is required")
	}
	return &api.EntryResponse{Entry: domain.Entry{ID: req.ID, Title: "Dia bom"}}, nil
}

func (f *fakeDiary) CreateEntry(ctx context.Context, req *api.CreateEntryRequest) (*api.EntryResponse, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	return nil, status.Error(codes.AlreadyExists, "already exists")
}

func (f *fakeDiary) Subscribe(req *api.SubscribeRequest, stream api.SubscribeServer) error {
	if err := f.check(stream.Context()); err != nil {
		return err
	}
	for v := req.SinceVersion + 1; v <= req.SinceVersion+2; v++ {
		ev := domain.ChangeEvent{Kind: domain.EventInsert, Entry: domain.Entry{ID: "e", Version: v}}
		if err := stream.Send(&ev); err != nil {
			return err
		}
	}
	return status.Error(codes.Unavailable, "subscription dropped")
}

func newBufClient(t *testing.T, store TokenStore) (*GRPCClient, *fakeDiary) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fake := &fakeDiary{}
	api.RegisterDiaryServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	if store == nil {
		store = &memoryTokenStore{}
	}
	c := &GRPCClient{
		endpointURL: "passthrough:///bufnet",
		apiKey:      "pub",
		store:       store,
		dialOpts: []grpc.DialOption{grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})},
	}
	require.NoError(t, c.InitGRPCClient())
	t.Cleanup(func() { _ = c.Close() })
	return c, fake
}

func TestGRPCClient_PingSendsAPIKey(t *testing.T) {
	c, fake := newBufClient(t, nil)
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, "pub", fake.lastAPIKey.Load())
}

func TestGRPCClient_LoginStoresSession(t *testing.T) {
	store := &memoryTokenStore{}
	c, _ := newBufClient(t, store)
	assert.False(t, c.HasSession())

	u, err := c.Login(context.Background(), "ana@x.com", "senha123")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, c.HasSession())
	assert.Equal(t, Tokens{AccessToken: "old", RefreshToken: "r1"}, store.t)

	_, err = c.Login(context.Background(), "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGRPCClient_RefreshesExpiredTokenOnce(t *testing.T) {
	store := &memoryTokenStore{}
	c, fake := newBufClient(t, store)
	_, err := c.Login(context.Background(), "ana@x.com", "senha123")
	require.NoError(t, err)

	e, err := c.GetEntry(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Dia bom", e.Title)
	assert.EqualValues(t, 1, fake.refreshCalls.Load())
	assert.Equal(t, Tokens{AccessToken: "fresh", RefreshToken: "r2"}, store.t)

	_, err = c.GetEntry(context.Background(), "e2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fake.refreshCalls.Load())
}

func TestGRPCClient_FailedRefreshIsUnauthorized(t *testing.T) {
	c, _ := newBufClient(t, nil)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "old", RefreshToken: "revoked"}))

	_, err := c.GetEntry(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGRPCClient_ErrorMapping(t *testing.T) {
	c, _ := newBufClient(t, nil)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "fresh", RefreshToken: "r"}))
	ctx := context.Background()

	_, err := c.GetEntry(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = c.GetEntry(ctx, "bad")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "title is required")

	_, err = c.CreateEntry(ctx, "e", domain.EntryInput{})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, _, err = c.ListEntries(ctx)
	assert.Contains(t, err.Error(), "rpc error")
	assert.Equal(t, codes.Unimplemented, status.Code(errors.Unwrap(err)))
}

func TestGRPCClient_LogoutClearsSession(t *testing.T) {
	store := &memoryTokenStore{}
	c, _ := newBufClient(t, store)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "fresh", RefreshToken: "r"}))

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, c.HasSession())
	assert.True(t, store.t.Empty())
}

func TestGRPCClient_Subscribe(t *testing.T) {
	c, _ := newBufClient(t, nil)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "fresh", RefreshToken: "r"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := c.Subscribe(ctx, 10)
	require.NoError(t, err)

	ev, err := stream.Recv()
	require.NoError(t, err)
	assert.EqualValues(t, 11, ev.Entry.Version)
	ev, err = stream.Recv()
	require.NoError(t, err)
	assert.EqualValues(t, 12, ev.Entry.Version)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGRPCClient_SubscribeExpiredTokenRefreshes(t *testing.T) {
	store := &memoryTokenStore{}
	c, fake := newBufClient(t, store)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "old", RefreshToken: "r1"}))

	stream, err := c.Subscribe(context.Background(), 0)
	require.NoError(t, err)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 1, fake.refreshCalls.Load())
	assert.Equal(t, Tokens{AccessToken: "fresh", RefreshToken: "r2"}, store.t)

	stream, err = c.Subscribe(context.Background(), 4)
	require.NoError(t, err)
	ev, err := stream.Recv()
	require.NoError(t, err)
	assert.EqualValues(t, 5, ev.Entry.Version)
	assert.EqualValues(t, 1, fake.refreshCalls.Load())
}

func TestGRPCClient_SubscribeRevokedSessionIsUnauthorized(t *testing.T) {
	c, fake := newBufClient(t, nil)
	require.NoError(t, c.setTokens(context.Background(), Tokens{AccessToken: "old", RefreshToken: "revoked"}))

	stream, err := c.Subscribe(context.Background(), 0)
	require.NoError(t, err)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 1, fake.refreshCalls.Load())
	assert.Equal(t, "old", c.currentTokens().AccessToken)
}

func TestMapError_NonStatusPassesThrough(t *testing.T) {
	c := &GRPCClient{}
	boom := errors.New("boom")
	assert.Same(t, boom, c.mapError(boom))
	assert.NoError(t, c.mapError(nil))
}
