package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	apiKey      string
	conn        *grpc.ClientConn
	client      api.DiaryServiceClient
	store       TokenStore
	dialOpts    []grpc.DialOption

	mu     sync.Mutex
	tokens Tokens

	// serialises refreshes so concurrent callers rotate the token once
	refreshMu sync.Mutex
}

func withMetadata(ctx context.Context, apiKey, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.APIKeyHeaderName, apiKey)
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) currentTokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *GRPCClient) setTokens(ctx context.Context, t Tokens) error {
	s.mu.Lock()
	s.tokens = t
	s.mu.Unlock()
	if t.Empty() {
		return s.store.Clear(ctx)
	}
	return s.store.Save(ctx, t)
}

// refresh rotates the tokens unless another caller already did so after
// stale was observed.
func (s *GRPCClient) refresh(ctx context.Context, stale string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	cur := s.currentTokens()
	if cur.AccessToken != stale {
		return nil
	}
	if cur.RefreshToken == "" {
		return ErrUnauthorized
	}

	resp, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: cur.RefreshToken})
	if err != nil {
		return err
	}

	// TOKENS REFRESHED
	return s.setTokens(ctx, Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token := s.currentTokens().AccessToken

	err := invoker(withMetadata(ctx, s.apiKey, token), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) || method == api.FullMethod("RefreshToken") {
		return err
	}

	if rerr := s.refresh(ctx, token); rerr != nil {
		return rerr
	}

	return invoker(withMetadata(ctx, s.apiKey, s.currentTokens().AccessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) streamInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return streamer(withMetadata(ctx, s.apiKey, s.currentTokens().AccessToken), desc, cc, method, opts...)
}

// NewDiaryClient connects to endpointURL. Tokens from store, if any, are
// loaded so an earlier session can be restored. A nil store keeps tokens in
// memory only. opts are appended to the default dial options.
func NewDiaryClient(ctx context.Context, endpointURL, apiKey string, store TokenStore, opts ...grpc.DialOption) (*GRPCClient, error) {
	if store == nil {
		store = &memoryTokenStore{}
	}
	c := &GRPCClient{endpointURL: endpointURL, apiKey: apiKey, store: store, dialOpts: opts}

	if t, err := store.Load(ctx); err == nil {
		c.tokens = t
	} else if !errors.Is(err, ErrNoSession) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.streamInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewDiaryServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) HasSession() bool {
	return !s.currentTokens().Empty()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) startSession(ctx context.Context, resp *api.AuthResponse) (*domain.User, error) {
	if err := s.setTokens(ctx, Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	u := resp.User
	return &u, nil
}

func (s *GRPCClient) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.startSession(ctx, resp)
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.startSession(ctx, resp)
}

// Logout revokes the refresh token on the server and always forgets the
// local session; the server error, if any, is returned afterwards.
func (s *GRPCClient) Logout(ctx context.Context) error {
	refresh := s.currentTokens().RefreshToken

	var remoteErr error
	if refresh != "" {
		if _, err := s.client.Logout(ctx, &api.LogoutRequest{RefreshToken: refresh}); err != nil {
			remoteErr = s.mapError(err)
		}
	}

	if err := s.setTokens(ctx, Tokens{}); err != nil {
		return err
	}
	return remoteErr
}

func (s *GRPCClient) GetProfile(ctx context.Context) (*domain.User, error) {
	resp, err := s.client.GetProfile(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.User, error) {
	resp, err := s.client.UpdateSettings(ctx, &api.UpdateSettingsRequest{Settings: settings})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) ListEntries(ctx context.Context) ([]domain.Entry, int64, error) {
	resp, err := s.client.ListEntries(ctx, &api.ListEntriesRequest{})
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	return resp.Entries, resp.Version, nil
}

func (s *GRPCClient) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	resp, err := s.client.GetEntry(ctx, &api.GetEntryRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Entry, nil
}

func (s *GRPCClient) CreateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error) {
	resp, err := s.client.CreateEntry(ctx, &api.CreateEntryRequest{ID: id, Input: in})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Entry, nil
}

func (s *GRPCClient) UpdateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error) {
	resp, err := s.client.UpdateEntry(ctx, &api.UpdateEntryRequest{ID: id, Input: in})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Entry, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id string) (int64, error) {
	resp, err := s.client.DeleteEntry(ctx, &api.DeleteEntryRequest{ID: id})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Version, nil
}

func (s *GRPCClient) ArchiveEntries(ctx context.Context) (*api.ArchiveResponse, error) {
	resp, err := s.client.ArchiveEntries(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

type eventStream struct {
	// ctx is the subscriber's context. The stream's own context is
	// cancelled once the stream fails and cannot carry the refresh call.
	ctx    context.Context
	owner  *GRPCClient
	stream api.SubscribeClient
	token  string
}

// Recv maps stream errors like unary calls. An expired token is refreshed
// and reported as ErrUnavailable so the caller's next Subscribe goes out
// with the new token.
func (e *eventStream) Recv() (*domain.ChangeEvent, error) {
	ev, err := e.stream.Recv()
	if err == nil {
		return ev, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, ErrUnavailable
	}
	return nil, e.owner.recoverExpired(e.ctx, e.token, err)
}

// recoverExpired refreshes the session when err says token has expired.
func (s *GRPCClient) recoverExpired(ctx context.Context, token string, err error) error {
	if !isTokenExpired(err) {
		return s.mapError(err)
	}
	if rerr := s.refresh(ctx, token); rerr != nil {
		return s.mapError(rerr)
	}
	return ErrUnavailable
}

func (s *GRPCClient) Subscribe(ctx context.Context, sinceVersion int64) (EventStream, error) {
	token := s.currentTokens().AccessToken
	stream, err := s.client.Subscribe(ctx, &api.SubscribeRequest{SinceVersion: sinceVersion})
	if err != nil {
		return nil, s.recoverExpired(ctx, token, err)
	}
	return &eventStream{ctx: ctx, owner: s, stream: stream, token: token}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.InvalidArgument:
		return common.Validationf("%s", st.Message())
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
