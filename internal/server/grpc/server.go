// Package grpc exposes the diary services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
	"github.com/dmitrijs2005/moodiary/internal/server/feed"
	"github.com/dmitrijs2005/moodiary/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateSettings(ctx context.Context, userID string, settings domain.Settings) (*domain.User, error)
}

type entrySvc interface {
	List(ctx context.Context, userID string) ([]domain.Entry, int64, error)
	Get(ctx context.Context, userID, id string) (*domain.Entry, error)
	Create(ctx context.Context, userID, id string, in domain.EntryInput) (*domain.Entry, error)
	Update(ctx context.Context, userID, id string, in domain.EntryInput) (*domain.Entry, error)
	Delete(ctx context.Context, userID, id string) (int64, error)
	Changes(ctx context.Context, userID string, sinceVersion int64) ([]domain.ChangeEvent, error)
	Archive(ctx context.Context, userID string) (*services.Archive, error)
}

type changeFeed interface {
	Subscribe(userID string) *feed.Subscription
}

type GRPCServer struct {
	api.UnimplementedDiaryServiceServer
	address   string
	users     userSvc
	entries   entrySvc
	feed      changeFeed
	logger    logging.Logger
	jwtSecret []byte
	apiKey    string
}

// NewGRPCServer wires the services into a server listening on a. When
// apiKey is non-empty every call must present it in the apikey metadata.
func NewGRPCServer(a string, l logging.Logger, us userSvc, es entrySvc, f changeFeed, secretKey, apiKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		entries:   es,
		feed:      f,
		jwtSecret: []byte(secretKey),
		apiKey:    apiKey,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)

	api.RegisterDiaryServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		// Subscribe streams are open-ended, GracefulStop would wait on them.
		srv.Stop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}

	return nil
}
