package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unexpected errors are logged
// and reported as a bare Internal so no detail leaks to the caller.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	s.logger.Info(ctx, "Registration request")

	sess, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", sess.User.ID)
	return &api.AuthResponse{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken, User: sess.User}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	sess, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return &api.AuthResponse{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken, User: sess.User}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh_token", err)
	}
	return &api.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, userID, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, "logout", err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *api.Empty) (*api.ProfileResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "get_profile", err)
	}
	return &api.ProfileResponse{User: *u}, nil
}

func (s *GRPCServer) UpdateSettings(ctx context.Context, req *api.UpdateSettingsRequest) (*api.ProfileResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.UpdateSettings(ctx, userID, req.Settings)
	if err != nil {
		return nil, s.toStatus(ctx, "update_settings", err)
	}
	return &api.ProfileResponse{User: *u}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, _ *api.ListEntriesRequest) (*api.ListEntriesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	entries, version, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "list_entries", err)
	}
	return &api.ListEntriesResponse{Entries: entries, Version: version}, nil
}

func (s *GRPCServer) GetEntry(ctx context.Context, req *api.GetEntryRequest) (*api.EntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "get_entry", err)
	}
	return &api.EntryResponse{Entry: *e}, nil
}

func (s *GRPCServer) CreateEntry(ctx context.Context, req *api.CreateEntryRequest) (*api.EntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.Create(ctx, userID, req.ID, req.Input)
	if err != nil {
		return nil, s.toStatus(ctx, "create_entry", err)
	}
	return &api.EntryResponse{Entry: *e}, nil
}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *api.UpdateEntryRequest) (*api.EntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.Update(ctx, userID, req.ID, req.Input)
	if err != nil {
		return nil, s.toStatus(ctx, "update_entry", err)
	}
	return &api.EntryResponse{Entry: *e}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *api.DeleteEntryRequest) (*api.DeleteEntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	version, err := s.entries.Delete(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "delete_entry", err)
	}
	return &api.DeleteEntryResponse{ID: req.ID, Version: version}, nil
}

func (s *GRPCServer) ArchiveEntries(ctx context.Context, _ *api.Empty) (*api.ArchiveResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.entries.Archive(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "archive_entries", err)
	}
	s.logger.Info(ctx, "Archive stored", "user_id", userID, "key", a.Key, "count", a.Count)
	return &api.ArchiveResponse{Key: a.Key, URL: a.URL, Count: a.Count}, nil
}

// Subscribe replays the caller's changes after req.SinceVersion and then
// streams live events. The live subscription is opened before the replay
// query so that nothing committed in between is lost; events already covered
// by the replay are skipped.
func (s *GRPCServer) Subscribe(req *api.SubscribeRequest, stream api.SubscribeServer) error {
	ctx := stream.Context()
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	sub := s.feed.Subscribe(userID)
	defer sub.Cancel()

	backlog, err := s.entries.Changes(ctx, userID, req.SinceVersion)
	if err != nil {
		return s.toStatus(ctx, "subscribe", err)
	}

	replayed := req.SinceVersion
	for i := range backlog {
		if err := stream.Send(&backlog[i]); err != nil {
			return err
		}
		if v := backlog[i].Entry.Version; v > replayed {
			replayed = v
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				s.logger.Warn(ctx, "subscriber dropped", "user_id", userID)
				return status.Error(codes.Unavailable, "subscription dropped")
			}
			// Live events may arrive out of version order; only drop what
			// the replay already sent.
			if ev.Entry.Version <= replayed {
				continue
			}
			if err := stream.Send(&ev); err != nil {
				return err
			}
		}
	}
}
