package api

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnimplementedDiaryServiceServer can be embedded to get forward-compatible
// implementations; every method returns codes.Unimplemented.
type UnimplementedDiaryServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedDiaryServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedDiaryServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedDiaryServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedDiaryServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedDiaryServiceServer) Logout(context.Context, *LogoutRequest) (*Empty, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedDiaryServiceServer) GetProfile(context.Context, *Empty) (*ProfileResponse, error) {
	return nil, unimplemented("GetProfile")
}
func (UnimplementedDiaryServiceServer) UpdateSettings(context.Context, *UpdateSettingsRequest) (*ProfileResponse, error) {
	return nil, unimplemented("UpdateSettings")
}
func (UnimplementedDiaryServiceServer) ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error) {
	return nil, unimplemented("ListEntries")
}
func (UnimplementedDiaryServiceServer) GetEntry(context.Context, *GetEntryRequest) (*EntryResponse, error) {
	return nil, unimplemented("GetEntry")
}
func (UnimplementedDiaryServiceServer) CreateEntry(context.Context, *CreateEntryRequest) (*EntryResponse, error) {
	return nil, unimplemented("CreateEntry")
}
func (UnimplementedDiaryServiceServer) UpdateEntry(context.Context, *UpdateEntryRequest) (*EntryResponse, error) {
	return nil, unimplemented("UpdateEntry")
}
func (UnimplementedDiaryServiceServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error) {
	return nil, unimplemented("DeleteEntry")
}
func (UnimplementedDiaryServiceServer) ArchiveEntries(context.Context, *Empty) (*ArchiveResponse, error) {
	return nil, unimplemented("ArchiveEntries")
}
func (UnimplementedDiaryServiceServer) Subscribe(*SubscribeRequest, SubscribeServer) error {
	return unimplemented("Subscribe")
}
