package api

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/domain"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "moodiary.DiaryService"

// FullMethod returns "/moodiary.DiaryService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// DiaryServiceServer is the server API for the diary service.
type DiaryServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
	UpdateSettings(context.Context, *UpdateSettingsRequest) (*ProfileResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	GetEntry(context.Context, *GetEntryRequest) (*EntryResponse, error)
	CreateEntry(context.Context, *CreateEntryRequest) (*EntryResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*EntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
	ArchiveEntries(context.Context, *Empty) (*ArchiveResponse, error)
	Subscribe(*SubscribeRequest, SubscribeServer) error
}

// SubscribeServer is the server side of the Subscribe stream.
type SubscribeServer interface {
	Send(*domain.ChangeEvent) error
	grpc.ServerStream
}

type subscribeServer struct {
	grpc.ServerStream
}

func (s *subscribeServer) Send(ev *domain.ChangeEvent) error {
	return s.ServerStream.SendMsg(ev)
}

func unaryMethod[Req, Resp any](name string, call func(DiaryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DiaryServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DiaryServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(SubscribeRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DiaryServiceServer).Subscribe(in, &subscribeServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for the diary service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiaryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Ping", DiaryServiceServer.Ping),
		unaryMethod("Register", DiaryServiceServer.Register),
		unaryMethod("Login", DiaryServiceServer.Login),
		unaryMethod("RefreshToken", DiaryServiceServer.RefreshToken),
		unaryMethod("Logout", DiaryServiceServer.Logout),
		unaryMethod("GetProfile", DiaryServiceServer.GetProfile),
		unaryMethod("UpdateSettings", DiaryServiceServer.UpdateSettings),
		unaryMethod("ListEntries", DiaryServiceServer.ListEntries),
		unaryMethod("GetEntry", DiaryServiceServer.GetEntry),
		unaryMethod("CreateEntry", DiaryServiceServer.CreateEntry),
		unaryMethod("UpdateEntry", DiaryServiceServer.UpdateEntry),
		unaryMethod("DeleteEntry", DiaryServiceServer.DeleteEntry),
		unaryMethod("ArchiveEntries", DiaryServiceServer.ArchiveEntries),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/moodiary.proto",
}

// RegisterDiaryServiceServer registers srv on s.
func RegisterDiaryServiceServer(s grpc.ServiceRegistrar, srv DiaryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// DiaryServiceClient is the client API for the diary service.
type DiaryServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error)
	GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileResponse, error)
	UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error)
	GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error)
	CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error)
	UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error)
	ArchiveEntries(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ArchiveResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (SubscribeClient, error)
}

// SubscribeClient is the client side of the Subscribe stream.
type SubscribeClient interface {
	Recv() (*domain.ChangeEvent, error)
	grpc.ClientStream
}

type diaryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDiaryServiceClient(cc grpc.ClientConnInterface) DiaryServiceClient {
	return &diaryServiceClient{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diaryServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *diaryServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[RegisterRequest, AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *diaryServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[LoginRequest, AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *diaryServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenRequest, RefreshTokenResponse](ctx, c.cc, "RefreshToken", in, opts)
}

func (c *diaryServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[LogoutRequest, Empty](ctx, c.cc, "Logout", in, opts)
}

func (c *diaryServiceClient) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[Empty, ProfileResponse](ctx, c.cc, "GetProfile", in, opts)
}

func (c *diaryServiceClient) UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[UpdateSettingsRequest, ProfileResponse](ctx, c.cc, "UpdateSettings", in, opts)
}

func (c *diaryServiceClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesRequest, ListEntriesResponse](ctx, c.cc, "ListEntries", in, opts)
}

func (c *diaryServiceClient) GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error) {
	return invoke[GetEntryRequest, EntryResponse](ctx, c.cc, "GetEntry", in, opts)
}

func (c *diaryServiceClient) CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error) {
	return invoke[CreateEntryRequest, EntryResponse](ctx, c.cc, "CreateEntry", in, opts)
}

func (c *diaryServiceClient) UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*EntryResponse, error) {
	return invoke[UpdateEntryRequest, EntryResponse](ctx, c.cc, "UpdateEntry", in, opts)
}

func (c *diaryServiceClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error) {
	return invoke[DeleteEntryRequest, DeleteEntryResponse](ctx, c.cc, "DeleteEntry", in, opts)
}

func (c *diaryServiceClient) ArchiveEntries(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ArchiveResponse, error) {
	return invoke[Empty, ArchiveResponse](ctx, c.cc, "ArchiveEntries", in, opts)
}

func (c *diaryServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod("Subscribe"), withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &subscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type subscribeClient struct {
	grpc.ClientStream
}

func (x *subscribeClient) Recv() (*domain.ChangeEvent, error) {
	m := new(domain.ChangeEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
