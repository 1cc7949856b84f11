package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"shiori/internal/platform/epubmeta"
)

const (
	PluginMapKey          = "shiori-backend"
	serviceName           = "shiori.backend.v1.Backend"
	jsonCodecName         = "json"
	methodGetInfo         = "/" + serviceName + "/GetInfo"
	methodDetectDirection = "/" + serviceName + "/DetectDirection"
	methodScanBooks       = "/" + serviceName + "/ScanBooks"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHIORI_BACKEND",
	MagicCookieValue: "shiori",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type DetectDirectionRequest struct {
	Path string `json:"path"`
}

// DetectDirectionResponse carries "ltr", "rtl" or "" when the book gives no hint.
type DetectDirectionResponse struct {
	Direction string `json:"direction"`
}

type ScanBooksRequest struct {
	Paths []string `json:"paths"`
}

type BookRecord struct {
	Path      string `json:"path"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Direction string `json:"direction"`
	CoverURL  string `json:"cover_data_url,omitempty"`
}

// RecordFromInfo converts scanned EPUB metadata to its wire form.
func RecordFromInfo(info epubmeta.Info) BookRecord {
	return BookRecord{
		Path:      info.Path,
		Title:     info.Title,
		Author:    info.Author,
		Language:  info.Language,
		Direction: info.Direction,
		CoverURL:  info.CoverURL,
	}
}

type ScanBooksResponse struct {
	Books []BookRecord `json:"books"`
}

type BackendServer interface {
	GetInfo(ctx context.Context, in *Empty) (*Info, error)
	DetectDirection(ctx context.Context, in *DetectDirectionRequest) (*DetectDirectionResponse, error)
	ScanBooks(ctx context.Context, in *ScanBooksRequest) (*ScanBooksResponse, error)
}

type BackendClient interface {
	GetInfo(ctx context.Context) (*Info, error)
	DetectDirection(ctx context.Context, in *DetectDirectionRequest) (*DetectDirectionResponse, error)
	ScanBooks(ctx context.Context, in *ScanBooksRequest) (*ScanBooksResponse, error)
}

type backendClient struct {
	conn *grpc.ClientConn
}

func NewBackendClient(conn *grpc.ClientConn) BackendClient {
	return &backendClient{conn: conn}
}

func (c *backendClient) GetInfo(ctx context.Context) (*Info, error) {
	out := &Info{}
	if err := c.conn.Invoke(ctx, methodGetInfo, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backendClient) DetectDirection(ctx context.Context, in *DetectDirectionRequest) (*DetectDirectionResponse, error) {
	out := &DetectDirectionResponse{}
	if err := c.conn.Invoke(ctx, methodDetectDirection, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backendClient) ScanBooks(ctx context.Context, in *ScanBooksRequest) (*ScanBooksResponse, error) {
	out := &ScanBooksResponse{}
	if err := c.conn.Invoke(ctx, methodScanBooks, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterBackendServer(server grpc.ServiceRegistrar, impl BackendServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*BackendServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetInfo",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetInfo(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetInfo}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetInfo(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "DetectDirection",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &DetectDirectionRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.DetectDirection(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDetectDirection}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*DetectDirectionRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.DetectDirection(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ScanBooks",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ScanBooksRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ScanBooks(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodScanBooks}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*ScanBooksRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ScanBooks(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/backend-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl BackendServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterBackendServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewBackendClient(conn), nil
}

func PluginMap(impl BackendServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
