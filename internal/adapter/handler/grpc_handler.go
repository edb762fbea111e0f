package handler

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/rl1809/prize-roulette/internal/core/service"
)

// Messages travel as JSON; clients must call with
// grpc.CallContentSubtype(JSONCodecName).
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return JSONCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type SpinRequest struct {
	ParticipantID string `json:"participant_id"`
}

type SpinResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  *SpinResult `json:"result,omitempty"`
}

type ListPrizesRequest struct{}

type ListPrizesResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Prizes  []PrizeView `json:"prizes"`
}

type RouletteServer interface {
	Spin(context.Context, *SpinRequest) (*SpinResponse, error)
	ListPrizes(context.Context, *ListPrizesRequest) (*ListPrizesResponse, error)
}

func RegisterRouletteServer(s grpc.ServiceRegistrar, srv RouletteServer) {
	s.RegisterService(&rouletteServiceDesc, srv)
}

var rouletteServiceDesc = grpc.ServiceDesc{
	ServiceName: "roulette.v1.Roulette",
	HandlerType: (*RouletteServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Spin", Handler: spinHandler},
		{MethodName: "ListPrizes", Handler: listPrizesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roulette/v1/roulette.proto",
}

func spinHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SpinRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouletteServer).Spin(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/roulette.v1.Roulette/Spin"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouletteServer).Spin(ctx, req.(*SpinRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listPrizesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListPrizesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouletteServer).ListPrizes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/roulette.v1.Roulette/ListPrizes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouletteServer).ListPrizes(ctx, req.(*ListPrizesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RouletteClient calls the roulette service over a JSON-coded connection.
type RouletteClient struct {
	cc grpc.ClientConnInterface
}

func NewRouletteClient(cc grpc.ClientConnInterface) *RouletteClient {
	return &RouletteClient{cc: cc}
}

func (c *RouletteClient) Spin(ctx context.Context, in *SpinRequest, opts ...grpc.CallOption) (*SpinResponse, error) {
	out := new(SpinResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/roulette.v1.Roulette/Spin", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RouletteClient) ListPrizes(ctx context.Context, in *ListPrizesRequest, opts ...grpc.CallOption) (*ListPrizesResponse, error) {
	out := new(ListPrizesResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/roulette.v1.Roulette/ListPrizes", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type GRPCHandler struct {
	roulette *service.RouletteService
}

func NewGRPCHandler(roulette *service.RouletteService) *GRPCHandler {
	return &GRPCHandler{roulette: roulette}
}

func (h *GRPCHandler) Spin(ctx context.Context, req *SpinRequest) (*SpinResponse, error) {
	result, err := h.roulette.Spin(ctx, req.ParticipantID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySpun) {
			return &SpinResponse{
				Success: false,
				Message: "already spun",
			}, nil
		}
		if errors.Is(err, service.ErrParticipantIDRequired) {
			return &SpinResponse{
				Success: false,
				Message: "participant_id is required",
			}, nil
		}
		if errors.Is(err, service.ErrStockUnavailable) {
			return &SpinResponse{
				Success: false,
				Message: "stock store unavailable",
			}, nil
		}
		return &SpinResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	return &SpinResponse{
		Success: true,
		Message: "spin completed",
		Result:  toSpinResult(result),
	}, nil
}

func (h *GRPCHandler) ListPrizes(ctx context.Context, req *ListPrizesRequest) (*ListPrizesResponse, error) {
	prizes, err := h.roulette.Prizes(ctx)
	if err != nil {
		_, message := spinErrorStatus(err)
		return &ListPrizesResponse{
			Success: false,
			Message: message,
		}, nil
	}

	out := make([]PrizeView, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, toPrizeResponse(p))
	}
	return &ListPrizesResponse{
		Success: true,
		Message: "ok",
		Prizes:  out,
	}, nil
}
