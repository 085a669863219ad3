package server

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/export"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
)

const OrdersServiceName = "labels.v1.OrdersService"

// OrdersServer is the gRPC surface of the label tracker. Payloads are protobuf
// well-known types so no generated code is needed on either side.
type OrdersServer interface {
	// ExtractText runs the field extractor over label text.
	ExtractText(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ExtractDocument extracts a PDF (or plain text) document: {record, report, text, ...}.
	ExtractDocument(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	// SaveOrder validates and stores a record, returning the new row id.
	SaveOrder(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	// ListOrders returns every saved order, newest first.
	ListOrders(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// ExportOrders returns the saved orders as an XLSX workbook.
	ExportOrders(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

var OrdersServiceDesc = grpc.ServiceDesc{
	ServiceName: OrdersServiceName,
	HandlerType: (*OrdersServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ExtractText",
			Handler: unaryHandler("ExtractText", func(s OrdersServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
				return s.ExtractText(ctx, in)
			}),
		},
		{
			MethodName: "ExtractDocument",
			Handler: unaryHandler("ExtractDocument", func(s OrdersServer, ctx context.Context, in *wrapperspb.BytesValue) (any, error) {
				return s.ExtractDocument(ctx, in)
			}),
		},
		{
			MethodName: "SaveOrder",
			Handler: unaryHandler("SaveOrder", func(s OrdersServer, ctx context.Context, in *structpb.Struct) (any, error) {
				return s.SaveOrder(ctx, in)
			}),
		},
		{
			MethodName: "ListOrders",
			Handler: unaryHandler("ListOrders", func(s OrdersServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.ListOrders(ctx, in)
			}),
		},
		{
			MethodName: "ExportOrders",
			Handler: unaryHandler("ExportOrders", func(s OrdersServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.ExportOrders(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "labels/v1/orders.proto",
}

func RegisterOrdersServer(s grpc.ServiceRegistrar, srv OrdersServer) {
	s.RegisterService(&OrdersServiceDesc, srv)
}

func unaryHandler[Req any, PReq interface{ *Req }](method string, call func(OrdersServer, context.Context, PReq) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrdersServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + OrdersServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrdersServer), ctx, req.(PReq))
		})
	}
}

type OrdersService struct {
	proc     *processor.Processor
	exporter *export.Service
	logger   *slog.Logger
}

func NewOrdersService(proc *processor.Processor, exporter *export.Service, logger *slog.Logger) *OrdersService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersService{proc: proc, exporter: exporter, logger: logger}
}

func (s *OrdersService) ExtractText(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	res := s.proc.ProcessText(ctx, in.GetValue())
	out, err := structpb.NewStruct(recordMap(res.Record))
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	return out, nil
}

func (s *OrdersService) ExtractDocument(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	data := in.GetValue()
	if len(data) == 0 {
		return nil, common.InvalidArgumentError("document is empty")
	}
	res, err := s.proc.ProcessBytes(ctx, documentName(data), data)
	if err != nil {
		s.logger.ErrorContext(ctx, "grpc.extract_document.failed", "bytes", len(data), "err", err)
		return nil, common.GRPCStatus(err)
	}
	out, err := structpb.NewStruct(resultMap(res))
	if err != nil {
		return nil, common.InternalErrorf("encode result: %v", err)
	}
	return out, nil
}

func (s *OrdersService) SaveOrder(ctx context.Context, in *structpb.Struct) (*wrapperspb.Int64Value, error) {
	rec, err := recordFromStruct(in)
	if err != nil {
		return nil, common.GRPCStatus(err)
	}
	order, err := s.proc.Save(ctx, rec)
	if err != nil {
		return nil, common.GRPCStatus(err)
	}
	return wrapperspb.Int64(order.ID), nil
}

func (s *OrdersService) ListOrders(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	orders, err := s.proc.List(ctx)
	if err != nil {
		return nil, common.GRPCStatus(err)
	}
	items := make([]any, 0, len(orders))
	for _, o := range orders {
		items = append(items, orderMap(o))
	}
	out, err := structpb.NewList(items)
	if err != nil {
		return nil, common.InternalErrorf("encode orders: %v", err)
	}
	return out, nil
}

func (s *OrdersService) ExportOrders(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	data, err := s.exporter.ExportOrdersXLSX(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "export.xlsx.failed", "err", err)
		return nil, common.GRPCStatus(err)
	}
	return wrapperspb.Bytes(data), nil
}

// documentName picks the extension the extractor should treat data as.
func documentName(data []byte) string {
	if bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		return "document.pdf"
	}
	return "document.txt"
}

// UnaryLoggingInterceptor tags each call with a request id and logs its outcome.
func UnaryLoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx, id := common.EnsureRequestID(ctx)
		resp, err := handler(ctx, req)
		code := status.Code(err)
		attrs := []any{
			"request_id", id,
			"method", info.FullMethod,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			logger.Warn("grpc.request", append(attrs, "error", err)...)
		} else {
			logger.Info("grpc.request", attrs...)
		}
		return resp, err
	}
}
