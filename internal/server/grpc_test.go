package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func method(name string) string { return "/" + OrdersServiceName + "/" + name }

func startGRPC(t *testing.T, deps testDeps) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(UnaryLoggingInterceptor(nil)))
	RegisterOrdersServer(s, NewOrdersService(deps.proc, deps.exporter, nil))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPC_ExtractText(t *testing.T) {
	conn := startGRPC(t, newTestDeps(t))

	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), method("ExtractText"), wrapperspb.String(sampleLabel), out)
	require.NoError(t, err)
	m := out.AsMap()
	assert.Equal(t, "Jane Doe", m["name"])
	assert.Equal(t, "600011", m["pincode"])
	assert.Equal(t, "Rs 499", m["price"])
	assert.Len(t, m, 9)
}

func TestGRPC_ExtractDocument(t *testing.T) {
	conn := startGRPC(t, newTestDeps(t))
	ctx := context.Background()

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(ctx, method("ExtractDocument"), wrapperspb.Bytes([]byte(sampleLabel)), out))
	m := out.AsMap()
	assert.Equal(t, sampleLabel, m["text"])
	assert.Equal(t, "A_1", m["record"].(map[string]any)["order_no"])
	assert.Equal(t, "MATCHED", m["report"].(map[string]any)["order_no"])

	err := conn.Invoke(ctx, method("ExtractDocument"), wrapperspb.Bytes([]byte("%PDF-1.7 garbage")), out)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	err = conn.Invoke(ctx, method("ExtractDocument"), wrapperspb.Bytes(nil), out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_SaveListExport(t *testing.T) {
	conn := startGRPC(t, newTestDeps(t))
	ctx := context.Background()

	rec, err := structpb.NewStruct(map[string]any{"name": "Jane", "order_no": "A1"})
	require.NoError(t, err)

	id1, id2 := new(wrapperspb.Int64Value), new(wrapperspb.Int64Value)
	require.NoError(t, conn.Invoke(ctx, method("SaveOrder"), rec, id1))
	require.NoError(t, conn.Invoke(ctx, method("SaveOrder"), rec, id2))
	assert.NotEqual(t, id1.GetValue(), id2.GetValue())

	list := new(structpb.ListValue)
	require.NoError(t, conn.Invoke(ctx, method("ListOrders"), &emptypb.Empty{}, list))
	items := list.AsSlice()
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, id2.GetValue(), first["id"])
	assert.Equal(t, "A1", first["order_no"])

	xlsx := new(wrapperspb.BytesValue)
	require.NoError(t, conn.Invoke(ctx, method("ExportOrders"), &emptypb.Empty{}, xlsx))
	assert.NotEmpty(t, xlsx.GetValue())
}

func TestGRPC_SaveOrderRejectsInvalidRecord(t *testing.T) {
	conn := startGRPC(t, newTestDeps(t))

	bad, err := structpb.NewStruct(map[string]any{"pincode": "12"})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), method("SaveOrder"), bad, new(wrapperspb.Int64Value))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	numeric, err := structpb.NewStruct(map[string]any{"price": 499})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), method("SaveOrder"), numeric, new(wrapperspb.Int64Value))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_Health(t *testing.T) {
	conn := startGRPC(t, newTestDeps(t))
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestDocumentName(t *testing.T) {
	assert.Equal(t, "document.pdf", documentName([]byte("%PDF-1.4\n")))
	assert.Equal(t, "document.pdf", documentName([]byte("\n %PDF-1.4")))
	assert.Equal(t, "document.txt", documentName([]byte("Customer Address")))
}
