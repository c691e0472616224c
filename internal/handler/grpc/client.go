package grpc

import (
	"context"

	"product-resource/internal/model"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ProductClient calls ProductService over an existing connection.
type ProductClient struct {
	cc grpc.ClientConnInterface
}

func NewProductClient(cc grpc.ClientConnInterface) *ProductClient {
	return &ProductClient{cc: cc}
}

// WithSession attaches a session cookie ("name=value") to outgoing calls.
func WithSession(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "cookie", cookie)
}

func (c *ProductClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *ProductClient) List(ctx context.Context, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.invoke(ctx, ProductService_List_FullMethodName, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductClient) Get(ctx context.Context, id string, opts ...grpc.CallOption) (*model.ProductView, error) {
	out := new(model.ProductView)
	if err := c.invoke(ctx, ProductService_Get_FullMethodName, &ProductID{ID: id}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductClient) Create(ctx context.Context, in model.ProductInput, opts ...grpc.CallOption) (*model.ProductView, error) {
	out := new(model.ProductView)
	if err := c.invoke(ctx, ProductService_Create_FullMethodName, &in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductClient) Update(ctx context.Context, in UpdateRequest, opts ...grpc.CallOption) (*model.ProductView, error) {
	out := new(model.ProductView)
	if err := c.invoke(ctx, ProductService_Update_FullMethodName, &in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductClient) Delete(ctx context.Context, id string, opts ...grpc.CallOption) (*model.ProductView, error) {
	out := new(model.ProductView)
	if err := c.invoke(ctx, ProductService_Delete_FullMethodName, &ProductID{ID: id}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
