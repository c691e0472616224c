package grpc

import (
	"context"
	"net/http"

	middleware_grpc "product-resource/internal/middleware/grpc"
	"product-resource/internal/model"
	"product-resource/internal/policy"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "productresource.ProductService"

const (
	ProductService_List_FullMethodName   = "/" + ServiceName + "/List"
	ProductService_Get_FullMethodName    = "/" + ServiceName + "/Get"
	ProductService_Create_FullMethodName = "/" + ServiceName + "/Create"
	ProductService_Update_FullMethodName = "/" + ServiceName + "/Update"
	ProductService_Delete_FullMethodName = "/" + ServiceName + "/Delete"
)

type ProductID struct {
	ID string `json:"id"`
}

type UpdateRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ListResponse struct {
	Resolver string              `json:"resolver"`
	Products []model.ProductView `json:"products"`
}

type ProductServiceServer interface {
	List(context.Context, *emptypb.Empty) (*ListResponse, error)
	Get(context.Context, *ProductID) (*model.ProductView, error)
	Create(context.Context, *model.ProductInput) (*model.ProductView, error)
	Update(context.Context, *UpdateRequest) (*model.ProductView, error)
	Delete(context.Context, *ProductID) (*model.ProductView, error)
}

// ProductRoutes maps each method onto the HTTP resource and verb the access
// policy is written against.
func ProductRoutes() map[string]middleware_grpc.Route {
	return map[string]middleware_grpc.Route{
		ProductService_List_FullMethodName:   {Resource: policy.ProductsResource, Verb: http.MethodGet},
		ProductService_Get_FullMethodName:    {Resource: policy.ProductResource, Verb: http.MethodGet},
		ProductService_Create_FullMethodName: {Resource: policy.ProductsResource, Verb: http.MethodPost},
		ProductService_Update_FullMethodName: {Resource: policy.ProductResource, Verb: http.MethodPut},
		ProductService_Delete_FullMethodName: {Resource: policy.ProductResource, Verb: http.MethodDelete},
	}
}

func unaryHandler[Req any, Resp any](fullMethod string, call func(ProductServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unaryHandler(ProductService_List_FullMethodName, ProductServiceServer.List)},
		{MethodName: "Get", Handler: unaryHandler(ProductService_Get_FullMethodName, ProductServiceServer.Get)},
		{MethodName: "Create", Handler: unaryHandler(ProductService_Create_FullMethodName, ProductServiceServer.Create)},
		{MethodName: "Update", Handler: unaryHandler(ProductService_Update_FullMethodName, ProductServiceServer.Update)},
		{MethodName: "Delete", Handler: unaryHandler(ProductService_Delete_FullMethodName, ProductServiceServer.Delete)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "productresource.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}
