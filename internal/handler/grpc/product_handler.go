package grpc

import (
	"context"
	"errors"
	"log/slog"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/model"
	"product-resource/internal/service"
	"product-resource/internal/utils"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
)

type ProductGRPCHandler struct {
	Service *service.ProductService
}

var GrpcProductHandlerTracer = otel.Tracer("GrpcProductHandler")

func NewProductGRPCHandler(svc *service.ProductService) *ProductGRPCHandler {
	return &ProductGRPCHandler{
		Service: svc,
	}
}

// toStatus maps service errors onto gRPC codes, keeping the user-facing
// message. Anything unexpected is logged and reported without detail.
func toStatus(ctx context.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Message)
	case errors.Is(err, service.ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		logger.Error(ctx, "gRPC call failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "Internal server error")
	}
}

func (h *ProductGRPCHandler) List(ctx context.Context, _ *emptypb.Empty) (*ListResponse, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.List")
	defer span.End()

	products, err := h.Service.List(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	views := make([]model.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].View())
	}
	return &ListResponse{Resolver: utils.Hostname(), Products: views}, nil
}

func (h *ProductGRPCHandler) Get(ctx context.Context, req *ProductID) (*model.ProductView, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Get")
	defer span.End()

	p, err := h.Service.Resolve(ctx, req.ID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	view := h.Service.Read(p, auth.UserFrom(ctx))
	return &view, nil
}

func (h *ProductGRPCHandler) Create(ctx context.Context, req *model.ProductInput) (*model.ProductView, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Create")
	defer span.End()

	created, err := h.Service.Create(ctx, *req, auth.UserFrom(ctx))
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	view := created.View()
	return &view, nil
}

func (h *ProductGRPCHandler) Update(ctx context.Context, req *UpdateRequest) (*model.ProductView, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Update")
	defer span.End()

	p, err := h.Service.Resolve(ctx, req.ID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	updated, err := h.Service.Update(ctx, p, model.ProductInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	view := updated.View()
	return &view, nil
}

func (h *ProductGRPCHandler) Delete(ctx context.Context, req *ProductID) (*model.ProductView, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Delete")
	defer span.End()

	p, err := h.Service.Resolve(ctx, req.ID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	deleted, err := h.Service.Delete(ctx, p)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	view := deleted.View()
	return &view, nil
}
