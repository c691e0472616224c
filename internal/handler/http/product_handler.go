package http

import (
	"context"
	"net/http"

	"product-resource/internal/auth"
	"product-resource/internal/model"
	"product-resource/internal/service"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
)

type ProductHandler struct {
	service *service.ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

type productCtxKey struct{}

// ProductFrom returns the product loaded by ProductByID.
func ProductFrom(ctx context.Context) *model.Product {
	p, _ := ctx.Value(productCtxKey{}).(*model.Product)
	return p
}

// ProductByID resolves the {productId} path variable before next runs. It
// answers 400 for malformed ids and 404 for unknown ones.
func (h *ProductHandler) ProductByID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.ProductByID")
		defer span.End()

		p, err := h.service.Resolve(ctx, mux.Vars(r)["productId"])
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), productCtxKey{}, p)))
	})
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.List")
	defer span.End()

	products, err := h.service.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	views := make([]model.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()

	var in model.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := h.service.Create(ctx, in, auth.UserFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, created.View())
}

func (h *ProductHandler) Read(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Read")
	defer span.End()

	writeJSON(w, http.StatusOK, h.service.Read(ProductFrom(ctx), auth.UserFrom(ctx)))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Update")
	defer span.End()

	var in model.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.service.Update(ctx, ProductFrom(ctx), in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.View())
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()

	deleted, err := h.service.Delete(ctx, ProductFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted.View())
}
