// Package view holds the client-side controllers for the products screens,
// their routing states and menu entries. Navigation, notification and event
// broadcasting are injected; nothing here is process-global.
package view

import (
	"context"
	"errors"

	"product-resource/internal/client"
	"product-resource/internal/client/products"
)

const (
	// EventShowErrors asks the form to display its validation state.
	EventShowErrors = "show-errors-check-validity"
	ProductFormName = "vm.form.productForm"

	MsgSaved       = "Product saved successfully!"
	MsgDeleted     = "Product deleted successfully!"
	TitleSaveError = "Product save error!"
	TitleDelError  = "Product delete error!"
)

type Params map[string]string

type Navigator interface {
	Go(ctx context.Context, state string, params Params) error
}

type Notifier interface {
	Success(msg string)
	Error(title, msg string)
}

type Broadcaster interface {
	Broadcast(event string, arg any)
}

// serverMessage is the text shown to the user for a failed call.
func serverMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

type ListController struct {
	resource products.ProductResource
	Products []products.Product
}

func NewListController(resource products.ProductResource) *ListController {
	return &ListController{resource: resource}
}

// Activate loads the list as returned by the server.
func (c *ListController) Activate(ctx context.Context) error {
	list, err := c.resource.Query(ctx)
	if err != nil {
		return err
	}
	c.Products = list
	return nil
}

type DetailController struct {
	Product *products.Product
	User    *products.User
}

func NewDetailController(product *products.Product, user *products.User) *DetailController {
	return &DetailController{Product: product, User: user}
}

// AdminController backs both the create and the edit screen. Product is a
// blank instance for create.
type AdminController struct {
	Product *products.Product

	resource products.ProductResource
	nav      Navigator
	notify   Notifier
	bus      Broadcaster

	confirmingRemove bool
}

func NewAdminController(product *products.Product, resource products.ProductResource, nav Navigator, notify Notifier, bus Broadcaster) *AdminController {
	return &AdminController{
		Product:  product,
		resource: resource,
		nav:      nav,
		notify:   notify,
		bus:      bus,
	}
}

// Save does nothing but broadcast EventShowErrors when the form is invalid.
// Otherwise it creates or updates the product and returns to the admin list.
func (c *AdminController) Save(ctx context.Context, formValid bool) error {
	if !formValid {
		c.bus.Broadcast(EventShowErrors, ProductFormName)
		return nil
	}

	if err := c.resource.CreateOrUpdate(ctx, c.Product); err != nil {
		c.notify.Error(TitleSaveError, serverMessage(err))
		return err
	}
	if err := c.nav.Go(ctx, StateAdminList, nil); err != nil {
		return err
	}
	c.notify.Success(MsgSaved)
	return nil
}

// RequestRemove asks for confirmation; no request is made yet.
func (c *AdminController) RequestRemove() {
	c.confirmingRemove = true
}

func (c *AdminController) CancelRemove() {
	c.confirmingRemove = false
}

func (c *AdminController) ConfirmingRemove() bool {
	return c.confirmingRemove
}

// ConfirmRemove deletes the product if removal was requested first.
func (c *AdminController) ConfirmRemove(ctx context.Context) error {
	if !c.confirmingRemove {
		return nil
	}
	c.confirmingRemove = false

	if err := c.resource.Remove(ctx, c.Product); err != nil {
		c.notify.Error(TitleDelError, serverMessage(err))
		return err
	}
	if err := c.nav.Go(ctx, StateAdminList, nil); err != nil {
		return err
	}
	c.notify.Success(MsgDeleted)
	return nil
}
