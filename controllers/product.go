package controllers

import (
	"net/http"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/schemas"
	"go-ecommerce-api/services"
)

// ProductController handles product-related requests
type ProductController struct {
	products *services.ProductService
}

// NewProductController creates a new ProductController
func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// CreateProduct adds a new product (admin)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req schemas.CreateProductRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	product, err := pc.products.CreateProduct(ctx, req.Product())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, product)
}

// GetProducts returns a page of products and the total count (admin)
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()
	products, count, err := pc.products.ListProducts(ctx, schemas.ParsePage(r.URL.Query()))
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"count": count, "data": products})
}

// SearchProducts matches ?q= against name, description and tags
func (pc *ProductController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := withTimeout(r)
	defer cancel()
	products, count, err := pc.products.SearchProducts(ctx, q.Get("q"), schemas.ParsePage(q))
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"count": count, "data": products})
}

// GetProductByID returns a single product by its ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.ProductNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	product, err := pc.products.GetProduct(ctx, id)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, product)
}

// UpdateProduct changes an existing product (admin)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.ProductNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.UpdateProductRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	product, err := pc.products.UpdateProduct(ctx, id, req.Changes())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, product)
}

// DeleteProduct removes a product (admin)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.ProductNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	if err := pc.products.DeleteProduct(ctx, id); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, message{"Product deleted"})
}
