package service

import "errors"

// Sentinel errors the handlers map onto HTTP statuses with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateSKU     = errors.New("duplicate SKU not allowed")
	ErrSKUImmutable     = errors.New("SKU cannot be changed after creation")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrMaterialNotFound = errors.New("material not found")
)
