// Package storage provides the data persistence layer for the purchase tracker.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seanloh/purchase-tracker/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidPurchase  = errors.New("invalid purchase")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePurchase validates a single purchase before insertion.
func validatePurchase(p *model.Purchase) error {
	if p == nil {
		return fmt.Errorf("%w: purchase", ErrNilParameter)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidPurchase)
	}
	if p.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidPurchase)
	}
	if p.UnitPriceCNY.IsNegative() || p.UnitPriceSGD.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrInvalidPurchase)
	}
	if !p.ConversionRate.IsPositive() {
		return fmt.Errorf("%w: conversion rate must be positive", ErrInvalidPurchase)
	}
	return nil
}
