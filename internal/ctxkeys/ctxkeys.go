// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// Claims is the context key for the verified session claims.
type Claims struct{}
