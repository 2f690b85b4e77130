// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/toikana/marketplace/internal/platform/constants"
)

// OriginPolicy decides which browser origins may call the API.
type OriginPolicy interface {
	IsDevelopment() bool
	OriginSuffix() string
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Methods":     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":     "Accept, Accept-Language, Content-Type, Authorization, X-Request-ID, X-Refresh-Token",
	"Access-Control-Expose-Headers":    "Content-Language, X-Request-ID",
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Max-Age":           "300",
}

// CORS admits any origin in development and origins ending in the configured
// suffix otherwise. Preflight requests stop here with 204.
func CORS(policy OriginPolicy) func(http.Handler) http.Handler {
	allowed := func(origin string) bool {
		if policy.IsDevelopment() {
			return true
		}
		suffix := policy.OriginSuffix()
		return suffix != "" && strings.HasSuffix(origin, suffix)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if allowed(origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Add("Vary", constants.HeaderOrigin)
				for name, value := range corsHeaders {
					header.Set(name, value)
				}
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
