// Package openapi serves the API description and validates requests against it.
package openapi

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-gonic/gin"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"
)

//go:embed openapi.yaml
var specYAML []byte

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// Handler serves doc as JSON.
func Handler(doc *openapi3.T) (gin.HandlerFunc, error) {
	body, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}, nil
}

// RequestValidator rejects requests that do not match doc with 400 {"error": ...}.
// Authentication is left to the auth middleware.
func RequestValidator(doc *openapi3.T) gin.HandlerFunc {
	return ginmiddleware.OapiRequestValidatorWithOptions(doc, &ginmiddleware.Options{
		ErrorHandler: func(c *gin.Context, message string, statusCode int) {
			log.Printf("OpenAPI validator: %s %s: %s", c.Request.Method, c.Request.URL.Path, message)
			c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
		},
		Options: openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	})
}
