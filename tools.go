//go:build tools

package tools

// Dependencias de herramientas de desarrollo (swag genera docs/swagger.json).
import (
	_ "github.com/swaggo/swag"
)
