package main

import (
	"net/http"

	"github.com/paraiso360/paraiso360/internal/server"

	"gorm.io/gorm"
)

// NewApp builds the full application handler. The staff and admin UIs are a
// separate SPA, so the Go side is the JSON API only; kept as a seam for
// end-to-end tests and future static asset serving.
func NewApp(dbConn *gorm.DB) http.Handler {
	return server.New(dbConn)
}
