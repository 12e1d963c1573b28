package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// PrintRoutes walks through all routes registered in the router and
// writes them to w, one "METHOD\tPATH" line per route
func PrintRoutes(w io.Writer, r *mux.Router) error {
	fmt.Fprintln(w, "=== Registered Routes ===")
	fmt.Fprintln(w, "METHOD\tPATH")
	fmt.Fprintln(w, "-------------------------------")

	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil // Skip routes without templates
		}

		// Subrouter prefixes carry no handler
		if route.GetHandler() == nil {
			return nil
		}

		// If no methods are specified, assume all methods
		methodStr := "ANY"
		if methods, err := route.GetMethods(); err == nil && len(methods) > 0 {
			methodStr = strings.Join(methods, ",")
		}

		_, err = fmt.Fprintf(w, "%s\t%s\n", methodStr, pathTemplate)
		return err
	})
	fmt.Fprintln(w, "==============================")
	return err
}

// PrintRoutesHandler returns a handler function to print all routes
func PrintRoutesHandler(router *mux.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		PrintRoutes(w, router)
	}
}
