// Mockendpoint is a simple test HTTP server used for exercising endpoint
// races by hand. It serves a fixed JSON body after an artificial delay.
//
// Usage:
//
//	go run mockendpoint.go -port 8081 -delay 50ms
//	go run mockendpoint.go -port 8082 -delay 200ms -body '{"id":2}'
//	go run mockendpoint.go -port 8083 -status 500
//
// Start a few of these on different ports with different delays and point
// the racer's endpoint list at them.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	var (
		port   = flag.Int("port", 8081, "Port to listen on")
		delay  = flag.Duration("delay", 0, "Artificial delay before responding")
		body   = flag.String("body", `{"id":1,"name":"manifest"}`, "Response body")
		status = flag.Int("status", http.StatusOK, "Response status code")
	)
	flag.Parse()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		if *delay > 0 {
			time.Sleep(*delay)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(*status)
		fmt.Fprint(w, *body)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock endpoint listening on %s (delay=%s status=%d)", addr, *delay, *status)
	log.Fatal(http.ListenAndServe(addr, nil))
}
