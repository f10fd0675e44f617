package main

import (
	"fmt"
	"os"

	"github.com/vigiahub/assistant-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Log.Fatal("HTTP server exited", "error", err)
	}
}
