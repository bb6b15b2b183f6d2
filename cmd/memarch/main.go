package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/memarch/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("❌ memarch failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ memarch stopped with error: %v", err)
	}
}
