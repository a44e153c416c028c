// Command seed populates both backends with sample data: a small set of
// named projects, or a bulk batch of randomized items for performance
// experiments.
package main

import (
	"context"
	"log"
	"os"
	"strconv"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed projects | seed items [count]")
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "projects":
		RunSeedProjects(ctx)
	case "items":
		count := 2000
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n <= 0 {
				log.Fatalf("invalid count: %s", os.Args[2])
			}
			count = n
		}
		RunSeedItems(ctx, count)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
