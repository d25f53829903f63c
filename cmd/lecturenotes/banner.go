package main

import (
	"context"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

func printBanner(ctx context.Context, log logger.Logger, title string, lines ...string) {
	log.Info(ctx, "========================================")
	log.Info(ctx, "%s", title)
	log.Info(ctx, "========================================")
	for _, line := range lines {
		log.Info(ctx, "%s", line)
	}
	log.Info(ctx, "========================================")
}
