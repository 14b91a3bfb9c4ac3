package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"inventra/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// A nil db or rdb is reported as "disabled" (memory store, no redis) and does
// not fail the check. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if db != nil {
			dbStatus = "connected"
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}

// JobsHandler lets admins inspect the email dead letter queue.
type JobsHandler struct{ rdb *redis.Client }

func NewJobsHandler(rdb *redis.Client) *JobsHandler { return &JobsHandler{rdb: rdb} }

func (h *JobsHandler) DeadLetters(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	if h.rdb == nil {
		respond(c, http.StatusOK, gin.H{"queue": worker.QueueEmail, "length": 0, "entries": []worker.DLQEntry{}})
		return
	}
	ctx := c.Request.Context()
	length, err := worker.DLQLength(ctx, h.rdb, worker.QueueEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	entries, err := worker.PeekDLQ(ctx, h.rdb, worker.QueueEmail, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"queue": worker.QueueEmail, "length": length, "entries": entries})
}
