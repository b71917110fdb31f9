package http

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/pkg/logger"
)

// HeaderIdempotencyKey names the client-chosen retry key.
const HeaderIdempotencyKey = "Idempotency-Key"

// IdempotencyStore is what the middleware needs from redis; *redis.Store satisfies it.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	IdempotencyKey(scope, id string) string
}

// idempotencyPendingTTL bounds how long a crashed request can hold its key.
const idempotencyPendingTTL = time.Minute

type idempotencyRecord struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a request repeats its
// Idempotency-Key with the same body, and answers 409 when the body differs.
// The key is reserved before the handler runs, so a duplicate that arrives
// while the first request is still in flight gets 409 IDEMPOTENCY_IN_PROGRESS
// instead of committing twice. Requests without the header, or with a nil
// store, pass through. 5xx responses release the key so the client can retry.
func Idempotency(store IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	unavailable := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "idempotency store unavailable", Code: "IDEMPOTENCY_UNAVAILABLE"})
	}
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if store == nil || id == "" {
			return c.Next()
		}
		ctx := c.Context()
		hash := hashBody(c.Body())
		scope := strings.Join([]string{strconv.FormatInt(GetUserID(c), 10), c.Method(), c.Path()}, "|")
		key := store.IdempotencyKey(scope, id)

		pending, _ := json.Marshal(idempotencyRecord{Pending: true, RequestHash: hash})
		reserved, err := store.SetNX(ctx, key, string(pending), min(ttl, idempotencyPendingTTL))
		if err != nil {
			log.Error().Err(err).Msg("reserve idempotency key")
			return unavailable(c)
		}
		if !reserved {
			stored, err := store.Get(ctx, key)
			if err != nil {
				log.Error().Err(err).Msg("check idempotency")
				return unavailable(c)
			}
			if stored == "" {
				// Expired between SETNX and GET; the client may retry.
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "request with this idempotency key is in progress", Code: "IDEMPOTENCY_IN_PROGRESS"})
			}
			var rec idempotencyRecord
			if err := json.Unmarshal([]byte(stored), &rec); err != nil {
				log.Error().Err(err).Msg("decode idempotency record")
				return unavailable(c)
			}
			if rec.RequestHash != hash {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "idempotency key reused with different request body", Code: "IDEMPOTENCY_CONFLICT"})
			}
			if rec.Pending {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "request with this idempotency key is in progress", Code: "IDEMPOTENCY_IN_PROGRESS"})
			}
			body, _ := base64.StdEncoding.DecodeString(rec.Body)
			if rec.ContentType != "" {
				c.Set(fiber.HeaderContentType, rec.ContentType)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(rec.Status).Send(body)
		}

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = store.Del(ctx, key)
				return herr
			}
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Del(ctx, key); err != nil {
				log.Error().Err(err).Msg("release idempotency key")
			}
			return nil
		}
		payload, err := json.Marshal(idempotencyRecord{
			Status:      status,
			Body:        base64.StdEncoding.EncodeToString(c.Response().Body()),
			ContentType: string(c.Response().Header.ContentType()),
			RequestHash: hash,
		})
		if err != nil {
			log.Error().Err(err).Msg("marshal idempotency record")
			return nil
		}
		if err := store.Set(ctx, key, string(payload), ttl); err != nil {
			log.Error().Err(err).Msg("persist idempotency record")
		}
		return nil
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
