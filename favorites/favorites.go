package favorites

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dukaan/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const keyPrefix = "fav:count:"

// Handler keeps shared favorite counters in redis. Clients bump these after
// applying their optimistic local change; the flush worker folds the counts
// back into the product documents.
type Handler struct {
	conn *redis.Client
}

func NewHandler(conn *redis.Client) *Handler {
	return &Handler{conn: conn}
}

// Increment handles POST /api/favorites/:productId.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productId")
	count, err := h.conn.Incr(ctx, keyPrefix+productID).Result()
	if err != nil {
		log.Println("favorite incr error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update favorite count")
		return
	}
	h.conn.Expire(ctx, keyPrefix+productID, 24*time.Hour)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"productId": productID, "favorites": count})
}

// Decrement handles DELETE /api/favorites/:productId. Counts never go
// below zero.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productId")
	count, err := h.conn.Decr(ctx, keyPrefix+productID).Result()
	if err != nil {
		log.Println("favorite decr error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update favorite count")
		return
	}
	if count < 0 {
		h.conn.Set(ctx, keyPrefix+productID, 0, 24*time.Hour)
		count = 0
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"productId": productID, "favorites": count})
}

// FlushWorker periodically folds redis favorite counters into the products
// collection. Runs until the context is cancelled.
func FlushWorker(ctx context.Context, conn *redis.Client, products *mongo.Collection) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushOnce(ctx, conn, products)
		}
	}
}

func flushOnce(ctx context.Context, conn *redis.Client, products *mongo.Collection) {
	keys, err := conn.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		log.Println("favorites flush scan error:", err)
		return
	}

	for _, key := range keys {
		countStr, err := conn.Get(ctx, key).Result()
		if err != nil {
			log.Println("favorites flush get error:", err)
			continue
		}
		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil {
			log.Println("favorites flush parse error:", countStr)
			continue
		}

		productID := strings.TrimPrefix(key, keyPrefix)
		_, err = products.UpdateOne(ctx,
			bson.M{"productid": productID},
			bson.M{"$set": bson.M{"favorites": count}},
		)
		if err != nil {
			log.Println("favorites flush update error for", productID, ":", err)
		}
	}
}
