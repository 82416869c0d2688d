package rdx

import (
	"os"
	"time"

	"velour/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxSetTTL(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}

func RdxHdel(hash, field string) error {
	return Conn.HDel(globals.Ctx, hash, field).Err()
}

// --- Session token mirror ---

const sessionHash = "sessions"

func StoreSessionToken(userID, token string) error {
	return RdxHset(sessionHash, userID, token)
}

func DropSessionToken(userID string) error {
	return RdxHdel(sessionHash, userID)
}

// --- Catalog page cache ---

const catalogCacheTTL = 60 * time.Second

func catalogKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "catalog:first:" + category
}

// CacheCatalogPage stores the serialized first page for a category.
func CacheCatalogPage(category, payload string) error {
	return RdxSetTTL(catalogKey(category), payload, catalogCacheTTL)
}

func GetCachedCatalogPage(category string) (string, error) {
	return RdxGet(catalogKey(category))
}

// InvalidateCatalog drops every cached first page; called after any
// product write, including the stock decrements of an order commit.
func InvalidateCatalog() {
	keys, err := Conn.Keys(globals.Ctx, "catalog:first:*").Result()
	if err != nil {
		return
	}
	for _, k := range keys {
		Conn.Del(globals.Ctx, k)
	}
}
