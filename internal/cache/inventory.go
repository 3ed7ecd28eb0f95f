package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix     = "profile:%s"
	QueryResultKeyPrefix = "rdf:result:%s"
	BlacklistKeyPrefix   = "blacklist:%s"
	ResetTokenKeyPrefix  = "pwreset:%s"
)

const (
	ProfileTTL     = 5 * time.Minute
	QueryResultTTL = 2 * time.Minute
)

func ProfileKey(userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func QueryResultKey(queryHash string) string {
	return fmt.Sprintf(QueryResultKeyPrefix, queryHash)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func ResetTokenKey(token string) string {
	return fmt.Sprintf(ResetTokenKeyPrefix, token)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, userID string) {
	Invalidate(ctx, ProfileKey(userID))
}
