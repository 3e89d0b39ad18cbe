// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// AuthCacheKey builds the cache key holding the active token hash of an account.
func AuthCacheKey(role, id string) string {
	return AuthCachePrefix + role + ":" + id
}
