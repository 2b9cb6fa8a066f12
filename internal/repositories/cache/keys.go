package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const EntityUser EntityType = "user"

type KeyType string

const KeyProfile KeyType = "profile"

// GenerateKey builds keys of the form entity:keytype:value.
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// ParseKey splits a key built by GenerateKey. ok is false for keys with
// fewer than three segments.
func ParseKey(key string) (entity EntityType, keyType KeyType, value string, ok bool) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return EntityType(parts[0]), KeyType(parts[1]), parts[2], true
}
