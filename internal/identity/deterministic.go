package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "pageresolver"

// UUID derives a deterministic UUID from a stable key using go-hashid. Keys are
// trimmed and case-folded by hashid before hashing.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	return derive(trimmed, true)
}

// ExactUUID is UUID without case folding, for keys such as slugs whose case
// is significant.
func ExactUUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	return derive(trimmed, false)
}

// Hash returns a stable, case-sensitive digest of key suitable for cache keys.
func Hash(key string) string {
	return strings.ReplaceAll(derive(key, false).String(), "-", "")
}

func derive(key string, normalize bool) uuid.UUID {
	uid, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(normalize))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return uid
}

func PageUUID(slug string) uuid.UUID {
	return ExactUUID(namespace + ":page:" + strings.TrimSpace(slug))
}

func BlockSettingUUID(pageID uuid.UUID, position int, blockType string) uuid.UUID {
	return UUID(namespace + ":block_setting:" + pageID.String() + ":" + strconv.Itoa(position) + ":" + strings.ToLower(strings.TrimSpace(blockType)))
}

func BlockValueUUID(settingID uuid.UUID) uuid.UUID {
	return UUID(namespace + ":block_value:" + settingID.String())
}

func ContentUUID(recordType, slug string) uuid.UUID {
	return ExactUUID(namespace + ":" + strings.ToLower(strings.TrimSpace(recordType)) + ":" + strings.TrimSpace(slug))
}
