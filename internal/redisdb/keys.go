package redisdb

import "strings"

type KeyPrefix string

const PrefixLink KeyPrefix = "link"

// KeyBuilder строит ключи вида [namespace:]prefix:part...
// Namespace нужен, когда один Redis делят несколько ботов.
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: strings.Trim(namespace, ":")}
}

func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	if k.namespace != "" {
		segments = append(segments, k.namespace)
	}
	segments = append(segments, string(prefix))
	segments = append(segments, parts...)
	return strings.Join(segments, ":")
}

// Link - ключ хэша ссылки
func (k *KeyBuilder) Link(token string) string {
	return k.Build(PrefixLink, token)
}
