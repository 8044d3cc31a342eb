package badger

import (
	"encoding/binary"

	"github.com/poiesic/digitalpulse/core"
)

// Key prefixes for different data types
const (
	topicPrefix       = "top:"
	opinionPrefix     = "opn:"
	conclusionPrefix  = "con:"
	topicKeyIndex     = "idx:topkey:"
	opinionIDIndex    = "idx:opnid:"
	recordSequenceKey = "seq:records"
)

func collectionPrefix(kind core.Kind) string {
	switch kind {
	case core.KindTopic:
		return topicPrefix
	case core.KindOpinion:
		return opinionPrefix
	default:
		return conclusionPrefix
	}
}

// makeRecordKey generates the primary key for a record.
// Format: prefix + big endian sequence, so prefix scans yield insertion order.
func makeRecordKey(kind core.Kind, seq uint64) []byte {
	prefix := collectionPrefix(kind)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeIndexKey generates a secondary index key pointing at a primary key.
func makeIndexKey(index, value string) []byte {
	return []byte(index + value)
}
