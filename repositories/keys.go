package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"matchtalk/domain"
)

// Key layout. Identifiers are uuid strings; message keys embed a 19-digit
// zero-padded unix-nano timestamp so chronological order is lexicographic
// and prefix scans come back sorted.
const (
	userPrefix      = "user:"      // user:{id} -> user blob
	usernamePrefix  = "username:"  // username:{name} -> user id
	presencePrefix  = "presence:"  // presence:{user} -> {last_activity, online}
	blockPrefix     = "block:"     // block:{actor}:{target}
	blockedByPrefix = "blockedby:" // blockedby:{target}:{actor}
	convPrefix      = "conv:"      // conv:{id} -> conversation blob
	convPairPrefix  = "convpair:"  // convpair:{min}:{max} -> conversation id
	userConvPrefix  = "userconv:"  // userconv:{user}:{conv}
	msgPrefix       = "msg:"       // msg:{conv}:{timestamp}:{id} -> message blob
	msgRefPrefix    = "msgref:"    // msgref:{id} -> message key
	unreadPrefix    = "unread:"    // unread:{recipient}:{conv}:{id} -> message key
	typingPrefix    = "typing:"    // typing:{conv}:{user}, written with a TTL
)

func userKey(id uuid.UUID) []byte { return []byte(userPrefix + id.String()) }

func usernameKey(name string) []byte { return []byte(usernamePrefix + name) }

func presenceKey(id uuid.UUID) []byte { return []byte(presencePrefix + id.String()) }

func blockKey(actor, target uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", blockPrefix, actor, target))
}

func blockedByKey(target, actor uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", blockedByPrefix, target, actor))
}

func conversationKey(id uuid.UUID) []byte { return []byte(convPrefix + id.String()) }

func conversationPairKey(a, b uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", convPairPrefix, a, b))
}

func userConversationKey(userID, convID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", userConvPrefix, userID, convID))
}

func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", msgPrefix, m.ConversationID, m.SentAt.UnixNano(), m.ID))
}

func messageRefKey(id uuid.UUID) []byte { return []byte(msgRefPrefix + id.String()) }

func unreadKey(recipient, convID, msgID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s", unreadPrefix, recipient, convID, msgID))
}

func typingKey(convID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", typingPrefix, convID, userID))
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, raw)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(raw []byte) error {
		return json.Unmarshal(raw, v)
	})
}
