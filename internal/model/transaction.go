package model

// Transaction is the ephemeral per-transaction correlation record that
// accumulates logical mint, burn, and swap ids in append order.
//
// The id slices are treated as copy-on-write: handlers never mutate a
// loaded slice in place, they replace it via AppendID / ReplaceLastID /
// PopLastID before saving the record back.
type Transaction struct {
	ID          string   `json:"id"`
	BlockNumber uint64   `json:"block_number"`
	Timestamp   uint64   `json:"timestamp"`
	Mints       []string `json:"mints"`
	Burns       []string `json:"burns"`
	Swaps       []string `json:"swaps"`
}

// AppendID returns a fresh slice with id appended.
func AppendID(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

// ReplaceLastID returns a fresh slice with the last element replaced.
func ReplaceLastID(ids []string, id string) []string {
	if len(ids) == 0 {
		return []string{id}
	}
	out := make([]string, len(ids))
	copy(out, ids)
	out[len(out)-1] = id
	return out
}

// PopLastID returns a fresh slice without the last element.
func PopLastID(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids)-1)
	copy(out, ids[:len(ids)-1])
	return out
}

// LastID returns the highest-index id, the "most recent" entry.
func LastID(ids []string) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}
