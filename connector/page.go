package connector

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// pageItem is one raw hit as cached per provider page, before engine ranks
// are assigned. Ranks depend on the page cursor, so they are recomputed by
// the pagination loop rather than stored.
type pageItem struct {
	Title   string
	URL     string
	Snippet string
}

// marshalPage serializes a provider page for the result cache.
func marshalPage(items []pageItem) []byte {
	size := varint.PositiveInt.Size(len(items))
	for _, it := range items {
		size += ord.String.Size(it.Title)
		size += ord.String.Size(it.URL)
		size += ord.String.Size(it.Snippet)
	}
	bs := make([]byte, size)
	n := varint.PositiveInt.Marshal(len(items), bs)
	for _, it := range items {
		n += ord.String.Marshal(it.Title, bs[n:])
		n += ord.String.Marshal(it.URL, bs[n:])
		n += ord.String.Marshal(it.Snippet, bs[n:])
	}
	return bs
}

// unmarshalPage deserializes a cached provider page.
func unmarshalPage(bs []byte) ([]pageItem, error) {
	count, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPage, err)
	}
	items := make([]pageItem, 0, count)
	for i := 0; i < count; i++ {
		var it pageItem
		var m int
		if it.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptPage, err)
		}
		n += m
		if it.URL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptPage, err)
		}
		n += m
		if it.Snippet, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptPage, err)
		}
		n += m
		items = append(items, it)
	}
	return items, nil
}
