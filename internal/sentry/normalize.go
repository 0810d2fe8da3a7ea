package sentry

import (
	"encoding/json"

	"github.com/go-faster/jx"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

// normalizeList turns a listing body into items. Sentry returns bare arrays
// for most listings, but some endpoints and proxies wrap them as
// {"data": [...]}. ok is false when the body has neither shape; the caller
// then gets an empty listing.
func normalizeList(body []byte) (items []payload.Object, ok bool, err error) {
	d := jx.DecodeBytes(body)
	switch d.Next() {
	case jx.Array:
		items, err := decodeItems(body)
		return items, err == nil, err
	case jx.Object:
		var data jx.Raw
		err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			if string(key) != "data" {
				return d.Skip()
			}
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			data = raw
			return nil
		})
		if err != nil {
			return nil, false, err
		}
		if data == nil || jx.DecodeBytes(data).Next() != jx.Array {
			return []payload.Object{}, false, nil
		}
		items, err := decodeItems(data)
		return items, err == nil, err
	default:
		return []payload.Object{}, false, nil
	}
}

// decodeItems keeps positions stable: a non-object element becomes a nil
// Object so counts match the listing.
func decodeItems(raw []byte) ([]payload.Object, error) {
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	items := make([]payload.Object, 0, len(values))
	for _, v := range values {
		obj, _ := payload.AsObject(v)
		items = append(items, obj)
	}
	return items, nil
}
