package avro

import (
	"fmt"
	"sync"

	"github.com/linkedin/goavro/v2"

	domain "tg_pizzeria/internal/domain/order"
)

// Codec converts order change events to and from Avro binary.
// Safe for concurrent use.
type Codec struct {
	codec *goavro.Codec
	mu    sync.Mutex
}

// NewCodec compiles the change-event schema.
func NewCodec() (*Codec, error) {
	codec, err := goavro.NewCodec(OrderChangeSchema)
	if err != nil {
		return nil, fmt.Errorf("create avro codec: %w", err)
	}
	return &Codec{codec: codec}, nil
}

// Encode serializes one change event to Avro binary.
func (c *Codec) Encode(ev domain.ChangeEvent) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	binary, err := c.codec.BinaryFromNative(nil, changeToNative(ev))
	if err != nil {
		return nil, fmt.Errorf("encode change event: %w", err)
	}
	return binary, nil
}

// Decode deserializes Avro binary back into a change event.
func (c *Codec) Decode(data []byte) (domain.ChangeEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	native, _, err := c.codec.NativeFromBinary(data)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	return changeFromNative(native)
}
