package avro

import (
	"fmt"
	"time"

	domain "tg_pizzeria/internal/domain/order"
)

// changeToNative builds the goavro native form of a change event.
func changeToNative(ev domain.ChangeEvent) map[string]interface{} {
	o := ev.Order
	items := make([]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]interface{}{
			"name":     it.Name,
			"price":    it.Price,
			"quantity": int64(it.Quantity),
		})
	}

	return map[string]interface{}{
		"type": string(ev.Type),
		"order": map[string]interface{}{
			"id":             o.ID,
			"order_number":   o.OrderNumber,
			"customer_name":  o.CustomerName,
			"customer_phone": o.CustomerPhone,
			"items":          items,
			"total_amount":   o.TotalAmount,
			"payment_method": o.PaymentMethod,
			"payment_status": o.PaymentStatus,
			"order_status":   o.OrderStatus,
			"notes":          o.Notes,
			"created_at":     o.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updated_at":     o.UpdatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}

// changeFromNative rebuilds a change event from the decoded native form.
func changeFromNative(native interface{}) (domain.ChangeEvent, error) {
	rec, ok := native.(map[string]interface{})
	if !ok {
		return domain.ChangeEvent{}, fmt.Errorf("change event is not a record")
	}

	typ, err := nativeString(rec, "type")
	if err != nil {
		return domain.ChangeEvent{}, err
	}
	switch domain.ChangeType(typ) {
	case domain.ChangeInsert, domain.ChangeUpdate, domain.ChangeDelete:
	default:
		return domain.ChangeEvent{}, fmt.Errorf("unknown change type %q", typ)
	}

	orderRec, ok := rec["order"].(map[string]interface{})
	if !ok {
		return domain.ChangeEvent{}, fmt.Errorf("order field is not a record")
	}

	o := domain.Order{}
	if o.ID, err = nativeString(orderRec, "id"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.OrderNumber, err = nativeString(orderRec, "order_number"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.CustomerName, err = nativeString(orderRec, "customer_name"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.CustomerPhone, err = nativeString(orderRec, "customer_phone"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.PaymentMethod, err = nativeString(orderRec, "payment_method"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.PaymentStatus, err = nativeString(orderRec, "payment_status"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.OrderStatus, err = nativeString(orderRec, "order_status"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.Notes, err = nativeString(orderRec, "notes"); err != nil {
		return domain.ChangeEvent{}, err
	}

	total, ok := orderRec["total_amount"].(float64)
	if !ok {
		return domain.ChangeEvent{}, fmt.Errorf("total_amount is not a double")
	}
	o.TotalAmount = total

	if o.CreatedAt, err = nativeTime(orderRec, "created_at"); err != nil {
		return domain.ChangeEvent{}, err
	}
	if o.UpdatedAt, err = nativeTime(orderRec, "updated_at"); err != nil {
		return domain.ChangeEvent{}, err
	}

	rawItems, ok := orderRec["items"].([]interface{})
	if !ok {
		return domain.ChangeEvent{}, fmt.Errorf("items is not an array")
	}
	o.Items = make([]domain.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		itemRec, ok := raw.(map[string]interface{})
		if !ok {
			return domain.ChangeEvent{}, fmt.Errorf("item is not a record")
		}
		name, err := nativeString(itemRec, "name")
		if err != nil {
			return domain.ChangeEvent{}, err
		}
		price, ok := itemRec["price"].(float64)
		if !ok {
			return domain.ChangeEvent{}, fmt.Errorf("item price is not a double")
		}
		qty, ok := itemRec["quantity"].(int64)
		if !ok {
			return domain.ChangeEvent{}, fmt.Errorf("item quantity is not a long")
		}
		o.Items = append(o.Items, domain.Item{Name: name, Price: price, Quantity: int(qty)})
	}

	return domain.ChangeEvent{Type: domain.ChangeType(typ), Order: o}, nil
}

func nativeString(rec map[string]interface{}, key string) (string, error) {
	s, ok := rec[key].(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string", key)
	}
	return s, nil
}

func nativeTime(rec map[string]interface{}, key string) (time.Time, error) {
	s, err := nativeString(rec, key)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return t, nil
}
